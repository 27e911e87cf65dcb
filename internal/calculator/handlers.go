package calculator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go-chi-calculator/internal/evaluator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tracer is the calculator's dedicated OpenTelemetry tracer.
var tracer = otel.Tracer("calculator")

// ---------------------------------------------------------------------------
// Handlers: operation families
// ---------------------------------------------------------------------------

// Arithmetic handles POST /calculator/arithmetic
func Arithmetic(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "arithmetic", decode[ArithmeticRequest])
}

// Modular handles POST /calculator/modular
func Modular(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "modular", decode[ModularRequest])
}

// Exponential handles POST /calculator/exponential
func Exponential(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "exponential", decode[ExponentialRequest])
}

// Logarithmic handles POST /calculator/logarithmic
func Logarithmic(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "logarithmic", decode[LogarithmicRequest])
}

// ---------------------------------------------------------------------------
// Handlers: per-operator shortcuts
// ---------------------------------------------------------------------------

// Add handles POST /calculator/add
func Add(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "add", decodeWithOperator(evaluator.OpAdd))
}

// Subtract handles POST /calculator/subtract
func Subtract(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "subtract", decodeWithOperator(evaluator.OpSubtract))
}

// Multiply handles POST /calculator/multiply
func Multiply(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "multiply", decodeWithOperator(evaluator.OpMultiply))
}

// Divide handles POST /calculator/divide. A zero divisor is reported as a
// division_by_zero failure.
func Divide(w http.ResponseWriter, r *http.Request) {
	handleEvaluation(w, r, "divide", decodeWithOperator(evaluator.OpDivide))
}

func decode[T operands](r *http.Request) (operands, error) {
	var body T
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body, nil
}

func decodeWithOperator(op evaluator.Operator) func(*http.Request) (operands, error) {
	return func(r *http.Request) (operands, error) {
		var body CalcRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return nil, err
		}
		return operatorRequest{CalcRequest: body, op: op}, nil
	}
}

// handleEvaluation is the shared implementation for every calculator endpoint:
// child span, decoding and validation, the evaluator call, metrics,
// trace-correlated logging and the JSON response.
func handleEvaluation(w http.ResponseWriter, r *http.Request, opName string, decodeBody func(*http.Request) (operands, error)) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, fmt.Sprintf("calculator.%s", opName),
		trace.WithAttributes(
			attribute.String("calculator.operation", opName),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	body, err := decodeBody(r)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	ops := body.operands()
	if err := validateOperands(ops); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", err, http.StatusBadRequest, w)
		return
	}

	req, err := body.toRequest()
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, http.StatusBadRequest, w)
		return
	}

	for name, v := range ops {
		span.SetAttributes(attribute.Float64("calculator.operand."+name, v))
	}

	start := time.Now()
	result, err := evaluator.Evaluate(req)
	elapsed := float64(time.Since(start).Microseconds()) / 1000.0 // ms

	if err != nil {
		recordFailure(ctx, w, span, logger, opName, ops, err)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", opName))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result.Value, attrs)

	if result.Warning != "" {
		warningCounter.Add(ctx, 1, attrs)
		span.AddEvent("computation.warning", trace.WithAttributes(
			attribute.String("warning", result.Warning),
		))
	}

	span.AddEvent("computation.complete", trace.WithAttributes(
		attribute.Float64("result", result.Value),
		attribute.Float64("duration_ms", elapsed),
	))
	span.SetAttributes(attribute.Float64("calculator.result", result.Value))
	span.SetStatus(codes.Ok, "")

	logger.Info("calculator operation completed",
		zap.String("operation", opName),
		zap.Any("operands", ops),
		zap.Float64("result", result.Value),
		zap.String("note", result.Note),
		zap.String("warning", result.Warning),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, newCalcResponse(opName, ops, result))
}

// recordFailure reports an evaluator rejection. These are client-side domain
// violations, so they are logged at warn level and answered with 422.
func recordFailure(ctx context.Context, w http.ResponseWriter, span trace.Span, logger *zap.Logger, opName string, ops map[string]float64, err error) {
	kind := evaluator.KindOf(err)
	msg := err.Error()

	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(attribute.String("calculator.failure_kind", kind.String()))

	errorCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", opName),
		attribute.String("kind", kind.String()),
	))

	logger.Warn("calculator operation rejected",
		zap.String("operation", opName),
		zap.Any("operands", ops),
		zap.Stringer("kind", kind),
		zap.Error(err),
		zap.String("request_id", observability.RequestIDFromContext(ctx)),
	)

	handlers.WriteJSON(w, http.StatusUnprocessableEntity, FailureResponse{
		Operation: opName,
		Kind:      kind,
		Error:     msg,
	})
}
