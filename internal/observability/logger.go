package observability

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Logger is the process-wide logger. It starts as a no-op so packages can log
// before InitLogger runs (tests rely on this).
var Logger = zap.NewNop()

// InitLogger replaces Logger with a production JSON logger tagged with
// serviceName.
func InitLogger(serviceName string) error {
	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}

	Logger = logger.With(zap.String("service", serviceName))
	return nil
}

func SyncLogger() {
	_ = Logger.Sync()
}

// LoggerWithTrace returns a child logger enriched with trace_id and span_id
// fields from the active OTel span in ctx.
//
// ctx itself is attached as a zap.Any("context", ctx) field: the otelzap bridge
// uses any context-valued field as the context for log.Logger.Emit, which is
// what populates the native TraceID/SpanID on the exported OTLP record. The
// string trace_id/span_id fields keep stdout JSON greppable.
func LoggerWithTrace(ctx context.Context) *zap.Logger {
	span := trace.SpanContextFromContext(ctx)

	if !span.IsValid() {
		return Logger
	}

	return Logger.With(
		zap.Any("context", ctx),
		zap.String("trace_id", span.TraceID().String()),
		zap.String("span_id", span.SpanID().String()),
	)
}
