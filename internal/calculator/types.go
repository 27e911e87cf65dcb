package calculator

import (
	"fmt"
	"math"
	"strconv"

	"go-chi-calculator/internal/evaluator"
)

// CalcRequest is the JSON body for the per-operator shortcuts (add, subtract, multiply, divide).
type CalcRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
}

// ArithmeticRequest is the JSON body for POST /calculator/arithmetic.
type ArithmeticRequest struct {
	A        float64 `json:"a"`
	B        float64 `json:"b"`
	Operator string  `json:"operator"` // "+", "-", "*", "/" or their names
}

// ModularRequest is the JSON body for POST /calculator/modular.
type ModularRequest struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	// CoerceToInteger defaults to true when omitted.
	CoerceToInteger *bool `json:"coerce_to_integer,omitempty"`
}

// ExponentialRequest is the JSON body for POST /calculator/exponential.
type ExponentialRequest struct {
	Base     float64 `json:"base"`
	Exponent float64 `json:"exponent"`
}

// LogarithmicRequest is the JSON body for POST /calculator/logarithmic.
type LogarithmicRequest struct {
	Value      float64 `json:"value"`
	Base       string  `json:"base"` // "natural", "common" or "custom"
	CustomBase float64 `json:"custom_base"`
}

// CalcResponse is the JSON response for a successful evaluation. JSON has no
// encoding for infinities, so a non-finite result leaves Result null and is
// spelled out in ResultText ("+Inf", "-Inf" or "NaN").
type CalcResponse struct {
	Operation  string             `json:"operation"`
	Operands   map[string]float64 `json:"operands"`
	Result     *float64           `json:"result"`
	ResultText string             `json:"result_text,omitempty"`
	Integer    bool               `json:"integer,omitempty"`
	Note       string             `json:"note,omitempty"`
	Warning    string             `json:"warning,omitempty"`
}

func newCalcResponse(opName string, ops map[string]float64, res evaluator.Result) CalcResponse {
	resp := CalcResponse{
		Operation: opName,
		Operands:  ops,
		Integer:   res.Integer,
		Note:      res.Note,
		Warning:   res.Warning,
	}
	if math.IsInf(res.Value, 0) || math.IsNaN(res.Value) {
		resp.ResultText = strconv.FormatFloat(res.Value, 'g', -1, 64)
		return resp
	}
	v := res.Value
	resp.Result = &v
	return resp
}

// FailureResponse is the JSON response for an evaluation the evaluator rejected.
type FailureResponse struct {
	Operation string         `json:"operation"`
	Kind      evaluator.Kind `json:"kind"`
	Error     string         `json:"error"`
}

// operands is implemented by every request body so the handler can validate
// and report inputs without knowing the concrete type.
type operands interface {
	operands() map[string]float64
	toRequest() (evaluator.Request, error)
}

func (c CalcRequest) operands() map[string]float64 {
	return map[string]float64{"a": c.A, "b": c.B}
}

func (c ArithmeticRequest) operands() map[string]float64 {
	return map[string]float64{"a": c.A, "b": c.B}
}

func (c ArithmeticRequest) toRequest() (evaluator.Request, error) {
	op, err := evaluator.ParseOperator(c.Operator)
	if err != nil {
		return nil, err
	}
	return evaluator.ArithmeticRequest{A: c.A, B: c.B, Operator: op}, nil
}

func (c ModularRequest) operands() map[string]float64 {
	return map[string]float64{"a": c.A, "b": c.B}
}

func (c ModularRequest) toRequest() (evaluator.Request, error) {
	coerce := true
	if c.CoerceToInteger != nil {
		coerce = *c.CoerceToInteger
	}
	return evaluator.ModularRequest{A: c.A, B: c.B, CoerceToInteger: coerce}, nil
}

func (c ExponentialRequest) operands() map[string]float64 {
	return map[string]float64{"base": c.Base, "exponent": c.Exponent}
}

func (c ExponentialRequest) toRequest() (evaluator.Request, error) {
	return evaluator.ExponentialRequest{Base: c.Base, Exponent: c.Exponent}, nil
}

func (c LogarithmicRequest) operands() map[string]float64 {
	ops := map[string]float64{"value": c.Value}
	if c.Base == evaluator.BaseCustom.String() {
		ops["custom_base"] = c.CustomBase
	}
	return ops
}

func (c LogarithmicRequest) toRequest() (evaluator.Request, error) {
	opt, err := evaluator.ParseBaseOption(c.Base)
	if err != nil {
		return nil, err
	}
	return evaluator.LogarithmicRequest{Value: c.Value, BaseOption: opt, CustomBase: c.CustomBase}, nil
}

// operatorRequest binds a CalcRequest to a fixed operator.
type operatorRequest struct {
	CalcRequest
	op evaluator.Operator
}

func (c operatorRequest) toRequest() (evaluator.Request, error) {
	return evaluator.ArithmeticRequest{A: c.A, B: c.B, Operator: c.op}, nil
}

func validateOperands(ops map[string]float64) error {
	for name, v := range ops {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s=%g", name, v)
		}
	}
	return nil
}
