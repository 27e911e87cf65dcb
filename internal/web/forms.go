package web

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"go-chi-calculator/internal/evaluator"
)

// Operation identifies the active menu entry of the calculator page.
type Operation string

const (
	OpArithmetic  Operation = "arithmetic"
	OpModular     Operation = "modular"
	OpExponential Operation = "exponential"
	OpLogarithmic Operation = "logarithmic"
)

type menuItem struct {
	Op    Operation
	Label string
	Href  string
}

var menu = []menuItem{
	{Op: OpArithmetic, Label: "Arithmetic ( + , - , * , / )", Href: "/?op=arithmetic"},
	{Op: OpModular, Label: "Modular", Href: "/?op=modular"},
	{Op: OpExponential, Label: "Exponential", Href: "/?op=exponential"},
	{Op: OpLogarithmic, Label: "Logarithmic", Href: "/?op=logarithmic"},
	{Op: "population", Label: "Population Map", Href: "/population"},
}

func parseOperation(s string) Operation {
	switch op := Operation(strings.ToLower(strings.TrimSpace(s))); op {
	case OpArithmetic, OpModular, OpExponential, OpLogarithmic:
		return op
	}
	return OpArithmetic
}

// formValues keeps the submitted strings so the form re-renders as typed.
type formValues struct {
	A, B       string
	Operator   string
	Coerce     bool
	Base       string
	Exponent   string
	Value      string
	BaseOption string
	CustomBase string
}

func defaultForm() formValues {
	return formValues{
		A:          "0",
		B:          "0",
		Operator:   evaluator.OpAdd.Symbol(),
		Coerce:     true,
		Base:       "0",
		Exponent:   "0",
		Value:      "1",
		BaseOption: evaluator.BaseNatural.String(),
		CustomBase: strconv.FormatFloat(math.E, 'f', -1, 64),
	}
}

// formFrom copies values over the defaults. An unticked checkbox is simply
// absent, so coerce is only read from a submitted form.
func formFrom(op Operation, values url.Values, submitted bool) formValues {
	f := defaultForm()
	set := func(dst *string, key string) {
		if v, ok := values[key]; ok && len(v) > 0 {
			*dst = strings.TrimSpace(v[0])
		}
	}

	switch op {
	case OpArithmetic:
		set(&f.A, "a")
		set(&f.B, "b")
		set(&f.Operator, "operator")
	case OpModular:
		f.B = "1"
		set(&f.A, "a")
		set(&f.B, "b")
		if submitted {
			f.Coerce = values.Get("coerce") != ""
		}
	case OpExponential:
		set(&f.Base, "base")
		set(&f.Exponent, "exponent")
	case OpLogarithmic:
		set(&f.Value, "value")
		set(&f.BaseOption, "base_option")
		set(&f.CustomBase, "custom_base")
	}
	return f
}

// InputError reports a form field that could not be turned into an operand,
// including numbers that parse but are not finite.
type InputError struct {
	Field string
	Value string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("Invalid value for %s: %q.", e.Field, e.Value)
}

func parseOperand(field, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, &InputError{Field: field, Value: raw}
	}
	return v, nil
}

// request builds the evaluator request for the active operation.
func (f formValues) request(op Operation) (evaluator.Request, error) {
	switch op {
	case OpModular:
		a, err := parseOperand("a", f.A)
		if err != nil {
			return nil, err
		}
		b, err := parseOperand("b", f.B)
		if err != nil {
			return nil, err
		}
		return evaluator.ModularRequest{A: a, B: b, CoerceToInteger: f.Coerce}, nil

	case OpExponential:
		base, err := parseOperand("base", f.Base)
		if err != nil {
			return nil, err
		}
		exp, err := parseOperand("exponent", f.Exponent)
		if err != nil {
			return nil, err
		}
		return evaluator.ExponentialRequest{Base: base, Exponent: exp}, nil

	case OpLogarithmic:
		value, err := parseOperand("value", f.Value)
		if err != nil {
			return nil, err
		}
		opt, err := evaluator.ParseBaseOption(f.BaseOption)
		if err != nil {
			return nil, &InputError{Field: "base", Value: f.BaseOption}
		}
		var custom float64
		if opt == evaluator.BaseCustom {
			if custom, err = parseOperand("custom base", f.CustomBase); err != nil {
				return nil, err
			}
		}
		return evaluator.LogarithmicRequest{Value: value, BaseOption: opt, CustomBase: custom}, nil

	default:
		a, err := parseOperand("a", f.A)
		if err != nil {
			return nil, err
		}
		b, err := parseOperand("b", f.B)
		if err != nil {
			return nil, err
		}
		operator, err := evaluator.ParseOperator(f.Operator)
		if err != nil {
			return nil, &InputError{Field: "operator", Value: f.Operator}
		}
		return evaluator.ArithmeticRequest{A: a, B: b, Operator: operator}, nil
	}
}
