package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Operator is one of the four arithmetic operators.
type Operator int

const (
	OpAdd Operator = iota
	OpSubtract
	OpMultiply
	OpDivide
)

// Operators lists every operator in menu order.
var Operators = []Operator{OpAdd, OpSubtract, OpMultiply, OpDivide}

// Symbol returns "+", "-", "*" or "/".
func (o Operator) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	}
	return "?"
}

// Name returns the lowercase operation name used for routes and metrics.
func (o Operator) Name() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	}
	return "unknown"
}

func (o Operator) String() string {
	return o.Symbol()
}

// ParseOperator accepts either the symbol or the name of an operator.
func ParseOperator(s string) (Operator, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for _, op := range Operators {
		if s == op.Symbol() || s == op.Name() {
			return op, nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", s)
}

// BaseOption selects the base of a logarithm.
type BaseOption int

const (
	BaseNatural BaseOption = iota
	BaseCommon
	BaseCustom
)

// BaseOptions lists every option in menu order.
var BaseOptions = []BaseOption{BaseNatural, BaseCommon, BaseCustom}

func (b BaseOption) String() string {
	switch b {
	case BaseNatural:
		return "natural"
	case BaseCommon:
		return "common"
	case BaseCustom:
		return "custom"
	}
	return "unknown"
}

// Label is the text shown in the base selector.
func (b BaseOption) Label() string {
	switch b {
	case BaseNatural:
		return "e (natural)"
	case BaseCommon:
		return "10"
	case BaseCustom:
		return "custom"
	}
	return "unknown"
}

// ParseBaseOption accepts the option name, its label, or "e"/"10".
func ParseBaseOption(s string) (BaseOption, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "e", "natural", "e (natural)":
		return BaseNatural, nil
	case "10", "common":
		return BaseCommon, nil
	case "custom":
		return BaseCustom, nil
	}
	return 0, fmt.Errorf("unknown logarithm base option %q", s)
}

// Resolve returns the numeric base for the option. custom is only read for
// BaseCustom.
func (b BaseOption) Resolve(custom float64) float64 {
	switch b {
	case BaseCommon:
		return 10
	case BaseCustom:
		return custom
	default:
		return math.E
	}
}

// Result is the success outcome of an evaluation.
type Result struct {
	Value float64
	// Int holds the result when Integer is true; Value mirrors it as float64.
	Int     int64
	Integer bool
	Note    string
	Warning string
}

// String renders the value without exponent noise for integers.
func (r Result) String() string {
	if r.Integer {
		return strconv.FormatInt(r.Int, 10)
	}
	return formatFloat(r.Value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
