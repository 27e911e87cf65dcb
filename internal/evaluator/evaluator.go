// Package evaluator applies the calculator's four operation families under
// explicit domain guards. Every function is pure and safe for concurrent use;
// failures come back as *Error values instead of panics.
package evaluator

import (
	"errors"
	"fmt"
	"math"
)

// LargeExponent is the exponent magnitude above which Exponential attaches a
// warning to its result.
const LargeExponent = 1_000_000

const largeExponentWarning = "Exponent magnitude is very large; result may overflow or take long to compute."

// Request is one of Arithmetic, Modular, Exponential or Logarithmic.
type Request interface {
	// Operation names the family for logs, spans and metrics.
	Operation() string
	isRequest()
}

type ArithmeticRequest struct {
	A, B     float64
	Operator Operator
}

type ModularRequest struct {
	A, B            float64
	CoerceToInteger bool
}

type ExponentialRequest struct {
	Base, Exponent float64
}

type LogarithmicRequest struct {
	Value      float64
	BaseOption BaseOption
	// CustomBase is only read when BaseOption is BaseCustom.
	CustomBase float64
}

func (ArithmeticRequest) Operation() string  { return "arithmetic" }
func (ModularRequest) Operation() string     { return "modular" }
func (ExponentialRequest) Operation() string { return "exponential" }
func (LogarithmicRequest) Operation() string { return "logarithmic" }

func (ArithmeticRequest) isRequest()  {}
func (ModularRequest) isRequest()     {}
func (ExponentialRequest) isRequest() {}
func (LogarithmicRequest) isRequest() {}

// Evaluate dispatches req to its operation. A panic raised while evaluating is
// recovered and reported as an Unexpected failure carrying the panic message.
func Evaluate(req Request) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{}
			err = unexpected(panicError(r))
		}
	}()

	switch r := req.(type) {
	case ArithmeticRequest:
		return Arithmetic(r.A, r.B, r.Operator)
	case ModularRequest:
		return Modular(r.A, r.B, r.CoerceToInteger)
	case ExponentialRequest:
		return Exponential(r.Base, r.Exponent)
	case LogarithmicRequest:
		return LogarithmicWith(r.Value, r.BaseOption, r.CustomBase)
	case nil:
		return Result{}, unexpected(errors.New("no operation requested"))
	default:
		return Result{}, unexpected(fmt.Errorf("unsupported request %T", req))
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// Arithmetic applies +, -, * or /. Overflow to infinity from finite operands
// is still a success but carries a warning.
func Arithmetic(a, b float64, op Operator) (Result, error) {
	var v float64
	switch op {
	case OpAdd:
		v = a + b
	case OpSubtract:
		v = a - b
	case OpMultiply:
		v = a * b
	case OpDivide:
		if b == 0 {
			return Result{}, fail(ErrDivisionByZero)
		}
		v = a / b
	default:
		return Result{}, unexpected(fmt.Errorf("unknown operator %d", int(op)))
	}

	res := Result{Value: v}
	if math.IsInf(v, 0) && isFinite(a) && isFinite(b) {
		res.Warning = "Result exceeds the float64 range and was rounded to infinity."
	}
	return res, nil
}

// Modular returns a mod b with the sign of the divisor. With coerce set both
// operands are floored to integers first and the coerced pair is reported in
// the result note.
func Modular(a, b float64, coerce bool) (Result, error) {
	if b == 0 {
		return Result{}, fail(ErrModuloByZero)
	}

	if !coerce {
		return Result{Value: floorModFloat(a, b)}, nil
	}

	ia, err := floorToInt(a)
	if err != nil {
		return Result{}, err
	}
	ib, err := floorToInt(b)
	if err != nil {
		return Result{}, err
	}
	if ib == 0 {
		return Result{}, fail(ErrModuloByZero)
	}

	m := floorModInt(ia, ib)
	return Result{
		Value:   float64(m),
		Int:     m,
		Integer: true,
		Note:    fmt.Sprintf("Using integers a=%d, b=%d", ia, ib),
	}, nil
}

// floorToInt floors v into an int64, rejecting values that have no integer
// representation.
func floorToInt(v float64) (int64, error) {
	switch {
	case math.IsNaN(v):
		return 0, unexpected(errors.New("cannot convert float NaN to integer"))
	case math.IsInf(v, 0):
		return 0, unexpected(errors.New("cannot convert float infinity to integer"))
	}

	f := math.Floor(v)
	// 2^63 is exactly representable; anything at or above it overflows int64.
	if f >= math.Exp2(63) || f < -math.Exp2(63) {
		return 0, &Error{
			Kind:    NumericOverflow,
			Message: fmt.Sprintf("%s does not fit in a 64-bit integer.", formatFloat(f)),
		}
	}
	return int64(f), nil
}

func floorModInt(a, b int64) int64 {
	m := a % b
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

func floorModFloat(a, b float64) float64 {
	m := math.Mod(a, b)
	if m == 0 {
		return math.Copysign(0, b)
	}
	if (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// Exponential returns base raised to exponent using real arithmetic.
func Exponential(base, exponent float64) (Result, error) {
	var warning string
	if math.Abs(exponent) > LargeExponent {
		warning = largeExponentWarning
	}

	if base == 0 && exponent < 0 {
		return Result{}, unexpected(errors.New("0.0 cannot be raised to a negative power"))
	}
	if base < 0 && isFinite(exponent) && exponent != math.Trunc(exponent) {
		return Result{}, unexpected(errors.New("negative number cannot be raised to a fractional power"))
	}

	v := math.Pow(base, exponent)
	if math.IsInf(v, 0) && isFinite(base) && isFinite(exponent) {
		return Result{}, fail(ErrNumericOverflow)
	}
	return Result{Value: v, Warning: warning}, nil
}

// Logarithmic returns the base-base logarithm of value.
func Logarithmic(value, base float64) (Result, error) {
	return logarithm(value, base, formatFloat(base))
}

// LogarithmicWith resolves the base option before computing the logarithm.
func LogarithmicWith(value float64, option BaseOption, custom float64) (Result, error) {
	base := option.Resolve(custom)
	label := formatFloat(base)
	if option == BaseNatural {
		label = "e"
	}
	return logarithm(value, base, label)
}

func logarithm(value, base float64, baseLabel string) (Result, error) {
	if value <= 0 {
		return Result{}, fail(ErrInvalidLogArgument)
	}
	if base <= 0 || base == 1 {
		return Result{}, fail(ErrInvalidLogBase)
	}

	return Result{
		Value: math.Log(value) / math.Log(base),
		Note:  fmt.Sprintf("log base %s of %s", baseLabel, formatFloat(value)),
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
