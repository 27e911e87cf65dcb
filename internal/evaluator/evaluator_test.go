package evaluator

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var samples = []float64{-1e12, -37.5, -3, -1, -0.25, 0, 0.5, 1, 2, 7.75, 1e9}

func requireKind(t *testing.T, err error, want Kind) {
	t.Helper()
	require.Error(t, err)
	var evalErr *Error
	require.True(t, errors.As(err, &evalErr), "expected *Error, got %T", err)
	assert.Equal(t, want, evalErr.Kind, "message: %s", evalErr.Message)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		op   Operator
		want float64
	}{
		{name: "add", a: 10, b: 3, op: OpAdd, want: 13},
		{name: "subtract", a: 10, b: 3, op: OpSubtract, want: 7},
		{name: "multiply", a: 10, b: 3, op: OpMultiply, want: 30},
		{name: "divide", a: 9, b: 3, op: OpDivide, want: 3},
		{name: "divide negative", a: -1, b: 4, op: OpDivide, want: -0.25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Arithmetic(tc.a, tc.b, tc.op)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Value)
			assert.Empty(t, res.Warning)
		})
	}
}

func TestArithmeticDivideMatchesQuotient(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			if b == 0 {
				continue
			}
			res, err := Arithmetic(a, b, OpDivide)
			require.NoError(t, err)
			assert.Equal(t, a/b, res.Value, "%g / %g", a, b)
		}
	}
}

func TestArithmeticDivisionByZero(t *testing.T) {
	for _, a := range samples {
		_, err := Arithmetic(a, 0, OpDivide)
		requireKind(t, err, DivisionByZero)
		assert.Equal(t, "Division by zero is not allowed.", err.Error())
		assert.True(t, errors.Is(err, ErrDivisionByZero))
	}
}

func TestArithmeticOverflowIsWarnedSuccess(t *testing.T) {
	res, err := Arithmetic(math.MaxFloat64, math.MaxFloat64, OpAdd)
	require.NoError(t, err)
	assert.True(t, math.IsInf(res.Value, 1))
	assert.NotEmpty(t, res.Warning)
}

func TestArithmeticUnknownOperator(t *testing.T) {
	_, err := Arithmetic(1, 2, Operator(42))
	requireKind(t, err, Unexpected)
}

func TestModularByZero(t *testing.T) {
	for _, a := range samples {
		for _, coerce := range []bool{true, false} {
			_, err := Modular(a, 0, coerce)
			requireKind(t, err, ModuloByZero)
			assert.Equal(t, "Modulo by zero is not allowed.", err.Error())
		}
	}
}

func TestModularCoercesToIntegers(t *testing.T) {
	res, err := Modular(5.7, 2.0, true)
	require.NoError(t, err)
	assert.True(t, res.Integer)
	assert.Equal(t, int64(1), res.Int)
	assert.Equal(t, 1.0, res.Value)
	assert.Equal(t, "Using integers a=5, b=2", res.Note)
	assert.Equal(t, "1", res.String())
}

func TestModularFlooredDivisorOfZero(t *testing.T) {
	_, err := Modular(5, 0.5, true)
	requireKind(t, err, ModuloByZero)
}

func TestModularSignFollowsDivisor(t *testing.T) {
	tests := []struct {
		a, b   float64
		coerce bool
		want   float64
	}{
		{a: -1, b: 3, want: 2},
		{a: 1, b: -3, want: -2},
		{a: -7, b: -3, want: -1},
		{a: 7.5, b: 2, want: 1.5},
		{a: -1, b: 3, coerce: true, want: 2},
		{a: -1.5, b: 3, coerce: true, want: 1},
		{a: 7, b: -2.5, coerce: true, want: -2},
	}

	for _, tc := range tests {
		res, err := Modular(tc.a, tc.b, tc.coerce)
		require.NoError(t, err)
		assert.Equal(t, tc.want, res.Value, "%g mod %g (coerce=%t)", tc.a, tc.b, tc.coerce)
	}
}

func TestModularZeroRemainderTakesDivisorSign(t *testing.T) {
	res, err := Modular(6, -3, false)
	require.NoError(t, err)
	assert.True(t, math.Signbit(res.Value))
}

func TestModularCoercionRejectsUnrepresentable(t *testing.T) {
	_, err := Modular(1e30, 7, true)
	requireKind(t, err, NumericOverflow)

	_, err = Modular(math.Inf(1), 7, true)
	requireKind(t, err, Unexpected)
	assert.Equal(t, "cannot convert float infinity to integer", err.Error())

	_, err = Modular(math.NaN(), 7, true)
	requireKind(t, err, Unexpected)
}

func TestExponential(t *testing.T) {
	res, err := Exponential(2, 10)
	require.NoError(t, err)
	assert.Equal(t, 1024.0, res.Value)
	assert.Empty(t, res.Warning)

	res, err = Exponential(-2, 3)
	require.NoError(t, err)
	assert.Equal(t, -8.0, res.Value)

	res, err = Exponential(4, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.Value)
}

func TestExponentialLargeExponent(t *testing.T) {
	_, err := Exponential(2, 2_000_000)
	requireKind(t, err, NumericOverflow)

	res, err := Exponential(1, 2_000_000)
	require.NoError(t, err)
	assert.Equal(t, 1.0, res.Value)
	assert.Equal(t, largeExponentWarning, res.Warning)

	res, err = Exponential(2, -2_000_000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, res.Value)
	assert.NotEmpty(t, res.Warning)
}

func TestExponentialOverflow(t *testing.T) {
	_, err := Exponential(10, 400)
	requireKind(t, err, NumericOverflow)
	assert.True(t, errors.Is(err, ErrNumericOverflow))
}

func TestExponentialDomainFailures(t *testing.T) {
	_, err := Exponential(-8, 1.0/3)
	requireKind(t, err, Unexpected)

	_, err = Exponential(0, -1)
	requireKind(t, err, Unexpected)
	assert.Equal(t, "0.0 cannot be raised to a negative power", err.Error())
}

func TestLogarithmic(t *testing.T) {
	res, err := LogarithmicWith(100, BaseCommon, 0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, res.Value, 1e-12)
	assert.Equal(t, "log base 10 of 100", res.Note)

	res, err = LogarithmicWith(math.E, BaseNatural, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Value, 1e-12)
	assert.Equal(t, "log base e of 2.718281828459045", res.Note)

	res, err = LogarithmicWith(8, BaseCustom, 2)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, res.Value, 1e-12)
}

func TestLogarithmicInvalidArgument(t *testing.T) {
	for _, v := range []float64{0, -1, -1e9} {
		for _, base := range []float64{1, 2, 10, -3} {
			_, err := Logarithmic(v, base)
			requireKind(t, err, InvalidLogArgument)
			assert.Contains(t, err.Error(), "must be > 0")
		}
	}
}

func TestLogarithmicInvalidBase(t *testing.T) {
	for _, v := range []float64{0.5, 1, 100} {
		for _, base := range []float64{1, 0, -2} {
			_, err := Logarithmic(v, base)
			requireKind(t, err, InvalidLogBase)
		}
		_, err := LogarithmicWith(v, BaseCustom, 1)
		requireKind(t, err, InvalidLogBase)
	}
}

func TestLogarithmicRoundTrip(t *testing.T) {
	for _, base := range []float64{0.5, 2, math.E, 3.3, 10, 1000} {
		for _, k := range []float64{-4, -1.5, 0.25, 1, 3, 7} {
			res, err := LogarithmicWith(math.Pow(base, k), BaseCustom, base)
			require.NoError(t, err)
			assert.InEpsilon(t, k, res.Value, 1e-9, "log_%g(%g^%g)", base, base, k)
		}
	}
}

func TestEvaluateDispatch(t *testing.T) {
	tests := []struct {
		req  Request
		want float64
	}{
		{req: ArithmeticRequest{A: 10, B: 3, Operator: OpAdd}, want: 13},
		{req: ModularRequest{A: 5.7, B: 2, CoerceToInteger: true}, want: 1},
		{req: ExponentialRequest{Base: 2, Exponent: 10}, want: 1024},
		{req: LogarithmicRequest{Value: 100, BaseOption: BaseCommon}, want: 2},
	}

	for _, tc := range tests {
		t.Run(tc.req.Operation(), func(t *testing.T) {
			res, err := Evaluate(tc.req)
			require.NoError(t, err)
			assert.InDelta(t, tc.want, res.Value, 1e-12)
		})
	}
}

func TestEvaluateNilRequest(t *testing.T) {
	_, err := Evaluate(nil)
	requireKind(t, err, Unexpected)
}

func TestKindOf(t *testing.T) {
	_, err := Arithmetic(1, 0, OpDivide)
	assert.Equal(t, DivisionByZero, KindOf(err))
	assert.Equal(t, Unexpected, KindOf(errors.New("boom")))
	assert.Equal(t, "division_by_zero", DivisionByZero.String())
}

func TestParseOperator(t *testing.T) {
	for _, op := range Operators {
		got, err := ParseOperator(op.Symbol())
		require.NoError(t, err)
		assert.Equal(t, op, got)

		got, err = ParseOperator(op.Name())
		require.NoError(t, err)
		assert.Equal(t, op, got)
	}

	_, err := ParseOperator("^")
	assert.Error(t, err)
}

func TestParseBaseOption(t *testing.T) {
	for _, opt := range BaseOptions {
		got, err := ParseBaseOption(opt.String())
		require.NoError(t, err)
		assert.Equal(t, opt, got)
	}

	_, err := ParseBaseOption("2")
	assert.Error(t, err)
}
