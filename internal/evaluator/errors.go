package evaluator

import (
	"errors"
	"fmt"
)

// Kind classifies why an evaluation failed.
type Kind int

const (
	Unexpected Kind = iota
	DivisionByZero
	ModuloByZero
	InvalidLogArgument
	InvalidLogBase
	NumericOverflow
)

var kindNames = map[Kind]string{
	Unexpected:         "unexpected",
	DivisionByZero:     "division_by_zero",
	ModuloByZero:       "modulo_by_zero",
	InvalidLogArgument: "invalid_log_argument",
	InvalidLogBase:     "invalid_log_base",
	NumericOverflow:    "numeric_overflow",
}

// String returns the snake_case name used in JSON bodies and metric attributes.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Error is the failure outcome of an evaluation. It is never returned
// together with a meaningful Result.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against another *Error of the same Kind, so callers can
// write errors.Is(err, evaluator.ErrDivisionByZero).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	ErrDivisionByZero     = &Error{Kind: DivisionByZero, Message: "Division by zero is not allowed."}
	ErrModuloByZero       = &Error{Kind: ModuloByZero, Message: "Modulo by zero is not allowed."}
	ErrInvalidLogArgument = &Error{Kind: InvalidLogArgument, Message: "Logarithm argument must be > 0"}
	ErrInvalidLogBase     = &Error{Kind: InvalidLogBase, Message: "Logarithm base must be > 0 and ≠ 1"}
	ErrNumericOverflow    = &Error{Kind: NumericOverflow, Message: "Numerical overflow occurred for a ** b."}
)

func fail(sentinel *Error) *Error {
	return &Error{Kind: sentinel.Kind, Message: sentinel.Message}
}

func unexpected(err error) *Error {
	return &Error{Kind: Unexpected, Message: err.Error(), Err: err}
}

// KindOf returns the Kind carried by err, or Unexpected when err is not an
// evaluation failure.
func KindOf(err error) Kind {
	var evalErr *Error
	if errors.As(err, &evalErr) {
		return evalErr.Kind
	}
	return Unexpected
}
