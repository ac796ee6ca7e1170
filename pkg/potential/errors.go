package potential

import "errors"

var (
	// ErrInvalidInput is returned when an input is outside the domain of the
	// equation, e.g. a non-positive concentration passed to Nernst.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDivisionByZero is returned when the weighted GHK denominator is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrUnknownParameter is returned by GHKInput.Set for names it does not know.
	ErrUnknownParameter = errors.New("unknown parameter")
)
