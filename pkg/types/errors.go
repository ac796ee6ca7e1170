package types

import (
	"errors"

	"github.com/restpot/restpot/pkg/potential"
)

// KindOf classifies err for transport. Anything that is not a domain error
// is a bad request.
func KindOf(err error) string {
	switch {
	case errors.Is(err, potential.ErrDivisionByZero):
		return KindDivisionByZero
	case errors.Is(err, potential.ErrInvalidInput), errors.Is(err, potential.ErrUnknownParameter):
		return KindInvalidInput
	default:
		return KindBadRequest
	}
}

// remoteError keeps the server's message verbatim while unwrapping to the
// matching sentinel.
type remoteError struct {
	msg   string
	cause error
}

func (e *remoteError) Error() string { return e.msg }
func (e *remoteError) Unwrap() error { return e.cause }

// ErrorOf rebuilds an error received over the wire, so that errors.Is
// works against the potential sentinels on the client side.
func ErrorOf(kind, msg string) error {
	switch kind {
	case KindDivisionByZero:
		return &remoteError{msg: msg, cause: potential.ErrDivisionByZero}
	case KindInvalidInput:
		return &remoteError{msg: msg, cause: potential.ErrInvalidInput}
	default:
		return errors.New(msg)
	}
}
