package pgerr

import (
	"errors"
	"strings"
)

// WithCode decorates err with a Postgres SQLSTATE code.
func WithCode(err error, code Code) error {
	if err == nil {
		return nil
	}

	return &withCode{cause: err, code: code}
}

// GetCode returns the SQLSTATE code attached to err, or Uncategorized if
// none was attached.
func GetCode(err error) (code Code) {
	code = Uncategorized
	if c, ok := err.(*withCode); ok {
		return c.code
	}

	if n := errors.Unwrap(err); n != nil {
		inner := GetCode(n)
		code = combineCodes(inner, code)
	}

	return code
}

type withCode struct {
	cause error
	code  Code
}

func (w *withCode) Error() string { return w.cause.Error() }
func (w *withCode) Unwrap() error { return w.cause }

// combineCodes returns the more specific of two SQLSTATE codes, preferring
// an internal-error class ("XX") over an uncategorized inner code.
func combineCodes(inner, outer Code) Code {
	if outer == Uncategorized {
		return inner
	}
	if strings.HasPrefix(string(outer), "XX") {
		return outer
	}
	if inner != Uncategorized {
		return inner
	}
	return outer
}
