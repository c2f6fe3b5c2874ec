package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds. Every *Error built by the helpers below wraps one of them,
// so callers can branch with errors.Is without caring about HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrMalformed    = errors.New("malformed submission")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

// NotFound covers both a missing row and a row that exists under a different parent.
func NotFound(code, format string, args ...any) *Error {
	return New(http.StatusNotFound, code, wrap(ErrNotFound, format, args...))
}

func Validation(code, format string, args ...any) *Error {
	return New(http.StatusUnprocessableEntity, code, wrap(ErrValidation, format, args...))
}

func Malformed(code, format string, args ...any) *Error {
	return New(http.StatusBadRequest, code, wrap(ErrMalformed, format, args...))
}

func Conflict(code, format string, args ...any) *Error {
	return New(http.StatusConflict, code, wrap(ErrConflict, format, args...))
}

func Forbidden(code, format string, args ...any) *Error {
	return New(http.StatusForbidden, code, wrap(ErrForbidden, format, args...))
}

func Unauthorized(code, format string, args ...any) *Error {
	return New(http.StatusUnauthorized, code, wrap(ErrUnauthorized, format, args...))
}

// Internal hides err's text from the client; the HTTP layer logs it.
func Internal(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// As extracts the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) && e != nil {
		return e, true
	}
	return nil, false
}

func wrap(kind error, format string, args ...any) error {
	if format == "" {
		return kind
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
