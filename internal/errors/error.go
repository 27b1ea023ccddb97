package errors

import "errors"

// Re-export the standard helpers so callers need a single errors import.
var (
	New    = errors.New
	Unwrap = errors.Unwrap
	Is     = errors.Is
	As     = errors.As
)

// AppError carries a stable machine code, a client-safe message and the
// wrapped cause. Only the message ever reaches a client; the cause is for
// logs.
type AppError struct {
	code    string
	message string
	err     error
}

func (e *AppError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *AppError) Code() string    { return e.code }
func (e *AppError) Message() string { return e.message }
func (e *AppError) Unwrap() error   { return e.err }

// NewAppError builds an AppError from a code constant.
func NewAppError(code, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

// Wrap adds context to an error. An AppError keeps its code; anything else
// becomes an internal error.
func Wrap(err error, message string) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return &AppError{code: appErr.code, message: message, err: err}
	}
	return &AppError{code: ErrInternal, message: message, err: err}
}

// HasCode reports whether any error in the chain carries the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.code == code
	}
	return false
}
