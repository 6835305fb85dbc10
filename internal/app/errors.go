package app

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrDistributionFailed ErrorCode = "DISTRIBUTION_FAILED"
	ErrInternal           ErrorCode = "INTERNAL_ERROR"
)

// Error is the typed failure returned by every use case.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return string(e.Code) + ": " + e.Message + ": " + e.Err.Error()
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(err error, format string, args ...any) *Error {
	return &Error{Code: ErrNotFound, Message: fmt.Sprintf(format, args...), Err: err}
}

func InvalidInput(format string, args ...any) *Error {
	return &Error{Code: ErrInvalidInput, Message: fmt.Sprintf(format, args...)}
}

func DistributionFailed(err error, format string, args ...any) *Error {
	return &Error{Code: ErrDistributionFailed, Message: fmt.Sprintf(format, args...), Err: err}
}

func Internal(err error, format string, args ...any) *Error {
	return &Error{Code: ErrInternal, Message: fmt.Sprintf(format, args...), Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or
// ErrInternal for any other non-nil error.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
