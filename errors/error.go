package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is a coded error. Message is safe to show to API consumers;
// Cause keeps the underlying failure for logs and errors.Is/As checks.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Cause.Error()
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an error with the given code and caller-facing message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an error with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and caller-facing message to err.
// It returns nil if err is nil.
func Wrap(err error, code ErrorCode, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

// CodeOf returns the code of the outermost *Error in err's chain,
// or CodeUnknown if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// MessageOf returns the caller-facing message for err.
// For coded errors this is Message only, never the cause; plain errors
// fall back to their Error() text.
func MessageOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Is is a passthrough to the standard library so callers need only one errors import.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a passthrough to the standard library so callers need only one errors import.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
