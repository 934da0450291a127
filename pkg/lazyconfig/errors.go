package lazyconfig

import (
	"errors"
	"fmt"
)

// Error is a configuration loading error with a structured error code.
// Two errors are equal under errors.Is when their codes match.
type Error struct {
	Code    string // Error code (e.g., "CFG-LOAD-4040")
	Message string // Human-readable message
	Details string // Offending label or path
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Details != "" {
		msg = msg + ": " + e.Details
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, msg)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewError creates a new Error with the given code and message.
func NewError(code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *Error) WithDetails(details string) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// ErrorCode extracts the error code from err if it is an *Error.
func ErrorCode(err error) string {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

var (
	// ErrInvalidTable indicates a path table entry violates the table invariants.
	ErrInvalidTable = NewError("CFG-LOAD-4000", "invalid path table")

	// ErrLabelNotFound indicates the requested label is absent from the table.
	ErrLabelNotFound = NewError("CFG-LOAD-4040", "no entries found for label")

	// ErrInvalidFile indicates a path is missing, not a regular file, or unreadable.
	ErrInvalidFile = NewError("CFG-LOAD-4041", "invalid or unreadable file")

	// ErrDecodeFailed indicates a file was read but its content could not be decoded.
	ErrDecodeFailed = NewError("CFG-LOAD-4220", "decode config file")
)
