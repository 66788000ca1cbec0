// Package apperr defines the error kinds the API reports to clients.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a machine-readable error kind.
type Code string

const (
	CodeNotFound    Code = "NOT_FOUND"
	CodeValidation  Code = "VALIDATION"
	CodeDatabase    Code = "DATABASE"
	CodeTimeout     Code = "TIMEOUT"
	CodeTransaction Code = "TRANSACTION"
	CodeInternal    Code = "INTERNAL"
)

// HTTPStatus maps an error kind to the status code a handler responds with.
// Timeouts and aborted transactions are database failures from the client's
// point of view; the code in the body tells them apart.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the API error type.
type Error struct {
	Code    Code   // Machine-readable error kind
	Message string // Human-readable message
	Field   string // Offending request field, for validation errors
	Cause   error  // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates an error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// NotFound reports an id-based lookup that matched no row.
func NotFound(message string) *Error {
	return New(CodeNotFound, message)
}

// Validation reports a missing or malformed request field.
func Validation(field, message string) *Error {
	return &Error{Code: CodeValidation, Message: message, Field: field}
}

// CodeOf returns the code of the first *Error in err's chain, or CodeDatabase
// when err carries none.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeDatabase
}

// IsClientError reports whether err was caused by the request rather than the
// database, so it must not be retried or rewrapped.
func IsClientError(err error) bool {
	switch CodeOf(err) {
	case CodeNotFound, CodeValidation:
		return true
	}
	return false
}
