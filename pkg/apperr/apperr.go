package apperr

import (
	"errors"
	"net/http"
)

// Code classifies an error for HTTP mapping and for the response envelope.
type Code string

const (
	CodeValidation     Code = "validation_error"
	CodeAuthentication Code = "authentication_error"
	CodeAuthorization  Code = "authorization_error"
	CodeNotFound       Code = "not_found"
	CodeConflict       Code = "conflict"
	CodeServer         Code = "server_error"
)

// FieldError carries per-field validation detail for the errors? list in
// the failure envelope.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the application error type shared by services and handlers.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Status maps the error code to an HTTP status.
func (e *Error) Status() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeAuthentication:
		return http.StatusUnauthorized
	case CodeAuthorization:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(message string, fields ...FieldError) *Error {
	return &Error{Code: CodeValidation, Message: message, Fields: fields}
}

func Authentication(message string) *Error {
	return &Error{Code: CodeAuthentication, Message: message}
}

func Authorization(message string) *Error {
	return &Error{Code: CodeAuthorization, Message: message}
}

func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Server(message string, err error) *Error {
	return &Error{Code: CodeServer, Message: message, Err: err}
}

// From extracts an *Error from err, wrapping anything unknown as a server
// error so handlers never leak internals.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Server("Internal server error", err)
}
