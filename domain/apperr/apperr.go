// Package apperr defines the error codes shared by every module and the HTTP layer.
package apperr

import (
	"errors"
	"net/http"
)

// Code is a stable, client-visible error code.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeConflict           Code = "CONFLICT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeRateLimited        Code = "RATE_LIMITED"
	CodeServerError        Code = "SERVER_ERROR"
)

// HTTPStatus returns the status code a response carrying c should use.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeConflict:
		return http.StatusConflict
	case CodeNotFound:
		return http.StatusNotFound
	case CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain failure that is safe to show to clients.
// It is also the wire form used inside service replies.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Validation(message string) *Error   { return New(CodeValidation, message) }
func Unauthorized(message string) *Error { return New(CodeUnauthorized, message) }
func NotFound(message string) *Error     { return New(CodeNotFound, message) }
func Conflict(message string) *Error     { return New(CodeConflict, message) }

// InvalidCredentials is returned for any login mismatch.
func InvalidCredentials() *Error {
	return New(CodeInvalidCredentials, "Invalid credentials")
}

// Internal is the opaque error surfaced for unexpected failures.
func Internal() *Error {
	return New(CodeServerError, "Server error")
}

// From converts err into an *Error. Errors that are not already an *Error
// become an opaque SERVER_ERROR so that internal details never leak.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Internal()
}

// CodeOf returns the code carried by err, or SERVER_ERROR.
func CodeOf(err error) Code {
	return From(err).Code
}
