// Package errors defines the application error taxonomy shared by the
// usecase and delivery layers.
package errors

import (
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return pkgerrors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Predefined error types
var (
	// ErrValidationFailed covers missing required fields; user-correctable,
	// pages re-render the form with the message.
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"All fields required",
	)

	// ErrUsernameTaken is the duplicate-username registration conflict.
	ErrUsernameTaken = NewBaseError(
		http.StatusConflict,
		"USERNAME_TAKEN",
		"Username exists",
	)

	// ErrInvalidCredentials covers both unknown username and wrong password.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid credentials",
	)

	// ErrOAuthFailed is a provider denial or exchange failure.
	ErrOAuthFailed = NewBaseError(
		http.StatusUnauthorized,
		"OAUTH_FAILED",
		"Federated sign-in failed",
	)

	// ErrFlightNotFound deliberately merges "doesn't exist" and "not yours"
	// so callers cannot probe for other users' records.
	ErrFlightNotFound = NewBaseError(
		http.StatusNotFound,
		"FLIGHT_NOT_FOUND",
		"Flight not found or access denied",
	)

	// ErrFlightNumberTaken enforces per-owner flight number uniqueness.
	ErrFlightNumberTaken = NewBaseError(
		http.StatusConflict,
		"FLIGHT_NUMBER_TAKEN",
		"A flight with this number already exists",
	)

	// ErrInternalError is the generic upstream/store failure surfaced to
	// callers; details stay in the server log.
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Something went wrong",
	)
)
