package utils

import (
	"errors"
	"net/http"
)

// Error codes shared by services and controllers
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeRateLimited   = "RATE_LIMITED"
	CodeDatabase      = "DATABASE_ERROR"
	CodeProvider      = "PROVIDER_ERROR"
	CodeNotConfigured = "NOT_CONFIGURED"
	CodeInternal      = "INTERNAL_ERROR"
)

// AppError is an error that knows how it should be presented to API clients
type AppError struct {
	Code    string
	Message string
	Status  int
	Details any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetails attaches client-safe details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// NewAppError creates an AppError with an explicit status
func NewAppError(status int, code, message string) *AppError {
	return &AppError{Code: code, Message: message, Status: status}
}

// ValidationError reports bad client input
func ValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message)
}

// NotFoundError reports a missing resource under a resource-specific code
func NotFoundError(code, message string) *AppError {
	return NewAppError(http.StatusNotFound, code, message)
}

// DatabaseError wraps a store failure
func DatabaseError(message string, err error) *AppError {
	return &AppError{Code: CodeDatabase, Message: message, Status: http.StatusInternalServerError, Err: err}
}

// ProviderError wraps a third-party failure under a provider-specific code
func ProviderError(status int, code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Status: status, Err: err}
}

// AsAppError extracts an AppError from an error chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
