package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the platform's error taxonomy.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrIllegalState = errors.New("illegal state")
	ErrDuplicate    = errors.New("duplicate")
	ErrStorage      = errors.New("storage failure")
)

// AppError carries an error code and the HTTP status it maps to.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound creates a 404 error.
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found", resource),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error. Retrying the same request will not help.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unauthorized creates a 401 error.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// IllegalState creates a 409 error for operations attempted against a
// record that has already left the required state.
func IllegalState(message string) *AppError {
	return &AppError{
		Code:    "ILLEGAL_STATE",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrIllegalState,
	}
}

// Duplicate creates a 409 error for unique-constraint violations.
func Duplicate(message string) *AppError {
	return &AppError{
		Code:    "DUPLICATE",
		Message: message,
		Status:  http.StatusConflict,
		Err:     ErrDuplicate,
	}
}

// Storage wraps a transient storage failure. Callers may retry.
func Storage(err error) *AppError {
	return &AppError{
		Code:    "STORAGE_FAILURE",
		Message: "a storage operation failed",
		Status:  http.StatusServiceUnavailable,
		Err:     fmt.Errorf("%w: %v", ErrStorage, err),
	}
}

// HTTPStatus returns the HTTP status code for err, defaulting to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Message returns a client-safe message for err.
func Message(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
