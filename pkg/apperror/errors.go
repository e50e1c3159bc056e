package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
	ErrInternal     = errors.New("internal server error")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorage      = errors.New("storage failure")
)

// AppError is a custom error type that can hold an HTTP status code
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Validation wraps ErrInvalidInput with a client-facing message.
func Validation(format string, args ...any) error {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...), ErrInvalidInput)
}

// NotFound wraps ErrNotFound with the name of the missing resource.
func NotFound(resource string) error {
	return New(http.StatusNotFound, resource+" not found", ErrNotFound)
}

// Storage classifies a persistence error. gorm.ErrRecordNotFound becomes ErrNotFound,
// everything else is reported as an opaque ErrStorage that still unwraps to the cause.
func Storage(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, ErrStorage) {
		return err
	}
	return &storageError{cause: err}
}

type storageError struct {
	cause error
}

func (e *storageError) Error() string {
	return ErrStorage.Error() + ": " + e.cause.Error()
}

func (e *storageError) Unwrap() []error {
	return []error{ErrStorage, e.cause}
}

// MapErrorToStatus maps common errors to HTTP status codes
func MapErrorToStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != 0 {
		return appErr.Code
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrUnauthorized) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrForbidden) {
		return http.StatusForbidden
	}
	if errors.Is(err, ErrBadRequest) || errors.Is(err, ErrInvalidInput) {
		return http.StatusBadRequest
	}
	// Default to internal server error
	return http.StatusInternalServerError
}

// PublicMessage returns the text that is safe to hand to a client. Storage and other
// internal failures never leak their cause.
func PublicMessage(err error) string {
	if MapErrorToStatus(err) == http.StatusInternalServerError {
		return ErrInternal.Error()
	}
	return err.Error()
}
