package domain

import (
	"errors"
	"net/http"
)

// Domain-specific errors shared by repositories, services and handlers
var (
	// ErrLinkNotFound is returned when a link id doesn't exist
	ErrLinkNotFound = errors.New("link not found")

	// ErrForbidden is returned when a caller mutates a record it doesn't own
	ErrForbidden = errors.New("unauthorized")

	// ErrInvalidInput is returned for title, url or slug validation failures
	ErrInvalidInput = errors.New("invalid input")

	// ErrProfileNotFound is returned when a public slug can't be resolved to an owner
	ErrProfileNotFound = errors.New("profile not found")

	// ErrSlugNotFound is returned when no slug mapping exists
	ErrSlugNotFound = errors.New("slug not found")

	// ErrSlugTaken is returned when a slug is already claimed by another owner
	ErrSlugTaken = errors.New("slug already taken")

	// ErrCustomizationNotFound is returned when an owner never saved page settings
	ErrCustomizationNotFound = errors.New("customization not found")

	// ErrLinkLimitReached is returned when the caller's plan caps the number of links
	ErrLinkLimitReached = errors.New("link limit reached")

	// ErrFeatureLocked is returned when the caller's plan lacks a required capability
	ErrFeatureLocked = errors.New("feature not available on current plan")

	// ErrMetricsUnavailable is returned when the analytics backend can't be queried.
	// It is never used to signal "no data yet".
	ErrMetricsUnavailable = errors.New("analytics temporarily unavailable")

	// ErrSinkUnconfigured is returned by analytics sources with no endpoint or credential
	ErrSinkUnconfigured = errors.New("analytics sink not configured")
)

// AppError wraps errors with additional context for the HTTP layer
type AppError struct {
	Err        error  // Original error
	Message    string // User-facing message
	Field      string // Offending field for validation errors
	StatusCode int    // HTTP status code
	Internal   bool   // Whether to log as internal error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new application error with context
func NewAppError(err error, message string, statusCode int, internal bool) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Internal:   internal,
	}
}

// NewValidationError creates a 400 error carrying the offending field
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Err:        ErrInvalidInput,
		Message:    message,
		Field:      field,
		StatusCode: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a 404 error for a missing link
func NewNotFoundError() *AppError {
	return &AppError{
		Err:        ErrLinkNotFound,
		Message:    "Link not found",
		StatusCode: http.StatusNotFound,
	}
}

// NewAuthorizationError creates a 403 error. The message is deliberately generic.
func NewAuthorizationError() *AppError {
	return &AppError{
		Err:        ErrForbidden,
		Message:    "Unauthorized",
		StatusCode: http.StatusForbidden,
	}
}

// NewMetricsUnavailableError creates a 503 error wrapping the backend failure
func NewMetricsUnavailableError(cause error) *AppError {
	return &AppError{
		Err:        errors.Join(ErrMetricsUnavailable, cause),
		Message:    "Analytics temporarily unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}
}

// NewInternalError creates a 500 internal server error
func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "Internal server error occurred",
		StatusCode: http.StatusInternalServerError,
		Internal:   true,
	}
}
