package errors

import (
	"fmt"

	"campo-listings/internal/validators"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	// Fields lists the rejected fields of a VALIDATION_FAILED error.
	Fields        []validators.FieldError
	OriginalError error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.OriginalError == nil {
		return e.UserMessage
	}
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodeNetwork            = "NETWORK_ERROR"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodePropertyNotFound   = "PROPERTY_NOT_FOUND"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeRateLimited        = "RATE_LIMITED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeInvalidResponse    = "INVALID_RESPONSE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)
