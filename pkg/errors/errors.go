package errors

import "fmt"

type baseError struct {
	message string
	cause   error
}

func (e *baseError) Error() string {
	if e.cause != nil {
		return e.message + ": " + e.cause.Error()
	}
	return e.message
}

func (e *baseError) Unwrap() error {
	return e.cause
}

// ValidationError represents malformed input (HTTP 400)
type ValidationError struct {
	baseError
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{baseError{message: message}}
}

// WrapValidation marks cause as a validation failure
func WrapValidation(message string, cause error) *ValidationError {
	return &ValidationError{baseError{message: message, cause: cause}}
}

// PermissionError represents an ownership or policy refusal (HTTP 403)
type PermissionError struct {
	baseError
}

// WrapPermission marks cause as a permission failure
func WrapPermission(message string, cause error) *PermissionError {
	return &PermissionError{baseError{message: message, cause: cause}}
}

// NotFoundError represents a missing resource (HTTP 404)
type NotFoundError struct {
	baseError
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{baseError{message: message}}
}

func NewNotFoundErrorf(format string, args ...any) *NotFoundError {
	return &NotFoundError{baseError{message: fmt.Sprintf(format, args...)}}
}

// ConflictError represents a state conflict (HTTP 409)
type ConflictError struct {
	baseError
}

// WrapConflict marks cause as a state conflict
func WrapConflict(message string, cause error) *ConflictError {
	return &ConflictError{baseError{message: message, cause: cause}}
}

// InternalError represents an internal server error (HTTP 500)
type InternalError struct {
	baseError
}

// WrapInternal hides cause behind an internal error
func WrapInternal(message string, cause error) *InternalError {
	return &InternalError{baseError{message: message, cause: cause}}
}

// ServiceUnavailableError represents a temporarily unavailable dependency (HTTP 503)
type ServiceUnavailableError struct {
	baseError
}

func NewServiceUnavailableError(message string) *ServiceUnavailableError {
	return &ServiceUnavailableError{baseError{message: message}}
}
