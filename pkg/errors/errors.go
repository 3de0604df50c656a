package errors

import (
	"fmt"
	"runtime"
)

// Error is implemented by every typed error in this package.
type Error interface {
	error
	// Code returns the error code
	Code() string
	// Message returns the human-readable error message
	Message() string
	// Unwrap returns the underlying cause
	Unwrap() error
}

// BaseError provides a foundation for all typed errors.
type BaseError struct {
	code    string
	message string
	cause   error
	stack   []uintptr
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Code returns the error code.
func (e *BaseError) Code() string {
	return e.code
}

// Message returns the error message.
func (e *BaseError) Message() string {
	return e.message
}

// Unwrap returns the underlying cause.
func (e *BaseError) Unwrap() error {
	return e.cause
}

// Stack returns the captured stack trace.
func (e *BaseError) Stack() []uintptr {
	return e.stack
}

func captureStack(skip int) []uintptr {
	const maxDepth = 32
	stack := make([]uintptr, maxDepth)
	n := runtime.Callers(skip+2, stack)
	return stack[:n]
}

// ValidationError is returned when a request or payload is rejected before
// or by the backend (bad identifier, invalid range, weak password).
type ValidationError struct {
	*BaseError
	Field string
	Value interface{}
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{
		BaseError: &BaseError{
			code:    CodeValidation,
			message: message,
			stack:   captureStack(1),
		},
		Field: field,
		Value: value,
	}
}

// NewInvalidArgument creates a validation error carrying CodeInvalidArgument,
// used for malformed queries rather than rejected payloads.
func NewInvalidArgument(field, message string, value interface{}) *ValidationError {
	e := NewValidationError(field, message, value)
	e.code = CodeInvalidArgument
	return e
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.message)
	}
	return fmt.Sprintf("validation error: %s", e.message)
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	*BaseError
	Resource string
	ID       string
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{
		BaseError: &BaseError{
			code:    CodeNotFound,
			message: fmt.Sprintf("%s not found", resource),
			stack:   captureStack(1),
		},
		Resource: resource,
		ID:       id,
	}
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s with ID '%s' not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// UnauthorizedError represents an authentication failure.
type UnauthorizedError struct {
	*BaseError
	Realm string
}

// NewUnauthorizedError creates a new unauthorized error.
func NewUnauthorizedError(message string) *UnauthorizedError {
	if message == "" {
		message = "authentication required"
	}
	return &UnauthorizedError{
		BaseError: &BaseError{
			code:    CodeUnauthorized,
			message: message,
			stack:   captureStack(1),
		},
	}
}

// WithRealm sets the authentication realm.
func (e *UnauthorizedError) WithRealm(realm string) *UnauthorizedError {
	e.Realm = realm
	return e
}

// ForbiddenError represents a permission failure, e.g. a row-level policy.
type ForbiddenError struct {
	*BaseError
	Resource string
}

// NewForbiddenError creates a new forbidden error.
func NewForbiddenError(resource, message string) *ForbiddenError {
	if message == "" {
		message = "forbidden"
	}
	return &ForbiddenError{
		BaseError: &BaseError{
			code:    CodeForbidden,
			message: message,
			stack:   captureStack(1),
		},
		Resource: resource,
	}
}

// ConflictError represents a duplicate resource.
type ConflictError struct {
	*BaseError
	Resource string
	Field    string
	Value    string
}

// NewConflictError creates a new conflict error.
func NewConflictError(resource, field, value string) *ConflictError {
	message := fmt.Sprintf("%s already exists", resource)
	if field != "" {
		message = fmt.Sprintf("%s with %s='%s' already exists", resource, field, value)
	}
	return &ConflictError{
		BaseError: &BaseError{
			code:    CodeConflict,
			message: message,
			stack:   captureStack(1),
		},
		Resource: resource,
		Field:    field,
		Value:    value,
	}
}

// InternalError represents an unclassified failure.
type InternalError struct {
	*BaseError
	Operation string
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *InternalError {
	if message == "" {
		message = "internal error"
	}
	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   cause,
			stack:   captureStack(1),
		},
	}
}

// WithOperation sets the operation context.
func (e *InternalError) WithOperation(op string) *InternalError {
	e.Operation = op
	return e
}

// ServiceError represents a failure reported by, or on the way to, a backend.
type ServiceError struct {
	*BaseError
	Service    string
	StatusCode int
}

// NewServiceError creates an error for a backend that answered with a server
// error status.
func NewServiceError(service, message string, statusCode int, cause error) *ServiceError {
	if message == "" {
		message = fmt.Sprintf("%s service error", service)
	}
	return newServiceError(CodeServiceUnavailable, service, message, statusCode, cause)
}

// NewNetworkError creates an error for a backend that could not be reached.
func NewNetworkError(service string, cause error) *ServiceError {
	return newServiceError(CodeNetworkError, service, fmt.Sprintf("%s unreachable", service), 0, cause)
}

// NewDatabaseError creates an error for a failed SQL statement.
func NewDatabaseError(message string, cause error) *ServiceError {
	if message == "" {
		message = "database error"
	}
	return newServiceError(CodeDatabaseError, "database", message, 0, cause)
}

// NewSerializationError creates an error for an undecodable payload.
func NewSerializationError(service string, cause error) *ServiceError {
	return newServiceError(CodeSerializationError, service, fmt.Sprintf("malformed %s response", service), 0, cause)
}

func newServiceError(code, service, message string, statusCode int, cause error) *ServiceError {
	return &ServiceError{
		BaseError: &BaseError{
			code:    code,
			message: message,
			cause:   cause,
			stack:   captureStack(2),
		},
		Service:    service,
		StatusCode: statusCode,
	}
}

// TimeoutError represents a timeout.
type TimeoutError struct {
	*BaseError
	Operation string
	Duration  string
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation, duration string) *TimeoutError {
	message := "operation timeout"
	if operation != "" {
		message = fmt.Sprintf("%s timeout", operation)
	}
	return &TimeoutError{
		BaseError: &BaseError{
			code:    CodeTimeout,
			message: message,
			stack:   captureStack(1),
		},
		Operation: operation,
		Duration:  duration,
	}
}

// RateLimitError represents backend throttling.
type RateLimitError struct {
	*BaseError
	RetryAfter int // seconds
}

// NewRateLimitError creates a new rate limit error.
func NewRateLimitError(retryAfter int) *RateLimitError {
	return &RateLimitError{
		BaseError: &BaseError{
			code:    CodeRateLimit,
			message: "rate limit exceeded",
			stack:   captureStack(1),
		},
		RetryAfter: retryAfter,
	}
}

// Wrap wraps an error with additional context.
// Typed errors keep their code; anything else becomes an InternalError.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}

	if e, ok := err.(Error); ok {
		return &BaseError{
			code:    e.Code(),
			message: message,
			cause:   err,
			stack:   captureStack(1),
		}
	}

	return &InternalError{
		BaseError: &BaseError{
			code:    CodeInternal,
			message: message,
			cause:   err,
			stack:   captureStack(1),
		},
	}
}

// Wrapf wraps an error with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}
