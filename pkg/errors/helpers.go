package errors

import (
	"context"
	"errors"
)

// IsNotFound reports whether err carries a *NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// IsValidation reports whether err carries a *ValidationError. Invalid
// arguments count too.
func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err carries an *UnauthorizedError.
func IsUnauthorized(err error) bool {
	var target *UnauthorizedError
	return errors.As(err, &target)
}

// IsConflict reports whether err carries a *ConflictError.
func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is a *TimeoutError or a context deadline.
func IsTimeout(err error) bool {
	var target *TimeoutError
	return errors.As(err, &target) || errors.Is(err, context.DeadlineExceeded)
}

// IsServiceUnavailable reports whether err carries a *ServiceError.
func IsServiceUnavailable(err error) bool {
	var target *ServiceError
	return errors.As(err, &target)
}

// ShouldRetry reports whether the failure looks transient.
func ShouldRetry(err error) bool {
	if err == nil {
		return false
	}

	return IsRetryable(GetErrorCode(err))
}

// GetErrorCode extracts the error code from an error.
// Untyped errors are classified by context cause, falling back to CodeInternal.
func GetErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}

	var typed Error
	switch {
	case errors.As(err, &typed):
		return typed.Code()
	case errors.Is(err, context.Canceled):
		return CodeCancelled
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	default:
		return CodeInternal
	}
}

// GetErrorMessage extracts a human-readable message from an error.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var customErr Error
	if errors.As(err, &customErr) {
		return customErr.Message()
	}

	return err.Error()
}
