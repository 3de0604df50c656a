package client

import (
	"errors"
	"fmt"
)

// Common client errors
var (
	// ErrInvalidConfig indicates the backend configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownProvider indicates backend.provider names no known backend
	ErrUnknownProvider = errors.New("unknown backend provider")
)

// ClientError represents a client-specific error with additional context
type ClientError struct {
	Op      string // Operation that failed
	Message string // Error message
	Err     error  // Underlying error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *ClientError) Unwrap() error {
	return e.Err
}

// NewClientError creates a new ClientError
func NewClientError(op, message string, err error) *ClientError {
	return &ClientError{
		Op:      op,
		Message: message,
		Err:     err,
	}
}
