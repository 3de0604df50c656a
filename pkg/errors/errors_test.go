package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name          string
		field         string
		message       string
		expectedError string
	}{
		{
			name:          "with field",
			field:         "email",
			message:       "invalid email format",
			expectedError: "validation error: email: invalid email format",
		},
		{
			name:          "without field",
			message:       "invalid input",
			expectedError: "validation error: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, nil)
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != CodeValidation {
				t.Errorf("Expected code %q, got %q", CodeValidation, err.Code())
			}
		})
	}
}

func TestInvalidArgumentKeepsValidationType(t *testing.T) {
	err := NewInvalidArgument("range", "from must not exceed to", []int{0, -1})
	if err.Code() != CodeInvalidArgument {
		t.Errorf("Expected code %q, got %q", CodeInvalidArgument, err.Code())
	}
	if !IsValidation(err) {
		t.Error("Expected IsValidation to be true")
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("contact", "42")
	if err.Error() != "contact with ID '42' not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if !IsNotFound(err) {
		t.Error("Expected IsNotFound to be true")
	}

	bare := NewNotFoundError("contacts", "")
	if bare.Error() != "contacts not found" {
		t.Errorf("unexpected message %q", bare.Error())
	}
}

func TestServiceErrorConstructors(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	tests := []struct {
		name string
		err  *ServiceError
		code string
	}{
		{"service", NewServiceError("rest", "", 502, nil), CodeServiceUnavailable},
		{"network", NewNetworkError("rest", cause), CodeNetworkError},
		{"database", NewDatabaseError("insert failed", cause), CodeDatabaseError},
		{"serialization", NewSerializationError("rest", cause), CodeSerializationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code() != tt.code {
				t.Errorf("Expected code %q, got %q", tt.code, tt.err.Code())
			}
			if !IsServiceUnavailable(tt.err) {
				t.Error("Expected IsServiceUnavailable to be true")
			}
			if len(tt.err.Stack()) == 0 {
				t.Error("Expected a captured stack")
			}
		})
	}
}

func TestWrapPreservesCode(t *testing.T) {
	original := NewConflictError("user", "email", "a@example.com")
	wrapped := Wrap(original, "sign up")

	if GetErrorCode(wrapped) != CodeConflict {
		t.Errorf("Expected code %q, got %q", CodeConflict, GetErrorCode(wrapped))
	}
	if !IsConflict(wrapped) {
		t.Error("Expected IsConflict to be true after wrapping")
	}
	if !strings.HasPrefix(wrapped.Error(), "sign up: ") {
		t.Errorf("unexpected message %q", wrapped.Error())
	}
	if Wrap(nil, "nothing") != nil {
		t.Error("Expected Wrap(nil) to be nil")
	}
}

func TestWrapUntypedBecomesInternal(t *testing.T) {
	wrapped := Wrapf(errors.New("boom"), "step %d", 2)
	if GetErrorCode(wrapped) != CodeInternal {
		t.Errorf("Expected code %q, got %q", CodeInternal, GetErrorCode(wrapped))
	}
	if errors.Unwrap(wrapped).Error() != "boom" {
		t.Errorf("Expected cause boom, got %v", errors.Unwrap(wrapped))
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, CodeOK},
		{"typed", NewUnauthorizedError("bad password"), CodeUnauthorized},
		{"wrapped not found", fmt.Errorf("lookup: %w", NewNotFoundError("contact", "c-1")), CodeNotFound},
		{"wrapped conflict", fmt.Errorf("insert: %w", NewConflictError("contact", "id", "c-1")), CodeConflict},
		{"deadline", context.DeadlineExceeded, CodeTimeout},
		{"cancelled", fmt.Errorf("call: %w", context.Canceled), CodeCancelled},
		{"plain", errors.New("???"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorCode(tt.err); got != tt.want {
				t.Errorf("GetErrorCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	if !ShouldRetry(NewTimeoutError("query", "5s")) {
		t.Error("timeouts should be retryable")
	}
	if !ShouldRetry(NewNetworkError("rest", nil)) {
		t.Error("network errors should be retryable")
	}
	if ShouldRetry(NewValidationError("email", "bad", nil)) {
		t.Error("validation errors should not be retryable")
	}
	if ShouldRetry(nil) {
		t.Error("nil should not be retryable")
	}
}

func TestGetCategory(t *testing.T) {
	tests := map[string]ErrorCategory{
		CodeValidation:         CategoryClient,
		CodeInvalidArgument:    CategoryClient,
		CodeUnauthorized:       CategoryAuth,
		CodeTimeout:            CategoryTimeout,
		CodeNetworkError:       CategoryNetwork,
		CodeDatabaseError:      CategoryServer,
		CodeSerializationError: CategoryServer,
	}
	for code, want := range tests {
		if got := GetCategory(code); got != want {
			t.Errorf("GetCategory(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestGetErrorMessage(t *testing.T) {
	err := NewInternalError("query failed", errors.New("disk full")).WithOperation("insert")
	if GetErrorMessage(err) != "query failed" {
		t.Errorf("unexpected message %q", GetErrorMessage(err))
	}
	if err.Operation != "insert" {
		t.Errorf("unexpected operation %q", err.Operation)
	}
	if GetErrorMessage(errors.New("raw")) != "raw" {
		t.Error("expected raw message for untyped errors")
	}
}
