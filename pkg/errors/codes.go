package errors

// Error codes attached to every typed error. Backends translate their native
// failures (HTTP statuses, driver errors) into one of these.
const (
	// CodeOK indicates success (not an error).
	CodeOK = "OK"

	// CodeCancelled indicates the caller cancelled the request.
	CodeCancelled = "CANCELLED"

	// CodeInvalidArgument indicates a malformed request, such as a bad range.
	CodeInvalidArgument = "INVALID_ARGUMENT"

	// CodeNotFound indicates a resource was not found.
	CodeNotFound = "NOT_FOUND"

	// CodeInternal indicates an unclassified failure.
	CodeInternal = "INTERNAL"

	// CodeValidation indicates the backend rejected the payload.
	CodeValidation = "VALIDATION_ERROR"

	// CodeUnauthorized indicates missing or rejected credentials.
	CodeUnauthorized = "UNAUTHORIZED"

	// CodeForbidden indicates the credentials lack permission.
	CodeForbidden = "FORBIDDEN"

	// CodeConflict indicates a duplicate key or already registered account.
	CodeConflict = "CONFLICT"

	// CodeTimeout indicates an operation timed out.
	CodeTimeout = "TIMEOUT"

	// CodeRateLimit indicates the backend throttled the caller.
	CodeRateLimit = "RATE_LIMIT_EXCEEDED"

	// CodeServiceUnavailable indicates the backend answered with a server error.
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"

	// CodeDatabaseError indicates a SQL statement failed.
	CodeDatabaseError = "DATABASE_ERROR"

	// CodeNetworkError indicates the backend could not be reached.
	CodeNetworkError = "NETWORK_ERROR"

	// CodeSerializationError indicates a response could not be decoded.
	CodeSerializationError = "SERIALIZATION_ERROR"

	// CodeConfigError indicates invalid configuration.
	CodeConfigError = "CONFIG_ERROR"
)

// ErrorCategory represents a high-level error category.
type ErrorCategory string

const (
	// CategoryClient indicates the request itself was at fault (4xx).
	CategoryClient ErrorCategory = "CLIENT_ERROR"

	// CategoryServer indicates the backend failed (5xx).
	CategoryServer ErrorCategory = "SERVER_ERROR"

	// CategoryNetwork indicates a transport failure.
	CategoryNetwork ErrorCategory = "NETWORK_ERROR"

	// CategoryTimeout indicates a deadline was hit.
	CategoryTimeout ErrorCategory = "TIMEOUT_ERROR"

	// CategoryAuth indicates an authentication failure.
	CategoryAuth ErrorCategory = "AUTH_ERROR"
)

// GetCategory returns the category for an error code.
func GetCategory(code string) ErrorCategory {
	switch code {
	case CodeInvalidArgument, CodeValidation, CodeNotFound, CodeConflict:
		return CategoryClient

	case CodeUnauthorized, CodeForbidden:
		return CategoryAuth

	case CodeTimeout, CodeCancelled:
		return CategoryTimeout

	case CodeNetworkError, CodeServiceUnavailable:
		return CategoryNetwork

	default:
		return CategoryServer
	}
}

// IsRetryable reports whether an error with the given code is transient.
// Nothing in this module retries; the flag is surfaced in logs only.
func IsRetryable(code string) bool {
	switch code {
	case CodeTimeout, CodeServiceUnavailable, CodeRateLimit,
		CodeNetworkError, CodeDatabaseError:
		return true
	default:
		return false
	}
}
