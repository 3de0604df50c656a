package errors

import (
	"net/http"
	"strconv"
)

// FromHTTPStatus turns a non-2xx response from service into a typed error.
// message is whatever the backend put in its error body; it may be empty.
func FromHTTPStatus(service string, status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}
	switch {
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return NewValidationError("", message, nil)
	case status == http.StatusRequestedRangeNotSatisfiable:
		return NewInvalidArgument("range", message, nil)
	case status == http.StatusUnauthorized:
		return NewUnauthorizedError(message).WithRealm(service)
	case status == http.StatusForbidden:
		return NewForbiddenError(service, message)
	case status == http.StatusNotFound:
		return NewNotFoundError(service, "")
	case status == http.StatusConflict:
		e := NewConflictError(service, "", "")
		e.message = message
		return e
	case status == http.StatusTooManyRequests:
		return NewRateLimitError(0)
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return NewTimeoutError(service, "")
	case status >= 500:
		return NewServiceError(service, message, status, nil)
	default:
		return NewServiceError(service, "unexpected status "+strconv.Itoa(status)+": "+message, status, nil)
	}
}
