// Package httputil holds the request and response helpers shared by the
// hosted-dialect fake server and anything else serving that dialect.
package httputil

import (
	"net/http"
	"strings"
)

// APIKeyHeader is the header the hosted dialect carries the project key in.
const APIKeyHeader = "apikey"

// ExtractBearerToken extracts a Bearer token from the Authorization header.
// Returns an empty string if no Bearer token is found.
func ExtractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}

	lower := strings.ToLower(auth)
	if strings.HasPrefix(lower, "bearer ") {
		return strings.TrimSpace(auth[len("Bearer "):])
	}

	return ""
}

// ExtractAPIKey returns the project key of a request. The apikey header wins;
// a Bearer token is used when the header is absent.
func ExtractAPIKey(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get(APIKeyHeader)); v != "" {
		return v
	}
	return ExtractBearerToken(r)
}
