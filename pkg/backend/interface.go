// Package backend defines the client handle a hosted table-storage and
// authentication platform exposes, independent of how requests reach it.
//
// A Client hands out fluent table queries and an Auth capability. Queries
// accumulate a Plan; Execute validates it and passes it to the implementation's
// Executor. Implementations live in subpackages (rest, rqlite).
package backend

import (
	"context"
	"time"
)

// Record is one row: column name to value. Columns are opaque here except for
// the ones a caller filters or orders on.
type Record = map[string]any

// Client is the process-wide handle onto the backing service.
// Implementations must be safe for concurrent use.
type Client interface {
	// Table starts a query against the named table.
	Table(name string) Query

	// Auth exposes the account subsystem.
	Auth() Auth
}

// Query builds a single table request. Every builder method returns the
// receiver so calls chain; errors surface from Execute.
type Query interface {
	Select(columns string) Query
	Insert(rows ...Record) Query
	Update(patch Record) Query
	Delete() Query

	Eq(column string, value any) Query
	Order(column string, desc bool) Query
	// Range restricts the result to rows from..to, zero-based and inclusive.
	Range(from, to int) Query
	Limit(n int) Query

	// Count asks for the total number of rows matching the filters.
	Count(mode CountMode) Query
	// Head drops row data from the response; useful with Count.
	Head() Query

	Execute(ctx context.Context) (*Response, error)
}

// Auth is the account subsystem of the backing service.
type Auth interface {
	SignUp(ctx context.Context, params SignUpParams) (*AuthResponse, error)
	SignInWithPassword(ctx context.Context, creds Credentials) (*AuthResponse, error)
}

// CountMode selects how the backend counts matching rows.
type CountMode string

const (
	CountNone  CountMode = ""
	CountExact CountMode = "exact"
)

// Response is what a table request echoes back.
type Response struct {
	Data  []Record `json:"data"`
	Count *int64   `json:"count,omitempty"` // nil unless a count was requested
}

// Credentials identify an account by email and password.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUpParams create an account. Data becomes the user's metadata.
type SignUpParams struct {
	Credentials
	Data map[string]any `json:"data"`
}

// User describes an account.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	Role         string         `json:"role,omitempty"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

// Session is the token material issued on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// AuthResponse is returned by both sign-up and sign-in. Session is nil after
// a sign-up that still needs email confirmation.
type AuthResponse struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}
