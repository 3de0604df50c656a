// Package resttest runs an in-memory server that answers the same HTTP
// dialect as the hosted table API, for tests and local development.
package resttest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/DeBrosOfficial/contacts/pkg/httputil"
)

// APIKey is the key the server accepts unless WithAPIKey overrides it.
const APIKey = "resttest-anon-key"

const timestampLayout = "2006-01-02T15:04:05.000000Z"

// RequestRecord is one request the server received.
type RequestRecord struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
}

type account struct {
	id        string
	email     string
	password  string
	metadata  map[string]any
	createdAt time.Time
}

// Server is an httptest.Server backed by in-memory tables and accounts.
type Server struct {
	*httptest.Server

	apiKey      string
	minPassword int
	now         func() time.Time

	mu       sync.Mutex
	tables   map[string][]map[string]any
	accounts map[string]*account
	requests []RequestRecord
}

// Option configures NewServer.
type Option func(*Server)

// WithAPIKey changes the accepted key.
func WithAPIKey(key string) Option {
	return func(s *Server) { s.apiKey = key }
}

// WithClock replaces the source of created_at values.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// NewServer starts a server. Callers must Close it.
func NewServer(opts ...Option) *Server {
	s := &Server{
		apiKey:      APIKey,
		minPassword: 6,
		now:         time.Now,
		tables:      make(map[string][]map[string]any),
		accounts:    make(map[string]*account),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)
	r.Use(s.requireAPIKey)

	r.Get("/rest/v1/{table}", s.handleSelect)
	r.Head("/rest/v1/{table}", s.handleSelect)
	r.Post("/rest/v1/{table}", s.handleInsert)
	r.Patch("/rest/v1/{table}", s.handleUpdate)
	r.Delete("/rest/v1/{table}", s.handleDelete)
	r.Post("/auth/v1/signup", s.handleSignUp)
	r.Post("/auth/v1/token", s.handleToken)
	return r
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []RequestRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RequestRecord(nil), s.requests...)
}

// Rows returns a copy of the rows stored in table.
func (s *Server) Rows(table string) []map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]map[string]any, 0, len(s.tables[table]))
	for _, row := range s.tables[table] {
		out = append(out, cloneRow(row))
	}
	return out
}

// Seed stores rows as they are, without filling id or created_at.
func (s *Server) Seed(table string, rows ...map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range rows {
		s.tables[table] = append(s.tables[table], cloneRow(row))
	}
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, RequestRecord{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if httputil.ExtractAPIKey(r) != s.apiKey {
			httputil.WriteJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid API key"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func cloneRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// filter is one "col=eq.value" or "col=is.null" condition.
type filter struct {
	column string
	isNull bool
	value  string
}

var reservedParams = map[string]bool{"select": true, "order": true, "limit": true, "offset": true}

func parseFilters(q url.Values) ([]filter, error) {
	var out []filter
	for col, vals := range q {
		if reservedParams[col] {
			continue
		}
		for _, v := range vals {
			switch {
			case v == "is.null":
				out = append(out, filter{column: col, isNull: true})
			case strings.HasPrefix(v, "eq."):
				out = append(out, filter{column: col, value: strings.TrimPrefix(v, "eq.")})
			default:
				return nil, fmt.Errorf("unsupported filter %s=%s", col, v)
			}
		}
	}
	return out, nil
}

func (f filter) match(row map[string]any) bool {
	v, ok := row[f.column]
	if f.isNull {
		return !ok || v == nil
	}
	return ok && v != nil && fmt.Sprint(v) == f.value
}

func matchAll(fs []filter, row map[string]any) bool {
	for _, f := range fs {
		if !f.match(row) {
			return false
		}
	}
	return true
}

// project keeps only the selected columns; "*" or "" keeps everything.
func project(rows []map[string]any, sel string) []map[string]any {
	out := make([]map[string]any, 0, len(rows))
	sel = strings.TrimSpace(sel)
	for _, row := range rows {
		if sel == "" || sel == "*" {
			out = append(out, cloneRow(row))
			continue
		}
		p := make(map[string]any)
		for _, col := range strings.Split(sel, ",") {
			col = strings.TrimSpace(col)
			p[col] = row[col]
		}
		out = append(out, p)
	}
	return out
}

func sortRows(rows []map[string]any, order string) error {
	if order == "" {
		return nil
	}
	type term struct {
		col  string
		desc bool
	}
	var terms []term
	for _, part := range strings.Split(order, ",") {
		col, dir, _ := strings.Cut(strings.TrimSpace(part), ".")
		switch dir {
		case "", "asc":
			terms = append(terms, term{col: col})
		case "desc":
			terms = append(terms, term{col: col, desc: true})
		default:
			return fmt.Errorf("unsupported order %q", part)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		for _, t := range terms {
			c := compare(rows[i][t.col], rows[j][t.col])
			if c == 0 {
				continue
			}
			if t.desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return nil
}

func compare(a, b any) int {
	if af, ok := a.(float64); ok {
		if bf, ok := b.(float64); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

// parseRange reads a "from-to" Range header.
func parseRange(h string) (from, to int, ok bool, err error) {
	if h == "" {
		return 0, 0, false, nil
	}
	a, b, found := strings.Cut(h, "-")
	if !found {
		return 0, 0, false, fmt.Errorf("malformed range %q", h)
	}
	if from, err = strconv.Atoi(a); err != nil {
		return 0, 0, false, fmt.Errorf("malformed range %q", h)
	}
	if to, err = strconv.Atoi(b); err != nil {
		return 0, 0, false, fmt.Errorf("malformed range %q", h)
	}
	return from, to, true, nil
}

func wantsRepresentation(r *http.Request) bool {
	return httputil.Prefer(r, "return=representation")
}

func wantsExactCount(r *http.Request) bool {
	return httputil.Prefer(r, "count=exact")
}
