// Package rest implements backend.Client against a hosted table API: tables
// under /rest/v1 with PostgREST query conventions, accounts under /auth/v1.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

const (
	serviceName    = "rest"
	DefaultTimeout = 30 * time.Second
)

// Options configure New.
type Options struct {
	URL     string // project base URL, e.g. https://abc.example.co
	APIKey  string
	Timeout time.Duration

	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client is a backend.Client speaking HTTP.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ backend.Client = (*Client)(nil)

// New validates opts and returns a client. No request is made.
func New(opts Options) (*Client, error) {
	raw := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if raw == "" {
		return nil, fmt.Errorf("url is required")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", opts.URL)
	}
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{baseURL: u, apiKey: opts.APIKey, httpClient: hc, logger: logger}, nil
}

// Table starts a query against the named table.
func (c *Client) Table(name string) backend.Query {
	return backend.NewQuery(name, c.execute)
}

// Auth returns the account subsystem.
func (c *Client) Auth() backend.Auth {
	return &authClient{c: c}
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, errors.NewSerializationError(serviceName, err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), rdr)
	if err != nil {
		return nil, errors.NewInternalError("failed to create request", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends req. A non-2xx status becomes a typed error; the caller closes
// the body on success.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(req.Context(), err)
	}
	c.logger.Debug("Request completed",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	return nil, statusError(resp.StatusCode, body)
}

// errorBody covers the error shapes of both the table and auth APIs.
type errorBody struct {
	Message          string `json:"message"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             any    `json:"code"`
	Hint             string `json:"hint"`
}

func (e errorBody) text() string {
	for _, s := range []string{e.Message, e.Msg, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func statusError(status int, body []byte) error {
	var eb errorBody
	msg := ""
	if len(body) > 0 {
		if json.Unmarshal(body, &eb) == nil {
			msg = eb.text()
		} else {
			msg = strings.TrimSpace(string(body))
		}
	}
	// the token endpoint answers bad credentials with 400 invalid_grant
	if eb.Error == "invalid_grant" {
		return errors.NewUnauthorizedError(msg).WithRealm(serviceName)
	}
	return errors.FromHTTPStatus(serviceName, status, msg)
}

func transportError(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if stderrors.Is(ctxErr, context.DeadlineExceeded) {
			return errors.NewTimeoutError(serviceName, "")
		}
		return ctxErr
	}
	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.NewTimeoutError(serviceName, "")
	}
	return errors.NewNetworkError(serviceName, err)
}

func decodeJSON(r io.Reader, v any) error {
	if err := json.NewDecoder(r).Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.NewSerializationError(serviceName, err)
	}
	return nil
}
