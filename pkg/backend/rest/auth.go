package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

type authClient struct {
	c *Client
}

var _ backend.Auth = (*authClient)(nil)

// sessionPayload is the token envelope returned by sign-in and by sign-up
// when no confirmation is pending.
type sessionPayload struct {
	AccessToken  string        `json:"access_token"`
	TokenType    string        `json:"token_type"`
	ExpiresIn    int64         `json:"expires_in"`
	ExpiresAt    int64         `json:"expires_at"`
	RefreshToken string        `json:"refresh_token"`
	User         *backend.User `json:"user"`
}

// decodeAuthResponse accepts either a session envelope or a bare user object.
func decodeAuthResponse(body []byte) (*backend.AuthResponse, error) {
	var p sessionPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, errors.NewSerializationError(serviceName, err)
	}
	if p.User == nil {
		var u backend.User
		if err := json.Unmarshal(body, &u); err != nil {
			return nil, errors.NewSerializationError(serviceName, err)
		}
		if u.ID != "" {
			p.User = &u
		}
	}

	out := &backend.AuthResponse{User: p.User}
	if p.AccessToken != "" {
		out.Session = &backend.Session{
			AccessToken:  p.AccessToken,
			TokenType:    p.TokenType,
			ExpiresIn:    p.ExpiresIn,
			ExpiresAt:    p.ExpiresAt,
			RefreshToken: p.RefreshToken,
			User:         p.User,
		}
	}
	return out, nil
}

func (a *authClient) SignUp(ctx context.Context, params backend.SignUpParams) (*backend.AuthResponse, error) {
	data := params.Data
	if data == nil {
		data = map[string]any{}
	}
	body := map[string]any{
		"email":    params.Email,
		"password": params.Password,
		"data":     data,
	}
	return a.post(ctx, "/auth/v1/signup", nil, body)
}

func (a *authClient) SignInWithPassword(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error) {
	query := url.Values{"grant_type": {"password"}}
	return a.post(ctx, "/auth/v1/token", query, creds)
}

func (a *authClient) post(ctx context.Context, path string, query url.Values, body any) (*backend.AuthResponse, error) {
	req, err := a.c.newRequest(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return nil, err
	}
	resp, err := a.c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(ctx, err)
	}
	return decodeAuthResponse(raw)
}
