package resttest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/DeBrosOfficial/contacts/pkg/httputil"
)

type authRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Data     map[string]any `json:"data"`
}

func writeAuthError(w http.ResponseWriter, status int, code, msg string) {
	httputil.WriteJSON(w, status, map[string]any{"code": status, "error_code": code, "msg": msg})
}

func (a *account) user() map[string]any {
	return map[string]any{
		"id":            a.id,
		"aud":           "authenticated",
		"role":          "authenticated",
		"email":         a.email,
		"user_metadata": a.metadata,
		"created_at":    a.createdAt.UTC().Format("2006-01-02T15:04:05.999999Z07:00"),
	}
}

func (s *Server) session(a *account) map[string]any {
	now := s.now()
	return map[string]any{
		"access_token":  "resttest." + uuid.NewString(),
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    now.Unix() + 3600,
		"refresh_token": uuid.NewString(),
		"user":          a.user(),
	}
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req authRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "Could not parse request body as JSON")
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !strings.Contains(email, "@") {
		writeAuthError(w, http.StatusBadRequest, "validation_failed", "Unable to validate email address: invalid format")
		return
	}
	if len(req.Password) < s.minPassword {
		writeAuthError(w, http.StatusUnprocessableEntity, "weak_password",
			fmt.Sprintf("Password should be at least %d characters.", s.minPassword))
		return
	}

	s.mu.Lock()
	if _, taken := s.accounts[email]; taken {
		s.mu.Unlock()
		writeAuthError(w, http.StatusUnprocessableEntity, "user_already_exists", "User already registered")
		return
	}
	meta := req.Data
	if meta == nil {
		meta = map[string]any{}
	}
	acct := &account{
		id:        uuid.NewString(),
		email:     email,
		password:  req.Password,
		metadata:  meta,
		createdAt: s.now(),
	}
	s.accounts[email] = acct
	s.mu.Unlock()

	httputil.WriteJSON(w, http.StatusOK, s.session(acct))
}

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("grant_type") != "password" {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "unsupported_grant_type",
			"error_description": "unsupported grant type",
		})
		return
	}
	var req authRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		writeAuthError(w, http.StatusBadRequest, "bad_json", "Could not parse request body as JSON")
		return
	}

	s.mu.Lock()
	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(req.Email))]
	s.mu.Unlock()
	if !ok || acct.password != req.Password {
		httputil.WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":             "invalid_grant",
			"error_description": "Invalid login credentials",
		})
		return
	}
	httputil.WriteJSON(w, http.StatusOK, s.session(acct))
}
