package rqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

const (
	usersTable  = "auth_users"
	defaultRole = "authenticated"
	tokenType   = "bearer"
)

// Claims are carried by the HS256 access tokens this package issues.
type Claims struct {
	Email        string         `json:"email"`
	Role         string         `json:"role"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
	jwt.RegisteredClaims
}

type userRow struct {
	ID           string `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
	UserMetadata string `db:"user_metadata"`
	CreatedAt    string `db:"created_at"`
}

func (r *userRow) user() *backend.User {
	u := &backend.User{
		ID:           r.ID,
		Email:        r.Email,
		Role:         r.Role,
		UserMetadata: map[string]any{},
	}
	if r.UserMetadata != "" {
		_ = json.Unmarshal([]byte(r.UserMetadata), &u.UserMetadata)
	}
	if t, err := time.Parse(timestampLayout, r.CreatedAt); err == nil {
		u.CreatedAt = t
	}
	return u
}

// authService stores accounts in auth_users and signs sessions with a shared secret.
type authService struct {
	client      *Client
	secret      []byte
	ttl         time.Duration
	minPassword int
}

var _ backend.Auth = (*authService)(nil)

// SignUp creates a confirmed account and returns it with a fresh session.
func (a *authService) SignUp(ctx context.Context, params backend.SignUpParams) (*backend.AuthResponse, error) {
	email, err := normalizeEmail(params.Email)
	if err != nil {
		return nil, err
	}
	if len(params.Password) < a.minPassword {
		return nil, errors.NewValidationError("password",
			fmt.Sprintf("Password should be at least %d characters", a.minPassword), nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		if stderrors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, errors.NewValidationError("password", "Password is too long", nil)
		}
		return nil, errors.NewInternalError("hash password", err).WithOperation("signup")
	}

	metadata := params.Data
	if metadata == nil {
		metadata = map[string]any{}
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return nil, errors.NewValidationError("data", "user metadata must be JSON serializable", nil)
	}

	row := &userRow{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         defaultRole,
		UserMetadata: string(metaJSON),
		CreatedAt:    a.client.timestamp(),
	}
	_, err = a.client.db.ExecContext(ctx,
		`INSERT INTO auth_users (id, email, password_hash, role, user_metadata, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		row.ID, row.Email, row.PasswordHash, row.Role, row.UserMetadata, row.CreatedAt)
	if err != nil {
		err = translate("signup", usersTable, err)
		if errors.IsConflict(err) {
			return nil, errors.NewConflictError("user", "email", email)
		}
		return nil, err
	}

	user := row.user()
	session, err := a.issue(user)
	if err != nil {
		return nil, err
	}
	a.client.logger.Info("Account created", zap.String("user_id", user.ID))
	return &backend.AuthResponse{User: user, Session: session}, nil
}

// SignInWithPassword checks the password and issues a session. Unknown email
// and wrong password are reported identically.
func (a *authService) SignInWithPassword(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error) {
	email, err := normalizeEmail(creds.Email)
	if err != nil {
		return nil, err
	}
	if creds.Password == "" {
		return nil, errors.NewValidationError("password", "password is required", nil)
	}

	var row userRow
	err = a.client.queryRow(ctx, &row,
		`SELECT id, email, password_hash, role, user_metadata, created_at FROM auth_users WHERE email = ? LIMIT 1`, email)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, invalidCredentials()
	}
	if err != nil {
		return nil, translate("signin", usersTable, err)
	}
	if bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(creds.Password)) != nil {
		return nil, invalidCredentials()
	}

	if _, err := a.client.db.ExecContext(ctx,
		`UPDATE auth_users SET last_sign_in_at = ? WHERE id = ?`, a.client.timestamp(), row.ID); err != nil {
		a.client.logger.Warn("Failed to record sign-in time", zap.String("user_id", row.ID), zap.Error(err))
	}

	user := row.user()
	session, err := a.issue(user)
	if err != nil {
		return nil, err
	}
	return &backend.AuthResponse{User: user, Session: session}, nil
}

func (a *authService) issue(user *backend.User) (*backend.Session, error) {
	now := a.client.now()
	exp := now.Add(a.ttl)
	claims := Claims{
		Email:        user.Email,
		Role:         user.Role,
		UserMetadata: user.UserMetadata,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{defaultRole},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return nil, errors.NewInternalError("sign access token", err).WithOperation("session")
	}
	return &backend.Session{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresIn:   int64(a.ttl / time.Second),
		ExpiresAt:   exp.Unix(),
		User:        user,
	}, nil
}

// ParseAccessToken verifies a token issued by this client and returns its claims.
func (c *Client) ParseAccessToken(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.auth.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, errors.NewUnauthorizedError("invalid access token").WithRealm(serviceName)
	}
	return claims, nil
}

func invalidCredentials() error {
	return errors.NewUnauthorizedError("Invalid login credentials").WithRealm(serviceName)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 || strings.ContainsAny(email, " \t\r\n") {
		return "", errors.NewValidationError("email", "Unable to validate email address: invalid format", raw)
	}
	return email, nil
}
