package records

import (
	"context"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

// CreateAccount registers a user with the backend's account subsystem.
// A nil metadata map is sent as an empty one. Policy rejections (weak
// password, duplicate email) are logged like any other fault.
func (s *Service) CreateAccount(ctx context.Context, email, password string, metadata map[string]any) *backend.User {
	client := s.clientFor(opCreateAccount)
	if client == nil {
		return nil
	}

	if metadata == nil {
		metadata = map[string]any{}
	}

	resp, err := client.Auth().SignUp(ctx, backend.SignUpParams{
		Credentials: backend.Credentials{Email: email, Password: password},
		Data:        metadata,
	})
	if err != nil {
		s.fault(opCreateAccount, err)
		return nil
	}
	if resp == nil {
		return nil
	}
	return resp.User
}

// SignIn exchanges email and password for a session.
func (s *Service) SignIn(ctx context.Context, email, password string) *Session {
	client := s.clientFor(opSignIn)
	if client == nil {
		return nil
	}

	resp, err := client.Auth().SignInWithPassword(ctx, backend.Credentials{
		Email:    email,
		Password: password,
	})
	if err != nil {
		s.fault(opSignIn, err)
		return nil
	}
	if resp == nil {
		return nil
	}
	return &Session{
		User:    resp.User,
		Session: resp.Session,
	}
}
