package records

import (
	"context"
	"sync"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

// fakeClient is a backend.Client whose behavior is set per test. It records
// every plan and auth call it receives.
type fakeClient struct {
	ExecFunc   func(p *backend.Plan) (*backend.Response, error)
	SignUpFunc func(params backend.SignUpParams) (*backend.AuthResponse, error)
	SignInFunc func(creds backend.Credentials) (*backend.AuthResponse, error)

	mu      sync.Mutex
	plans   []*backend.Plan
	signUps []backend.SignUpParams
	signIns []backend.Credentials
}

func (f *fakeClient) Table(name string) backend.Query {
	return backend.NewQuery(name, func(ctx context.Context, p *backend.Plan) (*backend.Response, error) {
		f.mu.Lock()
		f.plans = append(f.plans, p)
		f.mu.Unlock()
		if f.ExecFunc == nil {
			return &backend.Response{}, nil
		}
		return f.ExecFunc(p)
	})
}

func (f *fakeClient) Auth() backend.Auth {
	return fakeAuth{f}
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.plans) + len(f.signUps) + len(f.signIns)
}

type fakeAuth struct{ f *fakeClient }

func (a fakeAuth) SignUp(ctx context.Context, params backend.SignUpParams) (*backend.AuthResponse, error) {
	a.f.mu.Lock()
	a.f.signUps = append(a.f.signUps, params)
	a.f.mu.Unlock()
	if a.f.SignUpFunc == nil {
		return &backend.AuthResponse{}, nil
	}
	return a.f.SignUpFunc(params)
}

func (a fakeAuth) SignInWithPassword(ctx context.Context, creds backend.Credentials) (*backend.AuthResponse, error) {
	a.f.mu.Lock()
	a.f.signIns = append(a.f.signIns, creds)
	a.f.mu.Unlock()
	if a.f.SignInFunc == nil {
		return &backend.AuthResponse{}, nil
	}
	return a.f.SignInFunc(creds)
}

func int64Ptr(n int64) *int64 { return &n }
