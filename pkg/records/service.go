// Package records is the service layer over the contacts collection and the
// account subsystem of the backing service.
//
// Every operation collapses failure into a fixed sentinel (nil, or false for
// Delete). Whether the handle was missing, the row did not exist, or the
// backend failed is visible only in the log stream.
package records

import (
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

// DefaultTable is the collection the service operates on.
const DefaultTable = "contacts"

const (
	columnID        = "id"
	columnCreatedAt = "created_at"
)

// Service translates contact CRUD and account calls into requests on one
// injected client handle. It holds no state besides the handle and is safe
// for concurrent use if the handle is.
type Service struct {
	client backend.Client
	logger *zap.Logger
	table  string
}

// Option customizes a Service.
type Option func(*Service)

// WithTable points the service at a different collection.
func WithTable(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.table = name
		}
	}
}

// NewService creates a Service. client may be nil: every operation then logs
// a warning and returns its sentinel without touching the network.
func NewService(client backend.Client, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		client: client,
		logger: logger,
		table:  DefaultTable,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the handle, or nil with a warning when none was configured.
func (s *Service) Client() backend.Client {
	return s.clientFor(opGetClient)
}

func (s *Service) clientFor(op string) backend.Client {
	if s.client == nil {
		s.unconfigured(op)
		return nil
	}
	return s.client
}

// Table returns the collection name in use.
func (s *Service) Table() string {
	return s.table
}
