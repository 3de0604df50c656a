// Package client turns configuration into a backend handle and the record
// service on top of it.
package client

import (
	"context"
	"io"
	"net/url"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
	"github.com/DeBrosOfficial/contacts/pkg/backend/rest"
	"github.com/DeBrosOfficial/contacts/pkg/backend/rqlite"
	"github.com/DeBrosOfficial/contacts/pkg/config"
	"github.com/DeBrosOfficial/contacts/pkg/logging"
	"github.com/DeBrosOfficial/contacts/pkg/records"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Connect resolves cfg into a backend handle. An empty provider is not an
// error: the handle is nil and the returned closer does nothing.
//
// The sqlite provider applies the bundled schema on connect; rqlite clusters
// are migrated explicitly (see rqlite.Client.Migrate).
func Connect(ctx context.Context, cfg *config.Config, logger *logging.ColoredLogger) (backend.Client, io.Closer, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if cfg == nil {
		return nil, nopCloser{}, NewClientError("connect", "config is nil", ErrInvalidConfig)
	}
	if err := cfg.Err(); err != nil {
		return nil, nopCloser{}, NewClientError("connect", err.Error(), ErrInvalidConfig)
	}

	b := cfg.Backend
	switch b.Provider {
	case config.ProviderNone:
		logger.ComponentWarn(logging.ComponentBackend, "No backend provider configured; operations will return empty results")
		return nil, nopCloser{}, nil

	case config.ProviderREST:
		c, err := rest.New(rest.Options{
			URL:     b.URL,
			APIKey:  b.APIKey,
			Timeout: b.Timeout,
			Logger:  logger.Component(logging.ComponentREST),
		})
		if err != nil {
			return nil, nopCloser{}, NewClientError("connect", "rest backend", err)
		}
		logger.ComponentInfo(logging.ComponentBackend, "Using REST backend", zap.String("url", redactDSN(b.URL)))
		return c, nopCloser{}, nil

	case config.ProviderRQLite, config.ProviderSQLite:
		driver := rqlite.DriverRQLite
		if b.Provider == config.ProviderSQLite {
			driver = rqlite.DriverSQLite
		}
		c, err := rqlite.Open(rqlite.Options{
			Driver:            driver,
			DSN:               b.DSN,
			JWTSecret:         cfg.Auth.JWTSecret,
			SessionTTL:        cfg.Auth.SessionTTL,
			MinPasswordLength: cfg.Auth.MinPasswordLength,
			Logger:            logger.Component(logging.ComponentRQLite),
		})
		if err != nil {
			return nil, nopCloser{}, NewClientError("connect", b.Provider+" backend", err)
		}
		if err := c.DB().PingContext(ctx); err != nil {
			c.Close()
			return nil, nopCloser{}, NewClientError("connect", "database unreachable", err)
		}
		if b.Provider == config.ProviderSQLite {
			if err := c.Migrate(ctx); err != nil {
				c.Close()
				return nil, nopCloser{}, NewClientError("connect", "migrate", err)
			}
		}
		logger.ComponentInfo(logging.ComponentBackend, "Using SQL backend",
			zap.String("driver", driver),
			zap.String("dsn", redactDSN(b.DSN)),
		)
		return c, c, nil

	default:
		return nil, nopCloser{}, NewClientError("connect", b.Provider, ErrUnknownProvider)
	}
}

// NewRecordService connects and wraps the handle in a records.Service for
// the configured table.
func NewRecordService(ctx context.Context, cfg *config.Config, logger *logging.ColoredLogger) (*records.Service, io.Closer, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	handle, closer, err := Connect(ctx, cfg, logger)
	if err != nil {
		return nil, closer, err
	}
	svc := records.NewService(handle, logger.Component(logging.ComponentRecords), records.WithTable(cfg.Backend.Table))
	return svc, closer, nil
}

// redactDSN masks the password of a URL-shaped DSN. File paths pass through.
func redactDSN(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "[unparsable dsn]"
	}
	return u.Redacted()
}
