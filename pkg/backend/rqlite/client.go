// Package rqlite implements backend.Client over database/sql. It speaks to an
// rqlite cluster through the gorqlite driver or to a local SQLite file through
// go-sqlite3; both share the same statements.
package rqlite

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"      // "sqlite3" driver
	_ "github.com/rqlite/gorqlite/stdlib" // "rqlite" driver
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

const (
	DriverRQLite = "rqlite"
	DriverSQLite = "sqlite3"

	DefaultSessionTTL        = time.Hour
	DefaultMinPasswordLength = 6
)

// Options configure Open.
type Options struct {
	Driver string // DriverRQLite or DriverSQLite
	DSN    string // rqlite URL or SQLite file path

	JWTSecret         string
	SessionTTL        time.Duration
	MinPasswordLength int

	Logger *zap.Logger
}

// Client is a backend.Client backed by a *sql.DB.
type Client struct {
	db     *sql.DB
	driver string
	auth   *authService
	logger *zap.Logger
	now    func() time.Time
}

var _ backend.Client = (*Client)(nil)

// Open connects to the database named by opts. It does not create the schema;
// call Migrate for that.
func Open(opts Options) (*Client, error) {
	driver := strings.TrimSpace(opts.Driver)
	if driver == "" {
		driver = DriverRQLite
	}
	if driver != DriverRQLite && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
	if strings.TrimSpace(opts.DSN) == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	db, err := sql.Open(driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", driver, err)
	}

	if driver == DriverSQLite {
		// one writer; also keeps ":memory:" on a single database
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(100)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Second)
		db.SetConnMaxIdleTime(10 * time.Second)
	}

	c, err := New(db, driver, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// New wraps an already opened database.
func New(db *sql.DB, driver string, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	secret := []byte(opts.JWTSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
		logger.Warn("No JWT secret configured; sessions will not survive a restart")
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	minPassword := opts.MinPasswordLength
	if minPassword <= 0 {
		minPassword = DefaultMinPasswordLength
	}

	c := &Client{
		db:     db,
		driver: driver,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	c.auth = &authService{
		client:      c,
		secret:      secret,
		ttl:         ttl,
		minPassword: minPassword,
	}
	return c, nil
}

// Table starts a query against the named table.
func (c *Client) Table(name string) backend.Query {
	return backend.NewQuery(name, c.execute)
}

// Auth returns the account subsystem backed by the auth_users table.
func (c *Client) Auth() backend.Auth {
	return c.auth
}

// DB returns the underlying database handle.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close releases the database handle.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// timestampLayout is fixed width so text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000Z"

func (c *Client) timestamp() string {
	return c.now().UTC().Format(timestampLayout)
}
