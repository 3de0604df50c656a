package config

import (
	"time"

	"github.com/DeBrosOfficial/contacts/pkg/logging"
)

// Provider names accepted in backend.provider.
const (
	ProviderNone   = ""       // unconfigured; operations return their empty result
	ProviderREST   = "rest"   // hosted table API over HTTP
	ProviderRQLite = "rqlite" // rqlite cluster
	ProviderSQLite = "sqlite" // local SQLite file
)

// Config represents the configuration of the contacts service and CLI.
type Config struct {
	Backend BackendConfig `yaml:"backend" envPrefix:"BACKEND_"`
	Auth    AuthConfig    `yaml:"auth" envPrefix:"AUTH_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
}

// BackendConfig selects and addresses the storage/auth backend.
type BackendConfig struct {
	Provider string        `yaml:"provider" env:"PROVIDER"`
	URL      string        `yaml:"url" env:"URL"`         // rest: project base URL
	APIKey   string        `yaml:"api_key" env:"KEY"`     // rest: anon or service key
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"` // rest: per-request timeout
	DSN      string        `yaml:"dsn" env:"DSN"`         // rqlite URL or SQLite path
	Table    string        `yaml:"table" env:"TABLE"`
}

// AuthConfig applies to the SQL providers, which issue their own sessions.
type AuthConfig struct {
	JWTSecret         string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	SessionTTL        time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`
	MinPasswordLength int           `yaml:"min_password_length" env:"MIN_PASSWORD_LENGTH"`
}

// DefaultConfig returns a configuration with no backend and console logging.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			Timeout: 30 * time.Second,
			Table:   "contacts",
		},
		Auth: AuthConfig{
			SessionTTL:        time.Hour,
			MinPasswordLength: 6,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Options converts the logging section for logging.New.
func (l LoggingConfig) Options() logging.Options {
	return logging.Options{
		Level:      l.Level,
		Format:     l.Format,
		OutputFile: l.OutputFile,
	}
}
