package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

// ValidationError represents a single validation error with context.
type ValidationError struct {
	Path    string // e.g., "backend.url"
	Message string // e.g., "must not be empty"
	Hint    string // e.g., "expected https://<project>.example.co"
}

func (e ValidationError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s: %s; %s", e.Path, e.Message, e.Hint)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate performs comprehensive validation of the entire config.
// It aggregates all errors and returns them, allowing the caller to print all issues at once.
func (c *Config) Validate() []error {
	var errs []error
	errs = append(errs, c.validateBackend()...)
	errs = append(errs, c.validateAuth()...)
	errs = append(errs, c.validateLogging()...)
	return errs
}

func (c *Config) validateBackend() []error {
	var errs []error
	b := c.Backend

	switch b.Provider {
	case ProviderNone:
		// nothing else is consulted
		return nil
	case ProviderREST:
		if b.URL == "" {
			errs = append(errs, ValidationError{Path: "backend.url", Message: "must not be empty"})
		} else if err := validateHTTPURL(b.URL); err != nil {
			errs = append(errs, ValidationError{
				Path:    "backend.url",
				Message: err.Error(),
				Hint:    "expected https://<project>.example.co",
			})
		}
		if b.APIKey == "" {
			errs = append(errs, ValidationError{Path: "backend.api_key", Message: "must not be empty"})
		}
		if b.Timeout < 0 {
			errs = append(errs, ValidationError{
				Path:    "backend.timeout",
				Message: fmt.Sprintf("must be >= 0; got %s", b.Timeout),
			})
		}
	case ProviderRQLite:
		if b.DSN == "" {
			errs = append(errs, ValidationError{
				Path:    "backend.dsn",
				Message: "must not be empty",
				Hint:    "expected http://host:5001",
			})
		} else if err := validateHTTPURL(b.DSN); err != nil {
			errs = append(errs, ValidationError{Path: "backend.dsn", Message: err.Error(), Hint: "expected http://host:5001"})
		}
	case ProviderSQLite:
		if b.DSN == "" {
			errs = append(errs, ValidationError{
				Path:    "backend.dsn",
				Message: "must not be empty",
				Hint:    "path to the database file, or :memory:",
			})
		}
	default:
		errs = append(errs, ValidationError{
			Path:    "backend.provider",
			Message: fmt.Sprintf("invalid value %q", b.Provider),
			Hint:    "allowed values: rest, rqlite, sqlite, or empty",
		})
	}

	if !backend.ValidIdentifier(b.Table) {
		errs = append(errs, ValidationError{
			Path:    "backend.table",
			Message: fmt.Sprintf("invalid table name %q", b.Table),
			Hint:    "letters, digits and underscores, not starting with a digit",
		})
	}
	return errs
}

func (c *Config) validateAuth() []error {
	var errs []error
	a := c.Auth

	if a.SessionTTL < 0 {
		errs = append(errs, ValidationError{
			Path:    "auth.session_ttl",
			Message: fmt.Sprintf("must be >= 0; got %s", a.SessionTTL),
		})
	}
	if a.MinPasswordLength < 0 {
		errs = append(errs, ValidationError{
			Path:    "auth.min_password_length",
			Message: fmt.Sprintf("must be >= 0; got %d", a.MinPasswordLength),
		})
	}
	if a.JWTSecret != "" && len(a.JWTSecret) < 16 {
		errs = append(errs, ValidationError{
			Path:    "auth.jwt_secret",
			Message: "too short",
			Hint:    "use at least 16 characters",
		})
	}
	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	log := c.Logging

	// Validate level
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[log.Level] {
		errs = append(errs, ValidationError{
			Path:    "logging.level",
			Message: fmt.Sprintf("invalid value %q", log.Level),
			Hint:    "allowed values: debug, info, warn, error",
		})
	}

	// Validate format
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[log.Format] {
		errs = append(errs, ValidationError{
			Path:    "logging.format",
			Message: fmt.Sprintf("invalid value %q", log.Format),
			Hint:    "allowed values: json, console",
		})
	}

	// Validate output_file
	if log.OutputFile != "" {
		dir := filepath.Dir(log.OutputFile)
		if dir != "" && dir != "." {
			if err := validateDirWritable(dir); err != nil {
				errs = append(errs, ValidationError{
					Path:    "logging.output_file",
					Message: fmt.Sprintf("parent directory not writable: %v", err),
				})
			}
		}
	}

	return errs
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func validateDirWritable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access directory: %v", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory")
	}
	testFile := filepath.Join(path, ".write_test")
	if err := os.WriteFile(testFile, []byte(""), 0644); err != nil {
		return fmt.Errorf("directory not writable: %v", err)
	}
	os.Remove(testFile)
	return nil
}

// Err joins the validation errors into one, or returns nil.
func (c *Config) Err() error {
	errs := c.Validate()
	if len(errs) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(msgs, "\n  "))
}
