package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultFileName is looked up in ConfigDir when no path is given.
const DefaultFileName = "contacts.yaml"

// ConfigDir returns the path to the config directory (~/.contacts).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(home, ".contacts"), nil
}

// DefaultPath returns the config file to use when none was given: ./contacts.yaml
// if present, then ~/.contacts/contacts.yaml if present, otherwise "".
func DefaultPath() string {
	if _, err := os.Stat(DefaultFileName); err == nil {
		return DefaultFileName
	}
	dir, err := ConfigDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, DefaultFileName)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}
