package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DeBrosOfficial/contacts/pkg/backend/rest/resttest"
)

// execute runs the CLI once and returns stdout, stderr and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "contacts.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sqliteConfig(t *testing.T) string {
	dsn := filepath.Join(t.TempDir(), "contacts.db")
	return writeConfig(t, "backend:\n  provider: sqlite\n  dsn: "+dsn+"\nlogging:\n  level: warn\n")
}

func TestVersionNeedsNoConfig(t *testing.T) {
	out, _, err := execute(t, "version", "--config", "/does/not/exist.yaml")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "contacts ") {
		t.Errorf("output = %q", out)
	}
}

func TestRecordCommandsAgainstSQLite(t *testing.T) {
	cfg := sqliteConfig(t)

	out, _, err := execute(t, "--config", cfg, "insert", "--data", `{"name":"Ada","email":"ada@example.com"}`)
	if err != nil {
		t.Fatalf("insert error = %v", err)
	}
	var inserted []map[string]any
	if err := json.Unmarshal([]byte(out), &inserted); err != nil || len(inserted) != 1 {
		t.Fatalf("insert output = %q (%v)", out, err)
	}
	id, _ := inserted[0]["id"].(string)
	if id == "" {
		t.Fatalf("inserted row has no id: %v", inserted[0])
	}

	out, _, err = execute(t, "--config", cfg, "get", id)
	if err != nil || !strings.Contains(out, `"name": "Ada"`) {
		t.Errorf("get = %q, %v", out, err)
	}

	out, _, err = execute(t, "--config", cfg, "update", id, "--data", `{"name":"Grace"}`)
	if err != nil || !strings.Contains(out, `"name": "Grace"`) {
		t.Errorf("update = %q, %v", out, err)
	}

	out, _, err = execute(t, "--config", cfg, "list", "--page", "1", "--page-size", "10")
	if err != nil {
		t.Fatalf("list error = %v", err)
	}
	var page struct {
		Items []map[string]any `json:"items"`
		Total int64            `json:"total"`
		Pages int64            `json:"pages"`
	}
	if err := json.Unmarshal([]byte(out), &page); err != nil || page.Total != 1 || page.Pages != 1 || len(page.Items) != 1 {
		t.Errorf("list output = %q (%v)", out, err)
	}

	if _, _, err := execute(t, "--config", cfg, "delete", id); err != nil {
		t.Errorf("delete error = %v", err)
	}
	if _, _, err := execute(t, "--config", cfg, "get", id); !errors.Is(err, errNoResult) {
		t.Errorf("get after delete error = %v; want errNoResult", err)
	}
}

func TestAccountCommandsAgainstREST(t *testing.T) {
	srv := resttest.NewServer()
	defer srv.Close()
	cfg := writeConfig(t, "backend:\n  provider: rest\n  url: "+srv.URL+"\n  api_key: "+resttest.APIKey+"\nlogging:\n  level: error\n")

	out, _, err := execute(t, "--config", cfg, "signup", "--email", "ada@example.com", "--password", "correct-horse",
		"--metadata", `{"name":"Ada"}`)
	if err != nil || !strings.Contains(out, `"email": "ada@example.com"`) {
		t.Fatalf("signup = %q, %v", out, err)
	}

	out, _, err = execute(t, "--config", cfg, "signin", "--email", "ada@example.com", "--password", "correct-horse")
	if err != nil || !strings.Contains(out, "access_token") {
		t.Errorf("signin = %q, %v", out, err)
	}

	_, _, err = execute(t, "--config", cfg, "signin", "--email", "ada@example.com", "--password", "wrong-pass")
	if !errors.Is(err, errNoResult) {
		t.Errorf("bad signin error = %v; want errNoResult", err)
	}

	_, _, err = execute(t, "--config", cfg, "migrate")
	if err == nil || !strings.Contains(err.Error(), "rqlite or sqlite") {
		t.Errorf("migrate on rest error = %v", err)
	}
}

func TestUnconfiguredBackendYieldsNoResult(t *testing.T) {
	cfg := writeConfig(t, "logging:\n  level: warn\n")

	_, logs, err := execute(t, "--config", cfg, "--no-color", "get", "anything")
	if !errors.Is(err, errNoResult) {
		t.Errorf("error = %v; want errNoResult", err)
	}
	if !strings.Contains(logs, "not initialized") {
		t.Errorf("log output = %q; want unconfigured warning", logs)
	}
}

func TestFlagValidation(t *testing.T) {
	cfg := sqliteConfig(t)
	tests := []struct {
		name string
		args []string
	}{
		{"insert without data", []string{"insert"}},
		{"insert with non-object", []string{"insert", "--data", "[1,2]"}},
		{"update without patch", []string{"update", "c-1", "--data", "{}"}},
		{"get without id", []string{"get"}},
		{"signup without password", []string{"signup", "--email", "a@example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, append([]string{"--config", cfg}, tt.args...)...)
			if err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestMigrateSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	if _, _, err := execute(t, "--config", cfg, "migrate"); err != nil {
		t.Errorf("migrate error = %v", err)
	}
}
