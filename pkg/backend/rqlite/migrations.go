package rqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Migrations returns the schema scripts bundled with this package.
func Migrations() fs.FS {
	sub, err := fs.Sub(embeddedMigrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Migrate applies the bundled schema to the connected database.
func (c *Client) Migrate(ctx context.Context) error {
	return ApplyMigrations(ctx, c.db, Migrations(), c.logger)
}

// ApplyMigrations applies every *.sql file in fsys, ordered by numeric prefix,
// that is not yet recorded in schema_migrations(version).
func ApplyMigrations(ctx context.Context, db *sql.DB, fsys fs.FS, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := ensureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("ensure schema_migrations: %w", err)
	}

	files, err := readMigrationFiles(fsys)
	if err != nil {
		return fmt.Errorf("read migration files: %w", err)
	}
	if len(files) == 0 {
		logger.Info("No migrations found")
		return nil
	}

	applied, err := loadAppliedVersions(ctx, db)
	if err != nil {
		return fmt.Errorf("load applied versions: %w", err)
	}

	for _, mf := range files {
		if applied[mf.Version] {
			logger.Debug("Migration already applied; skipping", zap.Int("version", mf.Version), zap.String("name", mf.Name))
			continue
		}

		script, err := fs.ReadFile(fsys, mf.Name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", mf.Name, err)
		}

		logger.Info("Applying migration", zap.Int("version", mf.Version), zap.String("name", mf.Name))
		if err := applySQL(ctx, db, string(script)); err != nil {
			return errors.Wrapf(translate("migrate", "", err), "apply migration %d (%s)", mf.Version, mf.Name)
		}

		if _, err := db.ExecContext(ctx, `INSERT OR IGNORE INTO schema_migrations(version) VALUES (?)`, mf.Version); err != nil {
			return errors.Wrapf(translate("migrate", "schema_migrations", err), "record migration %d", mf.Version)
		}
	}

	logger.Info("Schema up to date", zap.Int("migrations", len(files)))
	return nil
}

func ensureMigrationsTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version     INTEGER PRIMARY KEY,
	applied_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`)
	return err
}

type migrationFile struct {
	Version int
	Name    string
}

func readMigrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}

	var out []migrationFile
	seen := map[int]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(name), ".sql") {
			continue
		}
		ver, ok := parseVersionPrefix(name)
		if !ok {
			continue
		}
		if prev, dup := seen[ver]; dup {
			return nil, fmt.Errorf("duplicate migration version %d in %s and %s", ver, prev, name)
		}
		seen[ver] = name
		out = append(out, migrationFile{Version: ver, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// parseVersionPrefix reads the leading digits of names like "001_contacts.sql".
func parseVersionPrefix(name string) (int, bool) {
	i := 0
	for i < len(name) && unicode.IsDigit(rune(name[i])) {
		i++
	}
	if i == 0 {
		return 0, false
	}
	ver, err := strconv.Atoi(name[:i])
	if err != nil {
		return 0, false
	}
	return ver, true
}

func loadAppliedVersions(ctx context.Context, db *sql.DB) (map[int]bool, error) {
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		applied[v] = true
	}
	return applied, rows.Err()
}

// applySQL runs a script statement by statement with explicit transaction
// control removed; rqlite rejects nested transactions.
func applySQL(ctx context.Context, db *sql.DB, script string) error {
	for _, stmt := range splitSQLStatements(script) {
		if isTxnControl(stmt) {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec stmt failed: %w (stmt: %s)", err, snippet(stmt))
		}
	}
	return nil
}

func isTxnControl(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BEGIN", "BEGIN TRANSACTION", "COMMIT", "END", "ROLLBACK":
		return true
	default:
		return false
	}
}

func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 120 {
		return s[:120] + "..."
	}
	return s
}

// splitSQLStatements splits on semicolons outside quoted strings and drops
// -- and /* */ comments.
func splitSQLStatements(in string) []string {
	var out []string
	var b strings.Builder

	flush := func() {
		if stmt := strings.TrimSpace(b.String()); stmt != "" {
			out = append(out, stmt)
		}
		b.Reset()
	}

	var quote rune
	lineComment, blockComment := false, false
	runes := []rune(in)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		next := rune(0)
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case lineComment:
			if ch == '\n' {
				lineComment = false
				b.WriteRune(ch)
			}
			continue
		case blockComment:
			if ch == '*' && next == '/' {
				blockComment = false
				i++
			}
			continue
		}

		if quote != 0 {
			b.WriteRune(ch)
			if ch == quote {
				if next == quote {
					// doubled quote is an escaped literal
					b.WriteRune(next)
					i++
					continue
				}
				quote = 0
			}
			continue
		}

		switch {
		case ch == '-' && next == '-':
			lineComment = true
			i++
		case ch == '/' && next == '*':
			blockComment = true
			i++
		case ch == '\'' || ch == '"':
			quote = ch
			b.WriteRune(ch)
		case ch == ';':
			flush()
		default:
			b.WriteRune(ch)
		}
	}
	flush()
	return out
}
