package rqlite

import (
	"reflect"
	"testing"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

func TestStatementBuild(t *testing.T) {
	tests := []struct {
		name     string
		plan     *backend.Plan
		wantSQL  string
		wantArgs []any
	}{
		{
			name:    "select all",
			plan:    &backend.Plan{Table: "contacts", Action: backend.ActionSelect, Columns: "*"},
			wantSQL: "SELECT * FROM contacts",
		},
		{
			name: "page window newest first",
			plan: &backend.Plan{
				Table: "contacts", Action: backend.ActionSelect, Columns: "*",
				Orders:   []backend.OrderBy{{Column: "created_at", Desc: true}},
				HasRange: true, From: 20, To: 39,
			},
			wantSQL: "SELECT * FROM contacts ORDER BY created_at DESC LIMIT 20 OFFSET 20",
		},
		{
			name: "filter and limit",
			plan: &backend.Plan{
				Table: "contacts", Action: backend.ActionSelect, Columns: "id, name",
				Filters: []backend.Filter{{Column: "id", Value: "c-1"}},
				Limit:   1,
			},
			wantSQL:  "SELECT id, name FROM contacts WHERE (id = ?) LIMIT 1",
			wantArgs: []any{"c-1"},
		},
		{
			name: "null filter",
			plan: &backend.Plan{
				Table: "contacts", Action: backend.ActionSelect,
				Filters: []backend.Filter{{Column: "phone", Value: nil}},
			},
			wantSQL: "SELECT * FROM contacts WHERE (phone IS NULL)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotSQL, gotArgs := fromPlan(tt.plan).Build()
			if gotSQL != tt.wantSQL {
				t.Errorf("Build() sql = %q; want %q", gotSQL, tt.wantSQL)
			}
			if len(gotArgs) != len(tt.wantArgs) || (len(gotArgs) > 0 && !reflect.DeepEqual(gotArgs, tt.wantArgs)) {
				t.Errorf("Build() args = %v; want %v", gotArgs, tt.wantArgs)
			}
		})
	}
}

func TestStatementOffsetWithoutLimit(t *testing.T) {
	got, _ := newStatement("contacts").Offset(5).Build()
	want := "SELECT * FROM contacts LIMIT -1 OFFSET 5"
	if got != want {
		t.Errorf("Build() = %q; want %q", got, want)
	}
}

func TestStatementWrites(t *testing.T) {
	q, args := newStatement("contacts").WhereIn("id", []any{"a", "b"}).
		BuildUpdate(backend.Record{"name": "Grace", "email": "g@example.com"})
	if want := "UPDATE contacts SET email = ?, name = ? WHERE (id IN (?, ?))"; q != want {
		t.Errorf("BuildUpdate() = %q; want %q", q, want)
	}
	if want := []any{"g@example.com", "Grace", "a", "b"}; !reflect.DeepEqual(args, want) {
		t.Errorf("BuildUpdate() args = %v; want %v", args, want)
	}

	q, _ = newStatement("contacts").WhereIn("id", nil).BuildDelete()
	if want := "DELETE FROM contacts WHERE (1 = 0)"; q != want {
		t.Errorf("BuildDelete() = %q; want %q", q, want)
	}

	q, args = buildInsert("contacts", backend.Record{"name": "Ada", "tags": []string{"x"}})
	if want := "INSERT INTO contacts (name, tags) VALUES (?, ?)"; q != want {
		t.Errorf("buildInsert() = %q; want %q", q, want)
	}
	if args[1] != `["x"]` {
		t.Errorf("buildInsert() composite arg = %v; want JSON text", args[1])
	}

	q, args = newStatement("contacts").Where("email = ?", "a@example.com").BuildCount()
	if want := "SELECT COUNT(*) FROM contacts WHERE (email = ?)"; q != want || len(args) != 1 {
		t.Errorf("BuildCount() = %q %v", q, args)
	}
}

func TestSplitSQLStatements(t *testing.T) {
	script := `
-- leading comment
CREATE TABLE a (x TEXT DEFAULT 'semi;colon');
/* block; comment */
INSERT INTO a (x) VALUES ('it''s');
BEGIN;
COMMIT`

	got := splitSQLStatements(script)
	want := []string{
		"CREATE TABLE a (x TEXT DEFAULT 'semi;colon')",
		"INSERT INTO a (x) VALUES ('it''s')",
		"BEGIN",
		"COMMIT",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("splitSQLStatements() = %#v; want %#v", got, want)
	}
	if !isTxnControl(got[2]) || !isTxnControl(got[3]) || isTxnControl(got[0]) {
		t.Error("isTxnControl misclassified statements")
	}
}

func TestParseVersionPrefix(t *testing.T) {
	tests := []struct {
		name string
		ver  int
		ok   bool
	}{
		{"001_contacts.sql", 1, true},
		{"12_add.sql", 12, true},
		{"contacts.sql", 0, false},
	}
	for _, tt := range tests {
		ver, ok := parseVersionPrefix(tt.name)
		if ver != tt.ver || ok != tt.ok {
			t.Errorf("parseVersionPrefix(%q) = %d, %v; want %d, %v", tt.name, ver, ok, tt.ver, tt.ok)
		}
	}
}
