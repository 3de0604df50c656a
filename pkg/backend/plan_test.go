package backend

import (
	"context"
	"testing"

	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// capture returns an executor that records the plan it was handed.
func capture(got **Plan) Executor {
	return func(ctx context.Context, p *Plan) (*Response, error) {
		*got = p
		return &Response{}, nil
	}
}

func TestQueryBuildsPlan(t *testing.T) {
	var plan *Plan
	_, err := NewQuery("contacts", capture(&plan)).
		Select("*").
		Eq("id", "abc").
		Order("created_at", true).
		Range(20, 39).
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if plan.Action != ActionSelect {
		t.Errorf("Expected select, got %s", plan.Action)
	}
	if len(plan.Filters) != 1 || plan.Filters[0].Column != "id" || plan.Filters[0].Value != "abc" {
		t.Errorf("unexpected filters %+v", plan.Filters)
	}
	if len(plan.Orders) != 1 || !plan.Orders[0].Desc {
		t.Errorf("unexpected orders %+v", plan.Orders)
	}
	if plan.Offset() != 20 || plan.RowLimit() != 20 {
		t.Errorf("Expected offset 20 limit 20, got %d/%d", plan.Offset(), plan.RowLimit())
	}
}

func TestRowLimit(t *testing.T) {
	tests := []struct {
		name string
		plan Plan
		want int
	}{
		{"none", Plan{}, -1},
		{"limit only", Plan{Limit: 1}, 1},
		{"range only", Plan{HasRange: true, From: 0, To: 9}, 10},
		{"limit tighter than range", Plan{HasRange: true, From: 0, To: 9, Limit: 3}, 3},
		{"range tighter than limit", Plan{HasRange: true, From: 5, To: 6, Limit: 10}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.plan.RowLimit(); got != tt.want {
				t.Errorf("RowLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	noop := func(ctx context.Context, p *Plan) (*Response, error) {
		t.Fatal("executor must not run for an invalid plan")
		return nil, nil
	}

	tests := []struct {
		name  string
		build func() Query
	}{
		{"bad table", func() Query { return NewQuery("contacts; drop", noop).Select("*") }},
		{"bad column", func() Query { return NewQuery("contacts", noop).Select("id, name)") }},
		{"bad filter", func() Query { return NewQuery("contacts", noop).Select("*").Eq("1=1 or id", 1) }},
		{"inverted range", func() Query { return NewQuery("contacts", noop).Select("*").Range(0, -1) }},
		{"negative range", func() Query { return NewQuery("contacts", noop).Select("*").Range(-20, -1) }},
		{"zero limit", func() Query { return NewQuery("contacts", noop).Select("*").Limit(0) }},
		{"no action", func() Query { return NewQuery("contacts", noop).Eq("id", 1) }},
		{"empty insert", func() Query { return NewQuery("contacts", noop).Insert() }},
		{"bad insert column", func() Query { return NewQuery("contacts", noop).Insert(Record{"na me": "x"}) }},
		{"unfiltered update", func() Query { return NewQuery("contacts", noop).Update(Record{"name": "x"}) }},
		{"empty patch", func() Query { return NewQuery("contacts", noop).Update(Record{}).Eq("id", 1) }},
		{"unfiltered delete", func() Query { return NewQuery("contacts", noop).Delete() }},
		{"two actions", func() Query { return NewQuery("contacts", noop).Delete().Update(Record{"a": 1}).Eq("id", 1) }},
		{"unknown count", func() Query { return NewQuery("contacts", noop).Select("*").Count("planned") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Execute(context.Background())
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if errors.GetErrorCode(err) != errors.CodeInvalidArgument {
				t.Errorf("Expected code %q, got %q", errors.CodeInvalidArgument, errors.GetErrorCode(err))
			}
		})
	}
}

func TestSelectAfterWriteKeepsAction(t *testing.T) {
	var plan *Plan
	_, err := NewQuery("contacts", capture(&plan)).
		Insert(Record{"name": "Ada"}).
		Select("id, name").
		Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if plan.Action != ActionInsert {
		t.Errorf("Expected insert, got %s", plan.Action)
	}
	cols := plan.SelectColumns()
	if len(cols) != 2 || cols[0] != "id" || cols[1] != "name" {
		t.Errorf("unexpected columns %v", cols)
	}
}
