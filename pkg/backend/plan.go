package backend

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

// Action is the verb of a table request.
type Action int

const (
	ActionNone Action = iota
	ActionSelect
	ActionInsert
	ActionUpdate
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionSelect:
		return "select"
	case ActionInsert:
		return "insert"
	case ActionUpdate:
		return "update"
	case ActionDelete:
		return "delete"
	default:
		return "none"
	}
}

// Filter is an equality condition.
type Filter struct {
	Column string
	Value  any
}

// OrderBy is one ordering term.
type OrderBy struct {
	Column string
	Desc   bool
}

// Plan is the accumulated state of a Query.
type Plan struct {
	Table   string
	Action  Action
	Columns string
	Rows    []Record
	Patch   Record
	Filters []Filter
	Orders  []OrderBy
	Count   CountMode
	Head    bool

	HasRange bool
	From, To int
	Limit    int // 0 means none

	conflict string
}

// RowLimit returns the effective row cap from Range and Limit, or -1.
func (p *Plan) RowLimit() int {
	n := -1
	if p.HasRange {
		n = p.To - p.From + 1
	}
	if p.Limit > 0 && (n < 0 || p.Limit < n) {
		n = p.Limit
	}
	return n
}

// Offset returns the number of leading rows to skip.
func (p *Plan) Offset() int {
	if p.HasRange {
		return p.From
	}
	return 0
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s can be used as a table or column name.
func ValidIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// SelectColumns splits the Columns list; "*" and "" yield nil.
func (p *Plan) SelectColumns() []string {
	c := strings.TrimSpace(p.Columns)
	if c == "" || c == "*" {
		return nil
	}
	parts := strings.Split(c, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		out = append(out, strings.TrimSpace(part))
	}
	return out
}

// Validate checks the plan before it is sent anywhere.
func (p *Plan) Validate() error {
	if p.conflict != "" {
		return errors.NewInvalidArgument("action", p.conflict, nil)
	}
	if !ValidIdentifier(p.Table) {
		return errors.NewInvalidArgument("table", fmt.Sprintf("invalid table name %q", p.Table), p.Table)
	}
	for _, col := range p.SelectColumns() {
		if !ValidIdentifier(col) {
			return errors.NewInvalidArgument("select", fmt.Sprintf("invalid column %q", col), col)
		}
	}
	for _, f := range p.Filters {
		if !ValidIdentifier(f.Column) {
			return errors.NewInvalidArgument("filter", fmt.Sprintf("invalid column %q", f.Column), f.Column)
		}
	}
	for _, o := range p.Orders {
		if !ValidIdentifier(o.Column) {
			return errors.NewInvalidArgument("order", fmt.Sprintf("invalid column %q", o.Column), o.Column)
		}
	}
	if p.HasRange && (p.From < 0 || p.To < p.From) {
		return errors.NewInvalidArgument("range", fmt.Sprintf("invalid range %d-%d", p.From, p.To), []int{p.From, p.To})
	}
	if p.Limit < 0 {
		return errors.NewInvalidArgument("limit", fmt.Sprintf("invalid limit %d", p.Limit), p.Limit)
	}

	switch p.Action {
	case ActionSelect:
	case ActionInsert:
		if len(p.Rows) == 0 {
			return errors.NewInvalidArgument("insert", "no rows to insert", nil)
		}
		for _, row := range p.Rows {
			if err := validateRecord("insert", row); err != nil {
				return err
			}
		}
	case ActionUpdate:
		if err := validateRecord("update", p.Patch); err != nil {
			return err
		}
		if len(p.Filters) == 0 {
			return errors.NewInvalidArgument("update", "update requires a filter", nil)
		}
	case ActionDelete:
		if len(p.Filters) == 0 {
			return errors.NewInvalidArgument("delete", "delete requires a filter", nil)
		}
	default:
		return errors.NewInvalidArgument("action", "query has no action", nil)
	}

	if p.Count != CountNone && p.Count != CountExact {
		return errors.NewInvalidArgument("count", fmt.Sprintf("unsupported count mode %q", p.Count), p.Count)
	}
	return nil
}

func validateRecord(field string, r Record) error {
	if len(r) == 0 {
		return errors.NewInvalidArgument(field, "empty record", nil)
	}
	for col := range r {
		if !ValidIdentifier(col) {
			return errors.NewInvalidArgument(field, fmt.Sprintf("invalid column %q", col), col)
		}
	}
	return nil
}

// Executor runs a validated plan against a concrete backend.
type Executor func(ctx context.Context, p *Plan) (*Response, error)

// NewQuery returns a Query for table whose Execute validates the plan and
// hands it to exec.
func NewQuery(table string, exec Executor) Query {
	return &query{plan: Plan{Table: table}, exec: exec}
}

type query struct {
	plan Plan
	exec Executor
}

func (q *query) setAction(a Action) {
	if q.plan.Action != ActionNone && q.plan.Action != a {
		q.plan.conflict = fmt.Sprintf("cannot %s after %s", a, q.plan.Action)
		return
	}
	q.plan.Action = a
}

func (q *query) Select(columns string) Query {
	// select after a write asks for a representation; it is not an action of its own
	if q.plan.Action == ActionNone {
		q.plan.Action = ActionSelect
	}
	q.plan.Columns = columns
	return q
}

func (q *query) Insert(rows ...Record) Query {
	q.setAction(ActionInsert)
	q.plan.Rows = append(q.plan.Rows, rows...)
	return q
}

func (q *query) Update(patch Record) Query {
	q.setAction(ActionUpdate)
	q.plan.Patch = patch
	return q
}

func (q *query) Delete() Query {
	q.setAction(ActionDelete)
	return q
}

func (q *query) Eq(column string, value any) Query {
	q.plan.Filters = append(q.plan.Filters, Filter{Column: column, Value: value})
	return q
}

func (q *query) Order(column string, desc bool) Query {
	q.plan.Orders = append(q.plan.Orders, OrderBy{Column: column, Desc: desc})
	return q
}

func (q *query) Range(from, to int) Query {
	q.plan.HasRange = true
	q.plan.From, q.plan.To = from, to
	return q
}

func (q *query) Limit(n int) Query {
	if n == 0 {
		n = -1 // an explicit zero is invalid, not "no limit"
	}
	q.plan.Limit = n
	return q
}

func (q *query) Count(mode CountMode) Query {
	q.plan.Count = mode
	return q
}

func (q *query) Head() Query {
	q.plan.Head = true
	return q
}

func (q *query) Execute(ctx context.Context) (*Response, error) {
	if err := q.plan.Validate(); err != nil {
		return nil, err
	}
	plan := q.plan
	return q.exec(ctx, &plan)
}
