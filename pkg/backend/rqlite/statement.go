package rqlite

// statement.go renders backend plans into parameterized SQL.

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

// statement is a fluent builder for the SELECT/UPDATE/DELETE/COUNT forms a
// plan needs. Identifiers are validated by backend.Plan before they get here.
type statement struct {
	table   string
	selects []string
	wheres  []whereClause

	orderBys []string
	limit    *int
	offset   *int
}

// whereClause holds an expression and its args; clauses are joined with AND.
type whereClause struct {
	expr string
	args []any
}

func newStatement(table string) *statement {
	return &statement{table: table}
}

// fromPlan seeds a SELECT with the plan's columns, filters, order and window.
func fromPlan(p *backend.Plan) *statement {
	st := newStatement(p.Table).Select(p.SelectColumns()...)
	st.filters(p.Filters)
	for _, o := range p.Orders {
		st.OrderBy(o.Column, o.Desc)
	}
	if n := p.RowLimit(); n >= 0 {
		st.Limit(n)
	}
	if off := p.Offset(); off > 0 {
		st.Offset(off)
	}
	return st
}

func (st *statement) Select(cols ...string) *statement {
	st.selects = append(st.selects, cols...)
	return st
}

func (st *statement) Where(expr string, args ...any) *statement {
	st.wheres = append(st.wheres, whereClause{expr: expr, args: args})
	return st
}

func (st *statement) filters(fs []backend.Filter) *statement {
	for _, f := range fs {
		if f.Value == nil {
			st.Where(f.Column + " IS NULL")
			continue
		}
		st.Where(f.Column+" = ?", toSQLArg(f.Value))
	}
	return st
}

// WhereIn adds "col IN (?, ...)". An empty set matches nothing.
func (st *statement) WhereIn(col string, vals []any) *statement {
	if len(vals) == 0 {
		return st.Where("1 = 0")
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(vals)), ", ")
	return st.Where(fmt.Sprintf("%s IN (%s)", col, marks), vals...)
}

func (st *statement) OrderBy(col string, desc bool) *statement {
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	st.orderBys = append(st.orderBys, col+" "+dir)
	return st
}

func (st *statement) Limit(n int) *statement {
	st.limit = &n
	return st
}

func (st *statement) Offset(n int) *statement {
	st.offset = &n
	return st
}

func (st *statement) where() (string, []any) {
	if len(st.wheres) == 0 {
		return "", nil
	}
	var b strings.Builder
	args := make([]any, 0, len(st.wheres))
	b.WriteString(" WHERE ")
	for i, w := range st.wheres {
		if i > 0 {
			b.WriteString(" AND ")
		}
		b.WriteString("(" + w.expr + ")")
		args = append(args, w.args...)
	}
	return b.String(), args
}

// Build returns the SELECT and its args.
func (st *statement) Build() (string, []any) {
	cols := "*"
	if len(st.selects) > 0 {
		cols = strings.Join(st.selects, ", ")
	}
	q := fmt.Sprintf("SELECT %s FROM %s", cols, st.table)

	where, args := st.where()
	q += where

	if len(st.orderBys) > 0 {
		q += " ORDER BY " + strings.Join(st.orderBys, ", ")
	}
	if st.limit != nil {
		q += fmt.Sprintf(" LIMIT %d", *st.limit)
	} else if st.offset != nil {
		// SQLite needs a LIMIT before OFFSET
		q += " LIMIT -1"
	}
	if st.offset != nil {
		q += fmt.Sprintf(" OFFSET %d", *st.offset)
	}
	return q, args
}

// BuildCount returns a COUNT(*) over the same filters, ignoring order and window.
func (st *statement) BuildCount() (string, []any) {
	where, args := st.where()
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", st.table, where), args
}

// BuildUpdate returns "UPDATE ... SET ..." restricted by the where clauses.
func (st *statement) BuildUpdate(patch backend.Record) (string, []any) {
	cols := sortedColumns(patch)
	sets := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols)+len(st.wheres))
	for _, c := range cols {
		sets = append(sets, c+" = ?")
		args = append(args, toSQLArg(patch[c]))
	}
	where, whereArgs := st.where()
	return fmt.Sprintf("UPDATE %s SET %s%s", st.table, strings.Join(sets, ", "), where), append(args, whereArgs...)
}

// BuildDelete returns "DELETE FROM ..." restricted by the where clauses.
func (st *statement) BuildDelete() (string, []any) {
	where, args := st.where()
	return fmt.Sprintf("DELETE FROM %s%s", st.table, where), args
}

// buildInsert returns a single-row INSERT with columns in sorted order.
func buildInsert(table string, row backend.Record) (string, []any) {
	cols := sortedColumns(row)
	args := make([]any, 0, len(cols))
	for _, c := range cols {
		args = append(args, toSQLArg(row[c]))
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), marks), args
}

func sortedColumns(r backend.Record) []string {
	cols := make([]string, 0, len(r))
	for c := range r {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}
