package rqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
)

const (
	columnID        = "id"
	columnCreatedAt = "created_at"
)

// execute runs a validated plan. Writes echo the rows they touched, the way
// a hosted table API does with return=representation.
func (c *Client) execute(ctx context.Context, p *backend.Plan) (*backend.Response, error) {
	c.logger.Debug("Executing plan",
		zap.String("table", p.Table),
		zap.Stringer("action", p.Action),
		zap.Int("filters", len(p.Filters)),
	)

	var (
		resp *backend.Response
		err  error
	)
	switch p.Action {
	case backend.ActionSelect:
		resp, err = c.selectRows(ctx, p)
	case backend.ActionInsert:
		resp, err = c.insertRows(ctx, p)
	case backend.ActionUpdate:
		resp, err = c.updateRows(ctx, p)
	case backend.ActionDelete:
		resp, err = c.deleteRows(ctx, p)
	default:
		return nil, translate("execute", p.Table, errUnsupportedAction(p.Action))
	}
	if err != nil {
		return nil, translate(p.Action.String(), p.Table, err)
	}
	return resp, nil
}

func (c *Client) selectRows(ctx context.Context, p *backend.Plan) (*backend.Response, error) {
	st := fromPlan(p)
	resp := &backend.Response{Data: []backend.Record{}}

	if !p.Head {
		q, args := st.Build()
		rows, err := c.query(ctx, q, args)
		if err != nil {
			return nil, err
		}
		resp.Data = rows
	}

	if p.Count == backend.CountExact {
		q, args := st.BuildCount()
		var n int64
		if err := c.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
			return nil, err
		}
		resp.Count = &n
	}
	return resp, nil
}

// insertRows writes each row and reads it back by id. Missing ids and
// created_at values are filled in here.
func (c *Client) insertRows(ctx context.Context, p *backend.Plan) (*backend.Response, error) {
	ids := make([]any, 0, len(p.Rows))
	for _, in := range p.Rows {
		row := make(backend.Record, len(in)+2)
		for k, v := range in {
			row[k] = v
		}
		if row[columnID] == nil {
			row[columnID] = uuid.NewString()
		}
		if row[columnCreatedAt] == nil {
			row[columnCreatedAt] = c.timestamp()
		}

		q, args := buildInsert(p.Table, row)
		if _, err := c.db.ExecContext(ctx, q, args...); err != nil {
			return nil, err
		}
		ids = append(ids, toSQLArg(row[columnID]))
	}
	return c.echo(ctx, p, ids)
}

// updateRows resolves the matching ids first so the echo still finds rows
// whose filtered columns the patch changed.
func (c *Client) updateRows(ctx context.Context, p *backend.Plan) (*backend.Response, error) {
	ids, err := c.matchingIDs(ctx, p)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &backend.Response{Data: []backend.Record{}}, nil
	}

	q, args := newStatement(p.Table).WhereIn(columnID, ids).BuildUpdate(p.Patch)
	res, err := c.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &backend.Response{Data: []backend.Record{}}, nil
	}

	if newID, ok := p.Patch[columnID]; ok {
		ids = []any{toSQLArg(newID)}
	}
	return c.echo(ctx, p, ids)
}

// deleteRows snapshots the matching rows, then deletes them.
func (c *Client) deleteRows(ctx context.Context, p *backend.Plan) (*backend.Response, error) {
	st := newStatement(p.Table).Select(p.SelectColumns()...)
	st.filters(p.Filters)
	sq, sargs := st.Build()
	victims, err := c.query(ctx, sq, sargs)
	if err != nil {
		return nil, err
	}
	if len(victims) == 0 {
		return &backend.Response{Data: victims}, nil
	}

	ids := make([]any, 0, len(victims))
	for _, r := range victims {
		ids = append(ids, r[columnID])
	}
	// victims may not carry id when the caller narrowed the select list
	if ids[0] == nil {
		ids, err = c.matchingIDs(ctx, p)
		if err != nil {
			return nil, err
		}
	}

	q, args := newStatement(p.Table).WhereIn(columnID, ids).BuildDelete()
	res, err := c.db.ExecContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &backend.Response{Data: []backend.Record{}}, nil
	}
	return &backend.Response{Data: victims}, nil
}

func (c *Client) matchingIDs(ctx context.Context, p *backend.Plan) ([]any, error) {
	st := newStatement(p.Table).Select(columnID)
	st.filters(p.Filters)
	q, args := st.Build()
	rows, err := c.query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	ids := make([]any, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r[columnID])
	}
	return ids, nil
}

// echo reads back the rows with the given ids using the plan's select list.
func (c *Client) echo(ctx context.Context, p *backend.Plan, ids []any) (*backend.Response, error) {
	q, args := newStatement(p.Table).Select(p.SelectColumns()...).WhereIn(columnID, ids).Build()
	rows, err := c.query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	return &backend.Response{Data: rows}, nil
}

func (c *Client) query(ctx context.Context, q string, args []any) ([]backend.Record, error) {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRecords(rows)
}

// queryRow scans the first row of q into dest, reporting sql.ErrNoRows.
func (c *Client) queryRow(ctx context.Context, dest any, q string, args ...any) error {
	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return scanStruct(rows, dest)
}
