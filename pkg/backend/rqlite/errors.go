package rqlite

// errors.go maps driver failures onto the typed errors in pkg/errors.

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"net"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/DeBrosOfficial/contacts/pkg/backend"
	"github.com/DeBrosOfficial/contacts/pkg/errors"
)

const serviceName = "rqlite"

func errUnsupportedAction(a backend.Action) error {
	return errors.NewInvalidArgument("action", fmt.Sprintf("unsupported action %q", a), a.String())
}

// translate classifies err for operation op on table. Typed errors pass through.
func translate(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var typed errors.Error
	if stderrors.As(err, &typed) {
		return err
	}

	switch {
	case stderrors.Is(err, context.DeadlineExceeded):
		return errors.NewTimeoutError(op, "")
	case stderrors.Is(err, context.Canceled):
		return err
	case stderrors.Is(err, sql.ErrNoRows):
		return errors.NewNotFoundError(table, "")
	}

	var sqliteErr sqlite3.Error
	if stderrors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return errors.NewConflictError(table, "", "")
		case sqlite3.ErrConstraintNotNull, sqlite3.ErrConstraintCheck:
			return errors.NewValidationError("", sqliteErr.Error(), nil)
		}
		if sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked {
			return errors.NewServiceError(serviceName, "database is busy", 503, err)
		}
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) {
		if netErr.Timeout() {
			return errors.NewTimeoutError(op, "")
		}
		return errors.NewNetworkError(serviceName, err)
	}

	// rqlite reports SQLite failures as text
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint failed"):
		return errors.NewConflictError(table, "", "")
	case strings.Contains(msg, "not null constraint failed"):
		return errors.NewValidationError("", err.Error(), nil)
	case strings.Contains(msg, "no such table"), strings.Contains(msg, "no such column"),
		strings.Contains(msg, "has no column named"):
		return errors.NewValidationError("", err.Error(), nil)
	case strings.Contains(msg, "connection refused"), strings.Contains(msg, "no such host"):
		return errors.NewNetworkError(serviceName, err)
	}
	return errors.NewDatabaseError(fmt.Sprintf("%s on %s failed", op, table), err)
}
