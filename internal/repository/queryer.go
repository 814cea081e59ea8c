package repository

import (
	"context"
	"database/sql"
	"strconv"
)

// queryer is satisfied by both *sql.DB and *sql.Tx so read helpers can
// run inside or outside a transaction.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Date and time columns are returned as text so callers never depend on
// the driver's time zone handling.
const (
	dateFmt = `'%Y-%m-%d'`
	timeFmt = `'%H:%i'`
)

// likeArg wraps s for a substring LIKE match.
func likeArg(s string) string { return "%" + s + "%" }

func uintStr(n uint64) string { return strconv.FormatUint(n, 10) }
