package postgres

import (
	"context"
	"database/sql"
)

// DB is the statement surface repositories need. Both *sql.DB and the
// breaker-wrapped database.PostgresDB satisfy it, so production wiring gets
// circuit breaking while tests can hand in a bare pool.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
