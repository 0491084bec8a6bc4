package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the database/sql access used by the SQL record backends.
// It is implemented by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
