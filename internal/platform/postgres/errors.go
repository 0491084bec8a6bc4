package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/study-planner/internal/store"
)

// PostgreSQL error codes
const (
	// undefinedTableCode is returned when planner_records has not been migrated yet
	undefinedTableCode = "42P01"

	// invalidJSONCode is returned when a payload is not valid JSON for a JSONB column
	invalidJSONCode = "22P02"
)

// ErrSchemaMissing is returned when the planner_records table does not exist.
var ErrSchemaMissing = errors.New("planner_records table does not exist")

// MapError maps a database error to a store error. The original error stays
// reachable through errors.Is/errors.As.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrRecordNotFound, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case undefinedTableCode:
			return fmt.Errorf("%w (run migrations first): %w", ErrSchemaMissing, err)
		case invalidJSONCode:
			return fmt.Errorf("payload rejected by database: %w", err)
		}
	}

	return err
}

// IsUndefinedTable checks if the given error reports a missing table.
func IsUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
