// Package sqlite stores planner records in a single SQLite table using the
// pure Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/store"

	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

const createTable = `CREATE TABLE IF NOT EXISTS records (
	key TEXT PRIMARY KEY,
	payload BLOB NOT NULL,
	updated_at TEXT NOT NULL
)`

// Open opens (creating if needed) the database file at path and ensures the
// records table exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path cannot be empty")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return db, nil
}

// Records implements store.RecordStore over the records table.
type Records struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewRecords creates a Records. db must already contain the records table.
func NewRecords(db store.DBTX, logger *slog.Logger) (*Records, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Records{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_records")),
	}, nil
}

// Read implements store.RecordStore.
func (r *Records) Read(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM records WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select record %s: %w", key, err)
	}
	return payload, nil
}

// Write implements store.RecordStore.
func (r *Records) Write(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO records(key, payload, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, payload, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to upsert record",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return fmt.Errorf("upsert record %s: %w", key, err)
	}
	return nil
}

// Delete implements store.RecordStore.
func (r *Records) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}
	return nil
}

var _ store.RecordStore = (*Records)(nil)
