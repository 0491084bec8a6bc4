package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" driver
	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/store"
)

// Open opens a connection pool for url and verifies it with a ping.
func Open(ctx context.Context, url string, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established", slog.String("url", MaskURL(url)))
	return db, nil
}

// Records implements store.RecordStore over the planner_records table.
type Records struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewRecords creates a Records. Run Migrate before the first call.
func NewRecords(db store.DBTX, logger *slog.Logger) (*Records, error) {
	if db == nil {
		return nil, fmt.Errorf("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Records{
		db:     db,
		logger: logger.With(slog.String("component", "postgres_records")),
	}, nil
}

// Read implements store.RecordStore.
func (r *Records) Read(ctx context.Context, key string) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM planner_records WHERE key = $1`, key).Scan(&payload)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrRecordNotFound) {
			return nil, store.ErrRecordNotFound
		}
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to select record",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return nil, mapped
	}
	return payload, nil
}

// Write implements store.RecordStore.
func (r *Records) Write(ctx context.Context, key string, payload []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO planner_records (key, payload, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE
		SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`, key, payload)
	if err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("failed to upsert record",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return MapError(err)
	}
	return nil
}

// Delete implements store.RecordStore.
func (r *Records) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM planner_records WHERE key = $1`, key); err != nil {
		return MapError(err)
	}
	return nil
}

var _ store.RecordStore = (*Records)(nil)
