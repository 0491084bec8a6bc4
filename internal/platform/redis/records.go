// Package redis stores planner records as plain string values in Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/store"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces the planner keys.
const DefaultPrefix = "studyplan:"

// Client is the subset of *redis.Client used by Records.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Records implements store.RecordStore on top of Redis. Records never expire.
type Records struct {
	client Client
	prefix string
	logger *slog.Logger
}

// Open parses a redis:// URL, connects and verifies the connection with PING.
func Open(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}

// NewRecords creates a Records. An empty prefix falls back to DefaultPrefix.
func NewRecords(client Client, prefix string, logger *slog.Logger) (*Records, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Records{
		client: client,
		prefix: prefix,
		logger: logger.With(slog.String("component", "redis_records")),
	}, nil
}

// Key returns the redis key a record is stored under.
func (r *Records) Key(key string) string {
	return r.prefix + key
}

// Read implements store.RecordStore.
func (r *Records) Read(ctx context.Context, key string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, store.ErrRecordNotFound
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("redis GET failed",
			slog.String("key", r.Key(key)),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("redis get %s: %w", r.Key(key), err)
	}
	return payload, nil
}

// Write implements store.RecordStore.
func (r *Records) Write(ctx context.Context, key string, payload []byte) error {
	if err := r.client.Set(ctx, r.Key(key), payload, 0).Err(); err != nil {
		logger.FromContextOrDefault(ctx, r.logger).Error("redis SET failed",
			slog.String("key", r.Key(key)),
			slog.String("error", err.Error()))
		return fmt.Errorf("redis set %s: %w", r.Key(key), err)
	}
	return nil
}

// Delete implements store.RecordStore. Deleting a missing key succeeds.
func (r *Records) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.Key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", r.Key(key), err)
	}
	return nil
}

var _ store.RecordStore = (*Records)(nil)
