// Package filestore keeps planner records as JSON files in a local directory.
// Each key maps to <dir>/<key>.json and writes replace the file atomically.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/store"
)

// Extension is appended to every record key.
const Extension = ".json"

// Records implements store.RecordStore on the local filesystem.
type Records struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger
}

// New returns a Records rooted at dir, creating the directory if needed.
func New(dir string, logger *slog.Logger) (*Records, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("record directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create record directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Records{
		dir:    dir,
		logger: logger.With(slog.String("component", "file_records")),
	}, nil
}

// Path returns the file a key is stored in.
func (r *Records) Path(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(r.dir, key+Extension), nil
}

// Read implements store.RecordStore.
func (r *Records) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := r.Path(key)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	payload, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, store.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return payload, nil
}

// Write implements store.RecordStore. The payload goes to a temporary file in
// the same directory which is then renamed over the record, so readers see
// either the old or the new payload.
func (r *Records) Write(ctx context.Context, key string, payload []byte) (retErr error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.Path(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tmp, err := os.CreateTemp(r.dir, ".tmp-"+key+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}

	logger.FromContextOrDefault(ctx, r.logger).Debug("record written",
		slog.String("path", path),
		slog.Int("bytes", len(payload)))
	return nil
}

// Delete implements store.RecordStore. Deleting a missing record succeeds.
func (r *Records) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := r.Path(key)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}

var _ store.RecordStore = (*Records)(nil)
