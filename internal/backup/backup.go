// Package backup exports the planner document as a downloadable JSON file and
// archives copies of it to a blob sink.
package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/platform/blob"
	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/store"
)

const (
	// ExportFilename is the attachment name of a downloaded backup.
	ExportFilename = "study_planner_backup.json"

	// ContentType of exported and archived backups.
	ContentType = "application/json"

	// DefaultPrefix is prepended to archive keys when none is configured.
	DefaultPrefix = "backups/"

	archivePrefix    = "study_planner_backup-"
	archiveExtension = ".json"
	timestampLayout  = "20060102T150405.000Z"
)

var (
	// ErrNoSink is returned by archive operations when no blob sink is configured.
	ErrNoSink = errors.New("no backup sink configured")

	// ErrInvalidName is returned for archive names that were not produced by Archive.
	ErrInvalidName = errors.New("invalid backup name")

	// ErrNotFound is returned when a named archive does not exist.
	ErrNotFound = errors.New("backup not found")
)

// Export serializes doc in the persisted record format.
func Export(doc *domain.Document) ([]byte, error) {
	return store.Encode(doc)
}

// Import parses a backup produced by Export. Older records with missing
// fields are accepted; malformed payloads yield store.ErrCorruptState.
func Import(payload []byte) (*domain.Document, error) {
	return store.Decode(payload)
}

// Entry describes one archived backup.
type Entry struct {
	Name string `json:"name"`
	blob.Info
}

// Archiver writes timestamped backups to a blob sink.
type Archiver struct {
	sink   blob.Store
	prefix string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures an Archiver.
type Option func(*Archiver)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Archiver) {
		if now != nil {
			a.now = now
		}
	}
}

// NewArchiver creates an Archiver. A nil sink is allowed; every archive
// operation then fails with ErrNoSink.
func NewArchiver(sink blob.Store, prefix string, logger *slog.Logger, opts ...Option) *Archiver {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Archiver{
		sink:   sink,
		prefix: prefix,
		now:    time.Now,
		logger: logger.With(slog.String("component", "backup_archiver")),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Enabled reports whether a sink is configured.
func (a *Archiver) Enabled() bool {
	return a != nil && a.sink != nil
}

// Archive writes doc to <prefix>study_planner_backup-<UTC timestamp>.json.
func (a *Archiver) Archive(ctx context.Context, doc *domain.Document) (Entry, error) {
	if !a.Enabled() {
		return Entry{}, ErrNoSink
	}
	log := logger.FromContextOrDefault(ctx, a.logger)

	payload, err := Export(doc)
	if err != nil {
		return Entry{}, fmt.Errorf("encode backup: %w", err)
	}

	name := archivePrefix + a.now().UTC().Format(timestampLayout) + archiveExtension
	info, err := a.sink.Put(ctx, a.prefix+name, bytes.NewReader(payload), blob.PutOptions{ContentType: ContentType})
	if err != nil {
		log.Error("failed to archive backup",
			slog.String("name", name),
			slog.String("driver", string(a.sink.Driver())),
			slog.String("error", err.Error()))
		return Entry{}, fmt.Errorf("archive %s: %w", name, err)
	}

	log.Info("backup archived",
		slog.String("key", info.Key),
		slog.Int64("bytes", info.Size))
	return Entry{Name: name, Info: info}, nil
}

// List returns archived backups, oldest first.
func (a *Archiver) List(ctx context.Context) ([]Entry, error) {
	if !a.Enabled() {
		return nil, ErrNoSink
	}

	infos, err := a.sink.List(ctx, a.prefix+archivePrefix)
	if err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}

	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		name := path.Base(info.Key)
		if validName(name) != nil {
			continue
		}
		entries = append(entries, Entry{Name: name, Info: info})
	}
	return entries, nil
}

// Load reads and decodes the archive called name.
func (a *Archiver) Load(ctx context.Context, name string) (*domain.Document, error) {
	if !a.Enabled() {
		return nil, ErrNoSink
	}
	if err := validName(name); err != nil {
		return nil, err
	}

	_, rc, err := a.sink.Get(ctx, a.prefix+name)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("open backup %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	payload, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read backup %s: %w", name, err)
	}
	return Import(payload)
}

func validName(name string) error {
	if !strings.HasPrefix(name, archivePrefix) ||
		!strings.HasSuffix(name, archiveExtension) ||
		strings.ContainsAny(name, `/\`) ||
		strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}
