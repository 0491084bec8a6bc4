package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/platform/logger"
)

// DocumentStore loads and saves the planner Document through a RecordStore.
type DocumentStore struct {
	records RecordStore
	key     string
	logger  *slog.Logger
}

// NewDocumentStore creates a DocumentStore over records.
// It returns an error if records is nil. A nil logger falls back to slog.Default().
func NewDocumentStore(records RecordStore, logger *slog.Logger) (*DocumentStore, error) {
	if records == nil {
		return nil, fmt.Errorf("records cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DocumentStore{
		records: records,
		key:     RecordKey,
		logger:  logger.With(slog.String("component", "document_store")),
	}, nil
}

// Load reads the persisted document. When nothing has been persisted yet it
// returns domain.DefaultDocument(). A record that cannot be decoded yields
// ErrCorruptState; a backend failure yields ErrPersistence.
func (s *DocumentStore) Load(ctx context.Context) (*domain.Document, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := s.records.Read(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			log.Debug("no persisted document, using defaults", slog.String("key", s.key))
			return domain.DefaultDocument(), nil
		}
		log.Error("failed to read persisted document",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return nil, persistenceError("load", "failed to read record", err)
	}

	doc, err := Decode(payload)
	if err != nil {
		log.Error("persisted document is corrupt",
			slog.String("key", s.key),
			slog.Int("bytes", len(payload)),
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("loaded persisted document",
		slog.Int("subjects", len(doc.Subjects)),
		slog.Int("tasks", len(doc.Tasks)),
		slog.Int("schedule", len(doc.Schedule)))
	return doc, nil
}

// Save overwrites the persisted record with doc.
func (s *DocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	payload, err := Encode(doc)
	if err != nil {
		return persistenceError("save", "failed to encode document", err)
	}

	if err := s.records.Write(ctx, s.key, payload); err != nil {
		log.Error("failed to write document",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return persistenceError("save", "failed to write record", err)
	}

	log.Debug("saved document", slog.Int("bytes", len(payload)))
	return nil
}

// Reset erases the persisted record. Erasing a missing record succeeds.
func (s *DocumentStore) Reset(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.records.Delete(ctx, s.key); err != nil && !errors.Is(err, ErrRecordNotFound) {
		log.Error("failed to erase document",
			slog.String("key", s.key),
			slog.String("error", err.Error()))
		return persistenceError("reset", "failed to delete record", err)
	}

	log.Info("persisted document erased", slog.String("key", s.key))
	return nil
}

// ExportSnapshot serializes doc exactly as it is persisted.
func (s *DocumentStore) ExportSnapshot(doc *domain.Document) ([]byte, error) {
	return Encode(doc)
}

// Encode serializes a document into the persisted record format.
func Encode(doc *domain.Document) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document cannot be nil")
	}
	return json.Marshal(doc)
}

// Decode parses a persisted or exported record. Absent top-level fields are
// defaulted. Malformed JSON, duplicate ids or invalid schedule entries yield
// ErrCorruptState.
func Decode(payload []byte) (*domain.Document, error) {
	var doc domain.Document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, corruptError("decode", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, corruptError("decode", err)
	}
	return &doc, nil
}
