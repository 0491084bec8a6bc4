package store

import (
	"context"
	"sync"
)

// RecordKey is the fixed key the planner document is stored under.
const RecordKey = "study_planner_data"

// RecordStore holds opaque payloads by key.
// Implementations must overwrite the whole payload on Write.
type RecordStore interface {
	// Read returns the payload stored under key.
	// Returns ErrRecordNotFound if no payload exists.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write replaces the payload stored under key.
	Write(ctx context.Context, key string, payload []byte) error

	// Delete removes the payload stored under key.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// MemoryRecords is an in-process RecordStore. Its contents do not survive
// a restart.
type MemoryRecords struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryRecords creates an empty MemoryRecords.
func NewMemoryRecords() *MemoryRecords {
	return &MemoryRecords{records: make(map[string][]byte)}
}

// Read implements RecordStore.
func (m *MemoryRecords) Read(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	payload, ok := m.records[key]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return append([]byte(nil), payload...), nil
}

// Write implements RecordStore.
func (m *MemoryRecords) Write(ctx context.Context, key string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[key] = append([]byte(nil), payload...)
	return nil
}

// Delete implements RecordStore.
func (m *MemoryRecords) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, key)
	return nil
}
