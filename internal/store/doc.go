// Package store persists the planner Document as a single JSON record.
//
// DocumentStore is the persistence adapter: it encodes and decodes the
// Document and classifies failures as ErrPersistence or ErrCorruptState.
// The bytes themselves live in a RecordStore, a minimal key/value contract
// implemented by the memory backend in this package and by the file, sqlite,
// postgres and redis backends under internal/platform.
package store
