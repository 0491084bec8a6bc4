package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all record backends.
var (
	// ErrRecordNotFound is returned by a RecordStore when no record exists
	// under the requested key.
	ErrRecordNotFound = errors.New("record not found")

	// ErrPersistence is returned when the document could not be written to
	// or read from durable storage. Check the wrapped error for the backend
	// failure.
	ErrPersistence = errors.New("persistence failed")

	// ErrCorruptState is returned when a persisted or imported record cannot
	// be decoded into a valid document.
	ErrCorruptState = errors.New("corrupt state")
)

// IsNotFoundError checks if the error is a missing record.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrRecordNotFound)
}

// IsPersistenceError checks if the error is a storage failure.
func IsPersistenceError(err error) bool {
	return errors.Is(err, ErrPersistence)
}

// IsCorruptStateError checks if the error is an undecodable record.
func IsCorruptStateError(err error) bool {
	return errors.Is(err, ErrCorruptState)
}

// StoreError is a custom error type for store-specific errors with additional context.
type StoreError struct {
	Entity    string // The entity type (e.g., "document")
	Operation string // The operation that failed (e.g., "save", "load")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for StoreError.
func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf(
			"%s operation on %s failed: %s: %v",
			e.Operation,
			e.Entity,
			e.Message,
			e.Err,
		)
	}
	return fmt.Sprintf("%s operation on %s failed: %s", e.Operation, e.Entity, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a new StoreError with the given entity, operation, message, and wrapped error.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{
		Entity:    entity,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// persistenceError classifies a backend failure as ErrPersistence while
// keeping the backend error reachable through errors.Is.
func persistenceError(operation, message string, err error) *StoreError {
	return NewStoreError("document", operation, message, fmt.Errorf("%w: %w", ErrPersistence, err))
}

// corruptError classifies a decoding failure as ErrCorruptState.
func corruptError(operation string, err error) *StoreError {
	return NewStoreError("document", operation, "record could not be decoded", fmt.Errorf("%w: %w", ErrCorruptState, err))
}
