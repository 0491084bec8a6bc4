package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/stretchr/testify/mock"
)

var errDiskFull = errors.New("disk full")

// fakeDocumentStore is an in-memory DocumentStore that records every save
// and can be told to fail.
type fakeDocumentStore struct {
	mu        sync.Mutex
	loaded    *domain.Document
	loadErr   error
	saveErr   error
	resetErr  error
	saved     []*domain.Document
	resets    int
	saveCalls int
}

func newFakeDocumentStore(doc *domain.Document) *fakeDocumentStore {
	return &fakeDocumentStore{loaded: doc}
}

func (f *fakeDocumentStore) Load(ctx context.Context) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.loaded == nil {
		return domain.DefaultDocument(), nil
	}
	return f.loaded.Clone(), nil
}

func (f *fakeDocumentStore) Save(ctx context.Context, doc *domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, doc.Clone())
	return nil
}

func (f *fakeDocumentStore) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.resetErr != nil {
		return f.resetErr
	}
	f.resets++
	return nil
}

func (f *fakeDocumentStore) lastSaved() *domain.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saved) == 0 {
		return nil
	}
	return f.saved[len(f.saved)-1]
}

func (f *fakeDocumentStore) failSaves(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveErr = err
}

// MockRecorder mocks the Recorder interface
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) ObserveMutation(operation, result string) {
	m.Called(operation, result)
}

func (m *MockRecorder) ObservePersistence(operation string, elapsed time.Duration) {
	m.Called(operation, elapsed)
}

func (m *MockRecorder) SetDocumentSize(subjects, tasks, schedule int) {
	m.Called(subjects, tasks, schedule)
}
