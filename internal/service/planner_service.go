package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/platform/logger"
	"github.com/phrazzld/study-planner/internal/store"
)

// Operation names used in logs, errors and metrics.
const (
	OpAddSubject          = "add_subject"
	OpDeleteSubject       = "delete_subject"
	OpAddTask             = "add_task"
	OpToggleTask          = "toggle_task"
	OpDeleteTask          = "delete_task"
	OpAddScheduleEntry    = "add_schedule_entry"
	OpDeleteScheduleEntry = "delete_schedule_entry"
	OpSetTheme            = "set_theme"
	OpToggleTheme         = "toggle_theme"
	OpSetUserName         = "set_user_name"
	OpImport              = "import"
	OpReset               = "reset"
)

// Mutation results reported to the Recorder.
const (
	resultOK      = "ok"
	resultNoop    = "noop"
	resultInvalid = "invalid"
	resultError   = "error"
)

// DocumentStore defines the persistence interface for the service layer.
type DocumentStore interface {
	// Load returns the persisted document, or the default document if none exists.
	Load(ctx context.Context) (*domain.Document, error)

	// Save overwrites the persisted document.
	Save(ctx context.Context, doc *domain.Document) error

	// Reset erases the persisted document.
	Reset(ctx context.Context) error
}

// Recorder receives operational measurements. *metrics.Metrics implements it.
type Recorder interface {
	ObserveMutation(operation, result string)
	ObservePersistence(operation string, elapsed time.Duration)
	SetDocumentSize(subjects, tasks, schedule int)
}

type noopRecorder struct{}

func (noopRecorder) ObserveMutation(string, string)           {}
func (noopRecorder) ObservePersistence(string, time.Duration) {}
func (noopRecorder) SetDocumentSize(int, int, int)            {}

// PlannerService provides every planner operation.
type PlannerService interface {
	// Snapshot returns a deep copy of the current document.
	Snapshot(ctx context.Context) *domain.Document

	// AddSubject appends a new subject. Duplicate names are allowed.
	AddSubject(ctx context.Context, name, color string) (*domain.Subject, error)

	// DeleteSubject removes a subject and every task and schedule entry
	// referencing it in one step. Unknown ids are a no-op.
	DeleteSubject(ctx context.Context, id domain.ID) error

	// AddTask appends an incomplete task. The subject is not required to exist.
	AddTask(
		ctx context.Context,
		title, description string,
		subjectID domain.ID,
		dueDate domain.Date,
	) (*domain.Task, error)

	// ToggleTask flips a task's completion. Unknown ids are a no-op.
	ToggleTask(ctx context.Context, id domain.ID) error

	// DeleteTask removes a task. Unknown ids are a no-op.
	DeleteTask(ctx context.Context, id domain.ID) error

	// AddScheduleEntry appends a weekly class.
	AddScheduleEntry(
		ctx context.Context,
		subjectID domain.ID,
		day, clock string,
		duration domain.Minutes,
	) (*domain.ScheduleEntry, error)

	// DeleteScheduleEntry removes a class. Unknown ids are a no-op.
	DeleteScheduleEntry(ctx context.Context, id domain.ID) error

	// SetTheme sets the theme.
	SetTheme(ctx context.Context, theme domain.Theme) error

	// ToggleTheme switches between dark and light and returns the new theme.
	ToggleTheme(ctx context.Context) (domain.Theme, error)

	// SetUserName sets the display name. Blank names are rejected.
	SetUserName(ctx context.Context, name string) error

	// Import replaces the whole document.
	Import(ctx context.Context, doc *domain.Document) error

	// Reset erases the persisted document and starts over from the default.
	Reset(ctx context.Context) error
}

// Option configures a PlannerService.
type Option func(*plannerServiceImpl)

// WithRecorder reports mutations and persistence latency to r.
func WithRecorder(r Recorder) Option {
	return func(s *plannerServiceImpl) {
		if r != nil {
			s.recorder = r
		}
	}
}

// WithFailOnCorrupt makes NewPlannerService return the ErrCorruptState error
// instead of starting from the default document.
func WithFailOnCorrupt(fail bool) Option {
	return func(s *plannerServiceImpl) {
		s.failOnCorrupt = fail
	}
}

// plannerServiceImpl implements the PlannerService interface
type plannerServiceImpl struct {
	mu            sync.Mutex
	store         DocumentStore
	doc           *domain.Document
	recorder      Recorder
	failOnCorrupt bool
	logger        *slog.Logger
}

// NewPlannerService loads the persisted document and returns a service that
// owns it. A corrupt record is replaced in memory by the default document and
// logged at ERROR, unless WithFailOnCorrupt is set. The record itself is left
// untouched until the next successful mutation.
func NewPlannerService(
	ctx context.Context,
	docStore DocumentStore,
	logger *slog.Logger,
	opts ...Option,
) (PlannerService, error) {
	if docStore == nil {
		return nil, domain.NewValidationError("docStore", "cannot be nil", domain.ErrValidation)
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	s := &plannerServiceImpl{
		store:    docStore,
		recorder: noopRecorder{},
		logger:   logger.With(slog.String("component", "planner_service")),
	}
	for _, opt := range opts {
		opt(s)
	}

	started := time.Now()
	doc, err := docStore.Load(ctx)
	s.recorder.ObservePersistence("load", time.Since(started))

	switch {
	case err == nil:
	case errors.Is(err, store.ErrCorruptState) && !s.failOnCorrupt:
		s.logger.Error("persisted document is corrupt, starting from defaults",
			slog.String("error", err.Error()))
		doc = domain.DefaultDocument()
	default:
		return nil, NewPlannerServiceError("load", "failed to load document", err)
	}

	s.doc = doc
	s.publishSize()

	s.logger.Info("planner document loaded",
		slog.Int("subjects", len(doc.Subjects)),
		slog.Int("tasks", len(doc.Tasks)),
		slog.Int("schedule", len(doc.Schedule)))
	return s, nil
}

// Snapshot implements PlannerService.Snapshot
func (s *plannerServiceImpl) Snapshot(ctx context.Context) *domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// AddSubject implements PlannerService.AddSubject
func (s *plannerServiceImpl) AddSubject(ctx context.Context, name, color string) (*domain.Subject, error) {
	subject, err := domain.NewSubject(name, color)
	if err != nil {
		s.rejected(ctx, OpAddSubject, err)
		return nil, err
	}

	err = s.mutate(ctx, OpAddSubject, func(doc *domain.Document) (bool, error) {
		doc.Subjects = append(doc.Subjects, *subject)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return subject, nil
}

// DeleteSubject implements PlannerService.DeleteSubject
func (s *plannerServiceImpl) DeleteSubject(ctx context.Context, id domain.ID) error {
	return s.mutate(ctx, OpDeleteSubject, func(doc *domain.Document) (bool, error) {
		return doc.RemoveSubject(id), nil
	})
}

// AddTask implements PlannerService.AddTask
func (s *plannerServiceImpl) AddTask(
	ctx context.Context,
	title, description string,
	subjectID domain.ID,
	dueDate domain.Date,
) (*domain.Task, error) {
	task, err := domain.NewTask(title, description, subjectID, dueDate)
	if err != nil {
		s.rejected(ctx, OpAddTask, err)
		return nil, err
	}

	err = s.mutate(ctx, OpAddTask, func(doc *domain.Document) (bool, error) {
		doc.Tasks = append(doc.Tasks, *task)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// ToggleTask implements PlannerService.ToggleTask
func (s *plannerServiceImpl) ToggleTask(ctx context.Context, id domain.ID) error {
	return s.mutate(ctx, OpToggleTask, func(doc *domain.Document) (bool, error) {
		i := doc.TaskIndex(id)
		if i < 0 {
			return false, nil
		}
		doc.Tasks[i].Toggle()
		return true, nil
	})
}

// DeleteTask implements PlannerService.DeleteTask
func (s *plannerServiceImpl) DeleteTask(ctx context.Context, id domain.ID) error {
	return s.mutate(ctx, OpDeleteTask, func(doc *domain.Document) (bool, error) {
		return doc.RemoveTask(id), nil
	})
}

// AddScheduleEntry implements PlannerService.AddScheduleEntry
func (s *plannerServiceImpl) AddScheduleEntry(
	ctx context.Context,
	subjectID domain.ID,
	day, clock string,
	duration domain.Minutes,
) (*domain.ScheduleEntry, error) {
	entry, err := domain.NewScheduleEntry(subjectID, day, clock, duration)
	if err != nil {
		s.rejected(ctx, OpAddScheduleEntry, err)
		return nil, err
	}

	err = s.mutate(ctx, OpAddScheduleEntry, func(doc *domain.Document) (bool, error) {
		doc.Schedule = append(doc.Schedule, *entry)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// DeleteScheduleEntry implements PlannerService.DeleteScheduleEntry
func (s *plannerServiceImpl) DeleteScheduleEntry(ctx context.Context, id domain.ID) error {
	return s.mutate(ctx, OpDeleteScheduleEntry, func(doc *domain.Document) (bool, error) {
		return doc.RemoveScheduleEntry(id), nil
	})
}

// SetTheme implements PlannerService.SetTheme
func (s *plannerServiceImpl) SetTheme(ctx context.Context, theme domain.Theme) error {
	theme, err := domain.ParseTheme(string(theme))
	if err != nil {
		verr := domain.NewValidationError("theme", "must be dark or light", err)
		s.rejected(ctx, OpSetTheme, verr)
		return verr
	}

	return s.mutate(ctx, OpSetTheme, func(doc *domain.Document) (bool, error) {
		if doc.Theme == theme {
			return false, nil
		}
		doc.Theme = theme
		return true, nil
	})
}

// ToggleTheme implements PlannerService.ToggleTheme
func (s *plannerServiceImpl) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	var theme domain.Theme
	err := s.mutate(ctx, OpToggleTheme, func(doc *domain.Document) (bool, error) {
		doc.Theme = doc.Theme.Toggle()
		theme = doc.Theme
		return true, nil
	})
	if err != nil {
		return "", err
	}
	return theme, nil
}

// SetUserName implements PlannerService.SetUserName
func (s *plannerServiceImpl) SetUserName(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		verr := domain.NewValidationError("user", "cannot be empty", domain.ErrEmptyName)
		s.rejected(ctx, OpSetUserName, verr)
		return verr
	}

	return s.mutate(ctx, OpSetUserName, func(doc *domain.Document) (bool, error) {
		if doc.User == name {
			return false, nil
		}
		doc.User = name
		return true, nil
	})
}

// Import implements PlannerService.Import
func (s *plannerServiceImpl) Import(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		verr := domain.NewValidationError("document", "is required", nil)
		s.rejected(ctx, OpImport, verr)
		return verr
	}
	if err := doc.Validate(); err != nil {
		s.rejected(ctx, OpImport, err)
		return err
	}

	imported := doc.Clone()
	return s.mutate(ctx, OpImport, func(current *domain.Document) (bool, error) {
		*current = *imported
		return true, nil
	})
}

// Reset implements PlannerService.Reset
func (s *plannerServiceImpl) Reset(ctx context.Context) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	started := time.Now()
	err := s.store.Reset(ctx)
	s.recorder.ObservePersistence("reset", time.Since(started))
	if err != nil {
		s.recorder.ObserveMutation(OpReset, resultError)
		log.Error("failed to reset document", slog.String("error", err.Error()))
		return NewPlannerServiceError(OpReset, "failed to erase document", err)
	}

	s.doc = domain.DefaultDocument()
	s.publishSize()
	s.recorder.ObserveMutation(OpReset, resultOK)
	log.Info("planner reset to defaults")
	return nil
}

// mutate applies fn to a copy of the current document, saves the copy and
// then makes it current. fn reports whether it changed anything; unchanged
// documents are not saved.
func (s *plannerServiceImpl) mutate(
	ctx context.Context,
	operation string,
	fn func(doc *domain.Document) (bool, error),
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	next := s.doc.Clone()
	changed, err := fn(next)
	if err != nil {
		s.recorder.ObserveMutation(operation, resultInvalid)
		return err
	}
	if !changed {
		s.recorder.ObserveMutation(operation, resultNoop)
		log.Debug("mutation changed nothing", slog.String("operation", operation))
		return nil
	}

	started := time.Now()
	err = s.store.Save(ctx, next)
	s.recorder.ObservePersistence("save", time.Since(started))
	if err != nil {
		s.recorder.ObserveMutation(operation, resultError)
		log.Error("failed to persist document",
			slog.String("operation", operation),
			slog.String("error", err.Error()))
		return NewPlannerServiceError(operation, "failed to persist document", err)
	}

	s.doc = next
	s.publishSize()
	s.recorder.ObserveMutation(operation, resultOK)
	log.Debug("mutation persisted", slog.String("operation", operation))
	return nil
}

// rejected records a validation failure that happened before mutate was reached.
func (s *plannerServiceImpl) rejected(ctx context.Context, operation string, err error) {
	s.recorder.ObserveMutation(operation, resultInvalid)
	logger.FromContextOrDefault(ctx, s.logger).Debug("mutation rejected",
		slog.String("operation", operation),
		slog.String("reason", err.Error()))
}

func (s *plannerServiceImpl) publishSize() {
	s.recorder.SetDocumentSize(len(s.doc.Subjects), len(s.doc.Tasks), len(s.doc.Schedule))
}

var _ PlannerService = (*plannerServiceImpl)(nil)
