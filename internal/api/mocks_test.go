package api

import (
	"context"

	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/phrazzld/study-planner/internal/service"
)

// MockPlannerService is a mock implementation of service.PlannerService.
// Unset functions succeed and Snapshot returns the default document.
type MockPlannerService struct {
	SnapshotFn            func(ctx context.Context) *domain.Document
	AddSubjectFn          func(ctx context.Context, name, color string) (*domain.Subject, error)
	DeleteSubjectFn       func(ctx context.Context, id domain.ID) error
	AddTaskFn             func(ctx context.Context, title, description string, subjectID domain.ID, dueDate domain.Date) (*domain.Task, error)
	ToggleTaskFn          func(ctx context.Context, id domain.ID) error
	DeleteTaskFn          func(ctx context.Context, id domain.ID) error
	AddScheduleEntryFn    func(ctx context.Context, subjectID domain.ID, day, clock string, duration domain.Minutes) (*domain.ScheduleEntry, error)
	DeleteScheduleEntryFn func(ctx context.Context, id domain.ID) error
	SetThemeFn            func(ctx context.Context, theme domain.Theme) error
	ToggleThemeFn         func(ctx context.Context) (domain.Theme, error)
	SetUserNameFn         func(ctx context.Context, name string) error
	ImportFn              func(ctx context.Context, doc *domain.Document) error
	ResetFn               func(ctx context.Context) error
}

func (m *MockPlannerService) Snapshot(ctx context.Context) *domain.Document {
	if m.SnapshotFn != nil {
		return m.SnapshotFn(ctx)
	}
	return domain.DefaultDocument()
}

func (m *MockPlannerService) AddSubject(ctx context.Context, name, color string) (*domain.Subject, error) {
	if m.AddSubjectFn != nil {
		return m.AddSubjectFn(ctx, name, color)
	}
	return domain.NewSubject(name, color)
}

func (m *MockPlannerService) DeleteSubject(ctx context.Context, id domain.ID) error {
	if m.DeleteSubjectFn != nil {
		return m.DeleteSubjectFn(ctx, id)
	}
	return nil
}

func (m *MockPlannerService) AddTask(
	ctx context.Context,
	title, description string,
	subjectID domain.ID,
	dueDate domain.Date,
) (*domain.Task, error) {
	if m.AddTaskFn != nil {
		return m.AddTaskFn(ctx, title, description, subjectID, dueDate)
	}
	return domain.NewTask(title, description, subjectID, dueDate)
}

func (m *MockPlannerService) ToggleTask(ctx context.Context, id domain.ID) error {
	if m.ToggleTaskFn != nil {
		return m.ToggleTaskFn(ctx, id)
	}
	return nil
}

func (m *MockPlannerService) DeleteTask(ctx context.Context, id domain.ID) error {
	if m.DeleteTaskFn != nil {
		return m.DeleteTaskFn(ctx, id)
	}
	return nil
}

func (m *MockPlannerService) AddScheduleEntry(
	ctx context.Context,
	subjectID domain.ID,
	day, clock string,
	duration domain.Minutes,
) (*domain.ScheduleEntry, error) {
	if m.AddScheduleEntryFn != nil {
		return m.AddScheduleEntryFn(ctx, subjectID, day, clock, duration)
	}
	return domain.NewScheduleEntry(subjectID, day, clock, duration)
}

func (m *MockPlannerService) DeleteScheduleEntry(ctx context.Context, id domain.ID) error {
	if m.DeleteScheduleEntryFn != nil {
		return m.DeleteScheduleEntryFn(ctx, id)
	}
	return nil
}

func (m *MockPlannerService) SetTheme(ctx context.Context, theme domain.Theme) error {
	if m.SetThemeFn != nil {
		return m.SetThemeFn(ctx, theme)
	}
	return nil
}

func (m *MockPlannerService) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	if m.ToggleThemeFn != nil {
		return m.ToggleThemeFn(ctx)
	}
	return domain.ThemeLight, nil
}

func (m *MockPlannerService) SetUserName(ctx context.Context, name string) error {
	if m.SetUserNameFn != nil {
		return m.SetUserNameFn(ctx, name)
	}
	return nil
}

func (m *MockPlannerService) Import(ctx context.Context, doc *domain.Document) error {
	if m.ImportFn != nil {
		return m.ImportFn(ctx, doc)
	}
	return nil
}

func (m *MockPlannerService) Reset(ctx context.Context) error {
	if m.ResetFn != nil {
		return m.ResetFn(ctx)
	}
	return nil
}

var _ service.PlannerService = (*MockPlannerService)(nil)
