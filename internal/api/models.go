package api

import (
	"github.com/phrazzld/study-planner/internal/backup"
	"github.com/phrazzld/study-planner/internal/domain"
)

// AddSubjectRequest defines the payload for creating a subject.
type AddSubjectRequest struct {
	Name  string `json:"name"  validate:"required,max=200"`
	Color string `json:"color" validate:"max=64"`
}

// AddTaskRequest defines the payload for creating a task.
type AddTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=500"`
	Description string `json:"description" validate:"max=5000"`
	SubjectID   string `json:"subjectId"`
	// DueDate is "YYYY-MM-DD".
	DueDate string `json:"dueDate" validate:"required"`
}

// AddScheduleEntryRequest defines the payload for creating a weekly class.
type AddScheduleEntryRequest struct {
	SubjectID string `json:"subjectId"`
	Day       string `json:"day"  validate:"required"`
	Time      string `json:"time" validate:"required"`
	// Duration is in minutes. Numeric strings are accepted.
	Duration domain.Minutes `json:"duration" validate:"gte=0"`
}

// SetThemeRequest defines the payload for changing the theme.
type SetThemeRequest struct {
	Theme string `json:"theme" validate:"required,oneof=dark light"`
}

// SetUserRequest defines the payload for changing the display name.
type SetUserRequest struct {
	User string `json:"user" validate:"required,max=200"`
}

// ThemeResponse is returned by the theme endpoints.
type ThemeResponse struct {
	Theme domain.Theme `json:"theme"`
}

// BackupListResponse lists archived backups, oldest first.
type BackupListResponse struct {
	Backups []backup.Entry `json:"backups"`
}
