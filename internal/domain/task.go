package domain

import (
	"errors"
	"strings"
)

// Task validation errors
var (
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")
	ErrMissingDueDate = errors.New("task due date is required")
)

// Task is a piece of work with a due date, optionally tied to a Subject.
// SubjectID may be empty or reference a subject that no longer exists;
// readers treat both as an unknown subject.
type Task struct {
	ID          ID     `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	SubjectID   ID     `json:"subjectId"`
	DueDate     Date   `json:"dueDate"`
	Completed   bool   `json:"completed"`
}

// NewTask creates an incomplete Task with a fresh ID.
// Whether subjectID refers to an existing subject is not checked.
func NewTask(title, description string, subjectID ID, dueDate Date) (*Task, error) {
	task := &Task{
		ID:          NewID(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		SubjectID:   subjectID,
		DueDate:     dueDate,
		Completed:   false,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the task has an ID, a title and a due date.
func (t *Task) Validate() error {
	if t.ID.IsZero() {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(t.Title) == "" {
		return NewValidationError("title", "cannot be empty", ErrEmptyTaskTitle)
	}
	if t.DueDate.IsZero() {
		return NewValidationError("dueDate", "is required", ErrMissingDueDate)
	}
	return nil
}

// Toggle flips the completion flag.
func (t *Task) Toggle() {
	t.Completed = !t.Completed
}
