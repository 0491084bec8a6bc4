package domain

import "strings"

// Subject is a course of study that tasks and classes belong to.
type Subject struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// NewSubject creates a Subject with a fresh ID.
// The name is trimmed and must not be empty. Colors are display tokens and are
// stored as given.
func NewSubject(name, color string) (*Subject, error) {
	subject := &Subject{
		ID:    NewID(),
		Name:  strings.TrimSpace(name),
		Color: strings.TrimSpace(color),
	}

	if err := subject.Validate(); err != nil {
		return nil, err
	}

	return subject, nil
}

// Validate checks that the subject has an ID and a name.
func (s *Subject) Validate() error {
	if s.ID.IsZero() {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if strings.TrimSpace(s.Name) == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyName)
	}
	return nil
}
