package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultUserName is the display name used until the user sets one.
const DefaultUserName = "Student"

// Document is the root aggregate holding all planner state. It is persisted
// and exported as one JSON record.
type Document struct {
	Subjects []Subject       `json:"subjects"`
	Tasks    []Task          `json:"tasks"`
	Schedule []ScheduleEntry `json:"schedule"`
	Theme    Theme           `json:"theme"`
	User     string          `json:"user"`
}

// NewDocument returns an empty Document with default settings.
func NewDocument() *Document {
	return &Document{
		Subjects: []Subject{},
		Tasks:    []Task{},
		Schedule: []ScheduleEntry{},
		Theme:    ThemeDark,
		User:     DefaultUserName,
	}
}

// DefaultDocument returns the Document used when nothing has been persisted
// yet: no tasks or classes and two seed subjects.
func DefaultDocument() *Document {
	doc := NewDocument()
	doc.Subjects = append(doc.Subjects,
		Subject{ID: "1", Name: "Mathematics", Color: "#ff007f"},
		Subject{ID: "2", Name: "Computer Science", Color: "#00d4ff"},
	)
	return doc
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	return &Document{
		Subjects: append([]Subject{}, d.Subjects...),
		Tasks:    append([]Task{}, d.Tasks...),
		Schedule: append([]ScheduleEntry{}, d.Schedule...),
		Theme:    d.Theme,
		User:     d.User,
	}
}

// FindSubject returns the subject with the given ID.
func (d *Document) FindSubject(id ID) (Subject, bool) {
	if id.IsZero() {
		return Subject{}, false
	}
	for _, s := range d.Subjects {
		if s.ID == id {
			return s, true
		}
	}
	return Subject{}, false
}

// TaskIndex returns the position of the task with the given ID, or -1.
func (d *Document) TaskIndex(id ID) int {
	for i, t := range d.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// RemoveSubject deletes a subject together with every task and schedule
// entry that references it. It reports whether anything was removed.
func (d *Document) RemoveSubject(id ID) bool {
	if id.IsZero() {
		return false
	}
	removed := false

	subjects := d.Subjects[:0]
	for _, s := range d.Subjects {
		if s.ID == id {
			removed = true
			continue
		}
		subjects = append(subjects, s)
	}

	tasks := d.Tasks[:0]
	for _, t := range d.Tasks {
		if t.SubjectID == id {
			removed = true
			continue
		}
		tasks = append(tasks, t)
	}

	schedule := d.Schedule[:0]
	for _, e := range d.Schedule {
		if e.SubjectID == id {
			removed = true
			continue
		}
		schedule = append(schedule, e)
	}

	d.Subjects, d.Tasks, d.Schedule = subjects, tasks, schedule
	return removed
}

// RemoveTask deletes a task by ID and reports whether it existed.
func (d *Document) RemoveTask(id ID) bool {
	i := d.TaskIndex(id)
	if i < 0 {
		return false
	}
	d.Tasks = append(d.Tasks[:i], d.Tasks[i+1:]...)
	return true
}

// RemoveScheduleEntry deletes a schedule entry by ID and reports whether it existed.
func (d *Document) RemoveScheduleEntry(id ID) bool {
	for i, e := range d.Schedule {
		if e.ID == id {
			d.Schedule = append(d.Schedule[:i], d.Schedule[i+1:]...)
			return true
		}
	}
	return false
}

// Validate checks that every ID is present and unique within its collection
// and that every schedule entry has a weekday, an "HH:MM" time and a
// non-negative duration.
func (d *Document) Validate() error {
	if err := uniqueIDs("subjects", len(d.Subjects), func(i int) ID { return d.Subjects[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("tasks", len(d.Tasks), func(i int) ID { return d.Tasks[i].ID }); err != nil {
		return err
	}
	if err := uniqueIDs("schedule", len(d.Schedule), func(i int) ID { return d.Schedule[i].ID }); err != nil {
		return err
	}
	for i := range d.Schedule {
		if err := d.Schedule[i].Validate(); err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				verr.Field = fmt.Sprintf("schedule[%d].%s", i, verr.Field)
			}
			return err
		}
	}
	return nil
}

func uniqueIDs(field string, n int, idAt func(int) ID) error {
	seen := make(map[ID]struct{}, n)
	for i := 0; i < n; i++ {
		id := idAt(i)
		if id.IsZero() {
			return NewValidationError(fmt.Sprintf("%s[%d].id", field, i), "is required", ErrInvalidID)
		}
		if _, dup := seen[id]; dup {
			return NewValidationError(fmt.Sprintf("%s[%d].id", field, i), fmt.Sprintf("repeats %q", id), ErrDuplicateID)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// documentWire mirrors Document with optional fields so that each top-level
// field can be defaulted on its own.
type documentWire struct {
	Subjects *[]Subject       `json:"subjects"`
	Tasks    *[]Task          `json:"tasks"`
	Schedule *[]ScheduleEntry `json:"schedule"`
	Theme    *string          `json:"theme"`
	User     *string          `json:"user"`
}

// MarshalJSON writes empty collections as [] rather than null.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	out := plain(d)
	if out.Subjects == nil {
		out.Subjects = []Subject{}
	}
	if out.Tasks == nil {
		out.Tasks = []Task{}
	}
	if out.Schedule == nil {
		out.Schedule = []ScheduleEntry{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a record, defaulting absent, null or empty top-level
// fields: collections to empty, theme to dark and user to DefaultUserName.
// Unknown fields are ignored.
func (d *Document) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("%w: document must be a JSON object", ErrInvalidFormat)
	}

	var wire documentWire
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return err
	}

	doc := NewDocument()
	if wire.Subjects != nil && *wire.Subjects != nil {
		doc.Subjects = *wire.Subjects
	}
	if wire.Tasks != nil && *wire.Tasks != nil {
		doc.Tasks = *wire.Tasks
	}
	if wire.Schedule != nil && *wire.Schedule != nil {
		doc.Schedule = *wire.Schedule
		for i := range doc.Schedule {
			doc.Schedule[i].normalize()
		}
	}
	if wire.Theme != nil {
		if theme, err := ParseTheme(*wire.Theme); err == nil {
			doc.Theme = theme
		}
	}
	if wire.User != nil && strings.TrimSpace(*wire.User) != "" {
		doc.User = *wire.User
	}

	*d = *doc
	return nil
}
