package domain

import "errors"

// ErrNegativeDuration is returned for schedule entries with a negative duration.
var ErrNegativeDuration = errors.New("duration cannot be negative")

// ScheduleEntry is a recurring weekly class for a Subject.
type ScheduleEntry struct {
	ID        ID        `json:"id"`
	SubjectID ID        `json:"subjectId"`
	Day       Weekday   `json:"day"`
	Time      ClockTime `json:"time"`
	Duration  Minutes   `json:"duration"`
}

// NewScheduleEntry creates a ScheduleEntry with a fresh ID.
// day is matched case-insensitively and clock is normalised to "HH:MM".
func NewScheduleEntry(subjectID ID, day, clock string, duration Minutes) (*ScheduleEntry, error) {
	weekday, err := ParseWeekday(day)
	if err != nil {
		return nil, NewValidationError("day", "must be a weekday name", err)
	}

	at, err := ParseClockTime(clock)
	if err != nil {
		return nil, NewValidationError("time", "must be HH:MM", err)
	}

	entry := &ScheduleEntry{
		ID:        NewID(),
		SubjectID: subjectID,
		Day:       weekday,
		Time:      at,
		Duration:  duration,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks the entry's ID, day, time and duration. Time must already
// be in zero-padded "HH:MM" form.
func (e *ScheduleEntry) Validate() error {
	if e.ID.IsZero() {
		return NewValidationError("id", "is required", ErrInvalidID)
	}
	if !e.Day.Valid() {
		return NewValidationError("day", "must be a weekday name", ErrInvalidFormat)
	}
	if at, err := ParseClockTime(string(e.Time)); err != nil || at != e.Time {
		return NewValidationError("time", "must be HH:MM", ErrInvalidFormat)
	}
	if e.Duration < 0 {
		return NewValidationError("duration", "cannot be negative", ErrNegativeDuration)
	}
	return nil
}

// normalize canonicalises the day name and zero-pads the time when they
// parse. Values that do not parse are left for Validate to reject.
func (e *ScheduleEntry) normalize() {
	if day, err := ParseWeekday(string(e.Day)); err == nil {
		e.Day = day
	}
	if at, err := ParseClockTime(string(e.Time)); err == nil {
		e.Time = at
	}
}
