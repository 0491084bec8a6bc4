package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ID identifies a subject, task or schedule entry within its collection.
// The zero value means "no reference".
type ID string

// NewID returns a fresh identifier. UUIDv7 values are time ordered, so a new
// ID sorts after every ID generated earlier by this process.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.NewString())
	}
	return ID(id.String())
}

// ParseID trims s and rejects blank identifiers.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", NewValidationError("id", "is required", ErrInvalidID)
	}
	return ID(s), nil
}

// IsZero reports whether the ID is empty.
func (id ID) IsZero() bool { return id == "" }

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts strings, numbers and null. Older records used
// millisecond timestamps as numeric ids and stored subject references as
// strings, so both forms decode to the same ID.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("%w: id must be a string or number", ErrInvalidFormat)
	}
	*id = ID(n.String())
	return nil
}

// DateLayout is the wire format of a calendar date.
const DateLayout = "2006-01-02"

// Date is a calendar date without time of day or zone.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns the normalised date for y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return DateOf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{year: y, month: m, day: d}
}

// ParseDate parses a "YYYY-MM-DD" date. Full RFC 3339 timestamps are also
// accepted and reduced to their UTC date.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DateOf(t.UTC()), nil
	}
	return Date{}, fmt.Errorf("%w: date %q must look like %s", ErrInvalidFormat, s, DateLayout)
}

// IsZero reports whether d is unset.
func (d Date) IsZero() bool { return d == Date{} }

// Time returns UTC midnight at the start of d.
func (d Date) Time() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1. Unset dates sort after every set date.
func (d Date) Compare(o Date) int {
	switch {
	case d == o:
		return 0
	case d.IsZero():
		return 1
	case o.IsZero():
		return -1
	}
	return d.Time().Compare(o.Time())
}

// Before reports whether d sorts before o.
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Time().Format(DateLayout)
}

// MarshalJSON encodes the date as "YYYY-MM-DD", or "" when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes "YYYY-MM-DD". Empty strings and null leave the date unset.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: date must be a string", ErrInvalidFormat)
	}
	if strings.TrimSpace(s) == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Weekday is the English name of a day of the week.
type Weekday string

// Days of the week.
const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the days in canonical order, Monday first.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday matches s case-insensitively against the day names.
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, day := range Week {
		if strings.EqualFold(s, string(day)) {
			return day, nil
		}
	}
	return "", fmt.Errorf("%w: unknown weekday %q", ErrInvalidFormat, s)
}

// WeekdayOf returns the weekday of t in t's location.
func WeekdayOf(t time.Time) Weekday {
	// time.Weekday counts from Sunday.
	return Week[(int(t.Weekday())+6)%7]
}

// Index returns the position of w in Week, or -1 for an unknown name.
func (w Weekday) Index() int {
	for i, day := range Week {
		if day == w {
			return i
		}
	}
	return -1
}

// Valid reports whether w is one of the seven day names.
func (w Weekday) Valid() bool { return w.Index() >= 0 }

// ClockLayout is the wire format of a time of day.
const ClockLayout = "15:04"

// ClockTime is a zero-padded "HH:MM" time of day. The fixed width makes
// string comparison match chronological order.
type ClockTime string

// ParseClockTime parses and zero-pads a time of day, so "9:05" becomes "09:05".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: time %q must look like HH:MM", ErrInvalidFormat, s)
	}
	return ClockTime(t.Format(ClockLayout)), nil
}

func (c ClockTime) String() string { return string(c) }

// Minutes is a duration in whole minutes.
type Minutes int

// UnmarshalJSON accepts numbers and numeric strings; older records stored
// the raw form value.
func (m *Minutes) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			*m = 0
			return nil
		}
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return fmt.Errorf("%w: duration %q is not a number", ErrInvalidFormat, raw)
	}
	*m = Minutes(int(f))
	return nil
}

// Theme is the colour scheme preference.
type Theme string

// Supported themes.
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

// ParseTheme accepts "dark" or "light" in any case.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	}
	return "", fmt.Errorf("%w: theme %q must be dark or light", ErrInvalidFormat, s)
}

// Toggle returns the opposite theme. Anything other than dark toggles to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
