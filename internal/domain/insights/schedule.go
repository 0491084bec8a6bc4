package insights

import (
	"slices"
	"strings"

	"github.com/phrazzld/study-planner/internal/domain"
)

// DaySchedule holds one weekday's classes ordered by time.
type DaySchedule struct {
	Day     domain.Weekday         `json:"day"`
	Entries []domain.ScheduleEntry `json:"entries"`
}

// DaySchedules is a timetable in Monday to Sunday order.
type DaySchedules []DaySchedule

// For returns the entries scheduled on day and whether the day has any.
func (s DaySchedules) For(day domain.Weekday) ([]domain.ScheduleEntry, bool) {
	for _, d := range s {
		if d.Day == day {
			return d.Entries, true
		}
	}
	return nil, false
}

// Days lists the weekdays present in the timetable.
func (s DaySchedules) Days() []domain.Weekday {
	days := make([]domain.Weekday, 0, len(s))
	for _, d := range s {
		days = append(days, d.Day)
	}
	return days
}

// TodaysSchedule returns the classes on today ordered by start time.
func TodaysSchedule(doc *domain.Document, today domain.Weekday) []domain.ScheduleEntry {
	entries := make([]domain.ScheduleEntry, 0)
	for _, e := range doc.Schedule {
		if e.Day == today {
			entries = append(entries, e)
		}
	}
	sortByTime(entries)
	return entries
}

// ScheduleByDay groups classes by weekday. Days without classes are left out.
func ScheduleByDay(doc *domain.Document) DaySchedules {
	var week DaySchedules
	for _, day := range domain.Week {
		entries := TodaysSchedule(doc, day)
		if len(entries) == 0 {
			continue
		}
		week = append(week, DaySchedule{Day: day, Entries: entries})
	}
	if week == nil {
		week = DaySchedules{}
	}
	return week
}

// "HH:MM" is fixed width, so string order is chronological.
func sortByTime(entries []domain.ScheduleEntry) {
	slices.SortStableFunc(entries, func(a, b domain.ScheduleEntry) int {
		return strings.Compare(string(a.Time), string(b.Time))
	})
}

// ScheduledClass is a schedule entry decorated for display.
type ScheduledClass struct {
	domain.ScheduleEntry
	Subject SubjectRef `json:"subject"`
}

// DecorateClasses resolves each entry's subject. Entries whose subject is
// missing are shown under UnknownSubjectName.
func DecorateClasses(doc *domain.Document, entries []domain.ScheduleEntry) []ScheduledClass {
	classes := make([]ScheduledClass, 0, len(entries))
	for _, e := range entries {
		classes = append(classes, ScheduledClass{
			ScheduleEntry: e,
			Subject:       ResolveSubject(doc, e.SubjectID, UnknownSubjectName),
		})
	}
	return classes
}
