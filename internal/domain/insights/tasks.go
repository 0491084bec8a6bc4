package insights

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/phrazzld/study-planner/internal/domain"
)

// DefaultUpcomingLimit is the number of tasks shown in the dashboard's
// upcoming list.
const DefaultUpcomingLimit = 3

// UrgentWindow is how close a due date must be to count as urgent.
const UrgentWindow = 48 * time.Hour

// Urgency classifies a due date relative to the current time.
type Urgency string

// Urgency levels
const (
	UrgencyNormal  Urgency = "normal"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyOverdue Urgency = "overdue"
)

// TaskFilter selects tasks by completion state.
type TaskFilter string

// Task filters
const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter accepts all, pending or completed. An empty string means all.
func ParseTaskFilter(s string) (TaskFilter, error) {
	switch f := TaskFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("%w: filter %q must be all, pending or completed", domain.ErrInvalidFormat, s)
}

func (f TaskFilter) keep(t domain.Task) bool {
	switch f {
	case FilterPending:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// DueDateUrgency classifies dueDate against now. The due instant is UTC
// midnight at the start of the date, so a task due today is already overdue
// once that midnight has passed. Tasks without a due date are never urgent.
func DueDateUrgency(dueDate domain.Date, now time.Time) Urgency {
	if dueDate.IsZero() {
		return UrgencyNormal
	}

	left := dueDate.Time().Sub(now)
	switch {
	case left < 0:
		return UrgencyOverdue
	case left < UrgentWindow:
		return UrgencyUrgent
	default:
		return UrgencyNormal
	}
}

// DaysLeft returns the fractional number of days from now until dueDate.
func DaysLeft(dueDate domain.Date, now time.Time) float64 {
	return dueDate.Time().Sub(now).Hours() / 24
}

// FilterTasks returns the tasks matching filter ordered by due date.
// Tasks sharing a due date keep their stored order.
func FilterTasks(doc *domain.Document, filter TaskFilter) []domain.Task {
	tasks := make([]domain.Task, 0, len(doc.Tasks))
	for _, t := range doc.Tasks {
		if filter.keep(t) {
			tasks = append(tasks, t)
		}
	}
	sortByDueDate(tasks)
	return tasks
}

// UpcomingTasks returns at most limit incomplete tasks, earliest due first.
// Tasks sharing a due date keep their stored order. A non-positive limit
// returns every incomplete task.
func UpcomingTasks(doc *domain.Document, limit int) []domain.Task {
	tasks := FilterTasks(doc, FilterPending)
	if limit > 0 && len(tasks) > limit {
		tasks = tasks[:limit]
	}
	return tasks
}

func sortByDueDate(tasks []domain.Task) {
	slices.SortStableFunc(tasks, func(a, b domain.Task) int {
		return a.DueDate.Compare(b.DueDate)
	})
}

// TaskItem is a task decorated for display.
type TaskItem struct {
	domain.Task
	Subject SubjectRef `json:"subject"`
	Urgency Urgency    `json:"urgency"`
}

// DecorateTasks resolves each task's subject and urgency. Tasks whose subject
// is missing are shown under GeneralSubjectName.
func DecorateTasks(doc *domain.Document, tasks []domain.Task, now time.Time) []TaskItem {
	items := make([]TaskItem, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, TaskItem{
			Task:    t,
			Subject: ResolveSubject(doc, t.SubjectID, GeneralSubjectName),
			Urgency: DueDateUrgency(t.DueDate, now),
		})
	}
	return items
}
