package insights

import (
	"math"

	"github.com/phrazzld/study-planner/internal/domain"
)

// Fallback names for references to missing subjects.
const (
	UnknownSubjectName = "Unknown"
	GeneralSubjectName = "General"
)

// SubjectRef is the display form of a subject reference.
type SubjectRef struct {
	ID    domain.ID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Known bool      `json:"known"`
}

// ResolveSubject looks up id in doc. Missing or empty references resolve to
// fallback with no color.
func ResolveSubject(doc *domain.Document, id domain.ID, fallback string) SubjectRef {
	subject, ok := doc.FindSubject(id)
	if !ok {
		return SubjectRef{ID: id, Name: fallback}
	}
	return SubjectRef{ID: subject.ID, Name: subject.Name, Color: subject.Color, Known: true}
}

// Stats are the dashboard counters.
type Stats struct {
	SubjectCount   int `json:"subjectCount"`
	PendingCount   int `json:"pendingCount"`
	CompletedCount int `json:"completedCount"`
}

// DashboardStats counts subjects and pending and completed tasks.
func DashboardStats(doc *domain.Document) Stats {
	stats := Stats{SubjectCount: len(doc.Subjects)}
	for _, t := range doc.Tasks {
		if t.Completed {
			stats.CompletedCount++
		} else {
			stats.PendingCount++
		}
	}
	return stats
}

// CompletionPercentage returns the rounded share of completed tasks, 0..100.
// It is 0 when there are no tasks.
func CompletionPercentage(doc *domain.Document) int {
	total := len(doc.Tasks)
	if total == 0 {
		return 0
	}
	return percent(DashboardStats(doc).CompletedCount, total)
}

// percent returns part/whole as a percentage rounded half up.
func percent(part, whole int) int {
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// SubjectTaskCount is one bar of the tasks-by-subject chart.
type SubjectTaskCount struct {
	SubjectID domain.ID `json:"subjectId"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Count     int       `json:"count"`
	// Share is Count relative to the largest count, 0..100.
	Share int `json:"share"`
}

// SubjectTaskCounts counts tasks per subject in subject order. Subjects
// without tasks are left out.
func SubjectTaskCounts(doc *domain.Document) []SubjectTaskCount {
	perSubject := tasksPerSubject(doc)

	counts := make([]SubjectTaskCount, 0, len(doc.Subjects))
	maxCount := 1
	for _, s := range doc.Subjects {
		n := perSubject[s.ID]
		if n == 0 {
			continue
		}
		maxCount = max(maxCount, n)
		counts = append(counts, SubjectTaskCount{
			SubjectID: s.ID,
			Name:      s.Name,
			Color:     s.Color,
			Count:     n,
		})
	}

	for i := range counts {
		counts[i].Share = percent(counts[i].Count, maxCount)
	}
	return counts
}

// SubjectSummary is a subject with the number of tasks and classes that
// reference it.
type SubjectSummary struct {
	domain.Subject
	TaskCount  int `json:"taskCount"`
	ClassCount int `json:"classCount"`
}

// SubjectSummaries lists every subject in stored order with its task and
// class counts.
func SubjectSummaries(doc *domain.Document) []SubjectSummary {
	tasks := tasksPerSubject(doc)
	classes := make(map[domain.ID]int, len(doc.Subjects))
	for _, e := range doc.Schedule {
		classes[e.SubjectID]++
	}

	summaries := make([]SubjectSummary, 0, len(doc.Subjects))
	for _, s := range doc.Subjects {
		summaries = append(summaries, SubjectSummary{
			Subject:    s,
			TaskCount:  tasks[s.ID],
			ClassCount: classes[s.ID],
		})
	}
	return summaries
}

func tasksPerSubject(doc *domain.Document) map[domain.ID]int {
	counts := make(map[domain.ID]int, len(doc.Subjects))
	for _, t := range doc.Tasks {
		counts[t.SubjectID]++
	}
	return counts
}
