package insights

import (
	"time"

	"github.com/phrazzld/study-planner/internal/domain"
)

// DashboardView is everything the dashboard shows at a given moment.
type DashboardView struct {
	Date     domain.Date      `json:"date"`
	Today    domain.Weekday   `json:"today"`
	User     string           `json:"user"`
	Theme    domain.Theme     `json:"theme"`
	Stats    Stats            `json:"stats"`
	Classes  []ScheduledClass `json:"todaysSchedule"`
	Upcoming []TaskItem       `json:"upcomingTasks"`
}

// Dashboard builds the dashboard for now. The weekday and date are taken in
// now's location.
func Dashboard(doc *domain.Document, now time.Time, limit int) DashboardView {
	today := domain.WeekdayOf(now)
	return DashboardView{
		Date:     domain.DateOf(now),
		Today:    today,
		User:     doc.User,
		Theme:    doc.Theme,
		Stats:    DashboardStats(doc),
		Classes:  DecorateClasses(doc, TodaysSchedule(doc, today)),
		Upcoming: DecorateTasks(doc, UpcomingTasks(doc, limit), now),
	}
}

// AnalyticsView holds the completion rate and the tasks-by-subject chart.
type AnalyticsView struct {
	TotalTasks           int                `json:"totalTasks"`
	CompletedTasks       int                `json:"completedTasks"`
	CompletionPercentage int                `json:"completionPercentage"`
	SubjectTaskCounts    []SubjectTaskCount `json:"subjectTaskCounts"`
}

// Analytics builds the analytics view.
func Analytics(doc *domain.Document) AnalyticsView {
	return AnalyticsView{
		TotalTasks:           len(doc.Tasks),
		CompletedTasks:       DashboardStats(doc).CompletedCount,
		CompletionPercentage: CompletionPercentage(doc),
		SubjectTaskCounts:    SubjectTaskCounts(doc),
	}
}
