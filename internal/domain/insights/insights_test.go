package insights

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/phrazzld/study-planner/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) domain.Date {
	return domain.NewDate(y, m, d)
}

func plannerDocument() *domain.Document {
	doc := domain.NewDocument()
	doc.Subjects = []domain.Subject{
		{ID: "math", Name: "Math", Color: "#ff0000"},
		{ID: "bio", Name: "Biology", Color: "#00ff00"},
		{ID: "art", Name: "Art", Color: "#0000ff"},
	}
	doc.Tasks = []domain.Task{
		{ID: "t1", Title: "HW1", SubjectID: "math", DueDate: date(2030, time.January, 5)},
		{ID: "t2", Title: "HW2", SubjectID: "math", DueDate: date(2030, time.January, 1), Completed: true},
		{ID: "t3", Title: "Lab", SubjectID: "bio", DueDate: date(2030, time.January, 3)},
		{ID: "t4", Title: "Essay", SubjectID: "gone", DueDate: date(2030, time.January, 3)},
		{ID: "t5", Title: "Quiz", SubjectID: "math", DueDate: date(2030, time.January, 2)},
	}
	doc.Schedule = []domain.ScheduleEntry{
		{ID: "c1", SubjectID: "math", Day: domain.Monday, Time: "14:00", Duration: 60},
		{ID: "c2", SubjectID: "bio", Day: domain.Wednesday, Time: "10:00", Duration: 45},
		{ID: "c3", SubjectID: "gone", Day: domain.Monday, Time: "09:00", Duration: 30},
		{ID: "c4", SubjectID: "math", Day: domain.Sunday, Time: "08:00", Duration: 30},
	}
	return doc
}

func taskIDs(tasks []domain.Task) []domain.ID {
	ids := make([]domain.ID, 0, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
	}
	return ids
}

func entryTimes(entries []domain.ScheduleEntry) []domain.ClockTime {
	times := make([]domain.ClockTime, 0, len(entries))
	for _, e := range entries {
		times = append(times, e.Time)
	}
	return times
}

func TestDashboardStats(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Stats{}, DashboardStats(domain.NewDocument()))
	assert.Equal(t, Stats{SubjectCount: 3, PendingCount: 4, CompletedCount: 1}, DashboardStats(plannerDocument()))
}

func TestNewSubjectAndTaskScenario(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument()
	math, err := domain.NewSubject("Math", "#ff0000")
	require.NoError(t, err)
	doc.Subjects = append(doc.Subjects, *math)

	task, err := domain.NewTask("HW1", "", math.ID, date(2030, time.January, 1))
	require.NoError(t, err)
	doc.Tasks = append(doc.Tasks, *task)

	assert.Equal(t, 0, CompletionPercentage(doc))
	assert.Equal(t, Stats{SubjectCount: 1, PendingCount: 1, CompletedCount: 0}, DashboardStats(doc))
}

func TestCompletionPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		completed int
		pending   int
		want      int
	}{
		{name: "no tasks", want: 0},
		{name: "none done", pending: 3, want: 0},
		{name: "all done", completed: 4, want: 100},
		{name: "one of three", completed: 1, pending: 2, want: 33},
		{name: "two of three", completed: 2, pending: 1, want: 67},
		{name: "half rounds up", completed: 1, pending: 199, want: 1},
		{name: "one of eight", completed: 1, pending: 7, want: 13},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := domain.NewDocument()
			for i := 0; i < tc.completed+tc.pending; i++ {
				doc.Tasks = append(doc.Tasks, domain.Task{
					ID:        domain.ID(fmt.Sprint(i)),
					Title:     "t",
					DueDate:   date(2030, time.January, 1),
					Completed: i < tc.completed,
				})
			}
			assert.Equal(t, tc.want, CompletionPercentage(doc))
		})
	}
}

func TestCompletionPercentageBounds(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 200; i++ {
		doc := randomDocument(rng)
		pct := CompletionPercentage(doc)
		assert.GreaterOrEqual(t, pct, 0)
		assert.LessOrEqual(t, pct, 100)
		if len(doc.Tasks) == 0 {
			assert.Equal(t, 0, pct)
		}
	}
}

func TestTodaysSchedule(t *testing.T) {
	t.Parallel()

	doc := plannerDocument()

	monday := TodaysSchedule(doc, domain.Monday)
	assert.Equal(t, []domain.ClockTime{"09:00", "14:00"}, entryTimes(monday))

	assert.Empty(t, TodaysSchedule(doc, domain.Friday))
	assert.NotNil(t, TodaysSchedule(doc, domain.Friday))

	// Stored order is untouched.
	assert.Equal(t, domain.ID("c1"), doc.Schedule[0].ID)
}

func TestScheduleByDay(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument()
	doc.Schedule = []domain.ScheduleEntry{
		{ID: "a", SubjectID: "s", Day: domain.Monday, Time: "14:00", Duration: 60},
		{ID: "b", SubjectID: "s", Day: domain.Monday, Time: "09:00", Duration: 60},
	}

	week := ScheduleByDay(doc)
	monday, ok := week.For(domain.Monday)
	require.True(t, ok)
	assert.Equal(t, []domain.ClockTime{"09:00", "14:00"}, entryTimes(monday))

	_, ok = week.For(domain.Tuesday)
	assert.False(t, ok, "days without classes are absent")
	assert.Equal(t, []domain.Weekday{domain.Monday}, week.Days())
}

func TestScheduleByDayWeekOrder(t *testing.T) {
	t.Parallel()

	week := ScheduleByDay(plannerDocument())
	assert.Equal(t, []domain.Weekday{domain.Monday, domain.Wednesday, domain.Sunday}, week.Days())

	assert.Empty(t, ScheduleByDay(domain.NewDocument()))
	assert.NotNil(t, ScheduleByDay(domain.NewDocument()))
}

func TestUpcomingTasks(t *testing.T) {
	t.Parallel()

	doc := plannerDocument()

	assert.Equal(t, []domain.ID{"t5", "t3", "t4"}, taskIDs(UpcomingTasks(doc, DefaultUpcomingLimit)))
	assert.Equal(t, []domain.ID{"t5", "t3", "t4", "t1"}, taskIDs(UpcomingTasks(doc, 10)))
	assert.Equal(t, []domain.ID{"t5", "t3", "t4", "t1"}, taskIDs(UpcomingTasks(doc, 0)))
	assert.Equal(t, []domain.ID{"t5"}, taskIDs(UpcomingTasks(doc, 1)))
	assert.Empty(t, UpcomingTasks(domain.NewDocument(), DefaultUpcomingLimit))

	// Sorting a view never reorders stored tasks.
	assert.Equal(t, []domain.ID{"t1", "t2", "t3", "t4", "t5"}, taskIDs(doc.Tasks))
}

func TestUpcomingTasksStableForEqualDates(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		doc := randomDocument(rng)
		position := make(map[domain.ID]int, len(doc.Tasks))
		for i, task := range doc.Tasks {
			position[task.ID] = i
		}

		upcoming := UpcomingTasks(doc, 0)
		for j := 1; j < len(upcoming); j++ {
			prev, cur := upcoming[j-1], upcoming[j]
			require.False(t, cur.DueDate.Before(prev.DueDate), "tasks must be sorted by due date")
			if prev.DueDate == cur.DueDate {
				require.Less(t, position[prev.ID], position[cur.ID], "equal due dates keep insertion order")
			}
		}
	}
}

func TestUpcomingTasksUndatedLast(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument()
	doc.Tasks = []domain.Task{
		{ID: "undated", Title: "someday"},
		{ID: "dated", Title: "soon", DueDate: date(2030, time.January, 1)},
	}
	assert.Equal(t, []domain.ID{"dated", "undated"}, taskIDs(UpcomingTasks(doc, 0)))
}

func TestFilterTasks(t *testing.T) {
	t.Parallel()

	doc := plannerDocument()

	assert.Equal(t, []domain.ID{"t2", "t5", "t3", "t4", "t1"}, taskIDs(FilterTasks(doc, FilterAll)))
	assert.Equal(t, []domain.ID{"t5", "t3", "t4", "t1"}, taskIDs(FilterTasks(doc, FilterPending)))
	assert.Equal(t, []domain.ID{"t2"}, taskIDs(FilterTasks(doc, FilterCompleted)))
}

func TestParseTaskFilter(t *testing.T) {
	t.Parallel()

	for input, want := range map[string]TaskFilter{
		"":          FilterAll,
		"all":       FilterAll,
		"Pending":   FilterPending,
		"completed": FilterCompleted,
	} {
		got, err := ParseTaskFilter(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	_, err := ParseTaskFilter("done")
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)
}

func TestDueDateUrgency(t *testing.T) {
	t.Parallel()

	now := time.Date(2030, time.June, 10, 15, 30, 0, 0, time.UTC)
	today := domain.DateOf(now)

	tests := []struct {
		name string
		due  domain.Date
		want Urgency
	}{
		{name: "yesterday", due: today.AddDays(-1), want: UrgencyOverdue},
		{name: "earlier today", due: today, want: UrgencyOverdue},
		{name: "in 1 day", due: today.AddDays(1), want: UrgencyUrgent},
		{name: "in 2 days", due: today.AddDays(2), want: UrgencyUrgent},
		{name: "in 3 days", due: today.AddDays(3), want: UrgencyNormal},
		{name: "in 10 days", due: today.AddDays(10), want: UrgencyNormal},
		{name: "no due date", due: domain.Date{}, want: UrgencyNormal},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DueDateUrgency(tc.due, now))
		})
	}
}

func TestDueDateUrgencyBoundaries(t *testing.T) {
	t.Parallel()

	due := date(2030, time.June, 12)
	midnight := due.Time()

	assert.Equal(t, UrgencyUrgent, DueDateUrgency(due, midnight), "zero days left is urgent")
	assert.Equal(t, UrgencyOverdue, DueDateUrgency(due, midnight.Add(time.Second)))
	assert.Equal(t, UrgencyNormal, DueDateUrgency(due, midnight.Add(-UrgentWindow)), "exactly two days left is normal")
	assert.Equal(t, UrgencyUrgent, DueDateUrgency(due, midnight.Add(-UrgentWindow+time.Second)))

	assert.InDelta(t, 2.0, DaysLeft(due, midnight.Add(-UrgentWindow)), 1e-9)
	assert.InDelta(t, -0.5, DaysLeft(due, midnight.Add(12*time.Hour)), 1e-9)
}

func TestSubjectTaskCounts(t *testing.T) {
	t.Parallel()

	counts := SubjectTaskCounts(plannerDocument())
	assert.Equal(t, []SubjectTaskCount{
		{SubjectID: "math", Name: "Math", Color: "#ff0000", Count: 3, Share: 100},
		{SubjectID: "bio", Name: "Biology", Color: "#00ff00", Count: 1, Share: 33},
	}, counts)

	assert.Empty(t, SubjectTaskCounts(domain.NewDocument()))
	assert.NotNil(t, SubjectTaskCounts(domain.NewDocument()))
}

func TestDeleteSubjectScenario(t *testing.T) {
	t.Parallel()

	doc := domain.NewDocument()
	doc.Subjects = []domain.Subject{{ID: "math", Name: "Math", Color: "#ff0000"}}
	doc.Tasks = []domain.Task{
		{ID: "t1", Title: "HW1", SubjectID: "math", DueDate: date(2030, time.January, 1)},
		{ID: "t2", Title: "HW2", SubjectID: "math", DueDate: date(2030, time.January, 2)},
	}

	require.True(t, doc.RemoveSubject("math"))
	assert.Empty(t, doc.Tasks)
	assert.Empty(t, SubjectTaskCounts(doc))
}

func TestSubjectSummaries(t *testing.T) {
	t.Parallel()

	summaries := SubjectSummaries(plannerDocument())
	require.Len(t, summaries, 3)

	assert.Equal(t, domain.ID("math"), summaries[0].ID)
	assert.Equal(t, 3, summaries[0].TaskCount)
	assert.Equal(t, 2, summaries[0].ClassCount)

	assert.Equal(t, "Biology", summaries[1].Name)
	assert.Equal(t, 1, summaries[1].TaskCount)
	assert.Equal(t, 1, summaries[1].ClassCount)

	assert.Equal(t, "Art", summaries[2].Name)
	assert.Zero(t, summaries[2].TaskCount)
	assert.Zero(t, summaries[2].ClassCount)
}

func TestResolveSubject(t *testing.T) {
	t.Parallel()

	doc := plannerDocument()

	assert.Equal(t, SubjectRef{ID: "bio", Name: "Biology", Color: "#00ff00", Known: true},
		ResolveSubject(doc, "bio", UnknownSubjectName))
	assert.Equal(t, SubjectRef{ID: "gone", Name: UnknownSubjectName},
		ResolveSubject(doc, "gone", UnknownSubjectName))
	assert.Equal(t, SubjectRef{Name: GeneralSubjectName},
		ResolveSubject(doc, "", GeneralSubjectName))
}

func TestDashboard(t *testing.T) {
	t.Parallel()

	doc := plannerDocument()
	doc.User = "Ada"
	// 2030-01-07 is a Monday.
	now := time.Date(2030, time.January, 7, 8, 0, 0, 0, time.UTC)

	view := Dashboard(doc, now, DefaultUpcomingLimit)

	assert.Equal(t, date(2030, time.January, 7), view.Date)
	assert.Equal(t, domain.Monday, view.Today)
	assert.Equal(t, "Ada", view.User)
	assert.Equal(t, DashboardStats(doc), view.Stats)

	require.Len(t, view.Classes, 2)
	assert.Equal(t, domain.ClockTime("09:00"), view.Classes[0].Time)
	assert.Equal(t, UnknownSubjectName, view.Classes[0].Subject.Name)
	assert.Equal(t, "Math", view.Classes[1].Subject.Name)

	require.Len(t, view.Upcoming, 3)
	assert.Equal(t, domain.ID("t5"), view.Upcoming[0].ID)
	assert.Equal(t, UrgencyOverdue, view.Upcoming[0].Urgency)
	assert.Equal(t, GeneralSubjectName, view.Upcoming[2].Subject.Name)
}

func TestAnalytics(t *testing.T) {
	t.Parallel()

	view := Analytics(plannerDocument())
	assert.Equal(t, 5, view.TotalTasks)
	assert.Equal(t, 1, view.CompletedTasks)
	assert.Equal(t, 20, view.CompletionPercentage)
	assert.Len(t, view.SubjectTaskCounts, 2)

	empty := Analytics(domain.NewDocument())
	assert.Zero(t, empty.CompletionPercentage)
	assert.Empty(t, empty.SubjectTaskCounts)
}

func randomDocument(rng *rand.Rand) *domain.Document {
	doc := domain.NewDocument()
	subjects := rng.Intn(4)
	for i := 0; i < subjects; i++ {
		doc.Subjects = append(doc.Subjects, domain.Subject{ID: domain.ID(fmt.Sprintf("s%d", i)), Name: "S", Color: "#000"})
	}
	tasks := rng.Intn(12)
	for i := 0; i < tasks; i++ {
		doc.Tasks = append(doc.Tasks, domain.Task{
			ID:        domain.ID(fmt.Sprintf("t%d", i)),
			Title:     "T",
			SubjectID: domain.ID(fmt.Sprintf("s%d", rng.Intn(5))),
			DueDate:   date(2030, time.January, 1+rng.Intn(4)),
			Completed: rng.Intn(2) == 0,
		})
	}
	return doc
}
