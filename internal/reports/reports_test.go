package reports

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/store"
)

type staticSource store.Snapshot

func (s staticSource) Snapshot() store.Snapshot { return store.Snapshot(s) }

// Saturday 2024-06-15.
var day = time.Date(2024, 6, 15, 15, 0, 0, 0, time.UTC)

func fixture() staticSource {
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	return staticSource{
		Tasks: []store.Task{
			{ID: "1", Title: "Write report", DueDate: day, Priority: store.PriorityHigh, Category: store.CategoryWork, CreatedAt: day.AddDate(0, 0, -1)},
			{ID: "2", Title: "Gym", DueDate: day, Priority: store.PriorityMedium, Category: store.CategoryHealth, Completed: true, CreatedAt: day},
			{ID: "3", Title: "Plan trip", DueDate: day.AddDate(0, 0, 2), Priority: store.PriorityLow, Category: store.CategoryPersonal, CreatedAt: day.AddDate(0, 0, -30)},
			{ID: "4", Title: "Read paper", DueDate: day.AddDate(0, 0, -1), Priority: store.PriorityLow, Category: store.CategoryLearning, Completed: true, CreatedAt: day.AddDate(0, 0, -2)},
		},
		Habits: []store.Habit{
			{ID: "h1", Title: "Water", Streak: 3, CompletedDates: []string{"2024-06-14", "2024-06-15"}, Category: store.CategoryHealth},
			{ID: "h2", Title: "Read | Write", Streak: 0, CompletedDates: []string{}, Category: store.CategoryLearning},
		},
		Projects: []store.Project{
			{ID: "p1", Title: "Launch", Progress: 40, DueDate: &due, Category: store.CategoryWork},
			{ID: "p2", Title: "Garden", Progress: 100, Category: store.CategoryPersonal},
		},
	}
}

func newGen(opts ...Option) *Generator {
	base := []Option{WithClock(func() time.Time { return day })}
	return NewGenerator(fixture(), append(base, opts...)...)
}

func TestGenerateDaily(t *testing.T) {
	r := newGen(WithHabitDays(3)).GenerateDaily(day)

	assert.Equal(t, "2024-06-15", r.Date)
	require.Len(t, r.Focus, 1)
	assert.Equal(t, "1", r.Focus[0].ID)
	require.Len(t, r.CompletedToday, 1)
	assert.Equal(t, "2", r.CompletedToday[0].ID)
	require.Len(t, r.Upcoming, 1)
	assert.Equal(t, "3", r.Upcoming[0].ID)

	require.Len(t, r.Habits, 2)
	assert.True(t, r.Habits[0].Done)
	require.Len(t, r.Habits[0].Recent, 3)
	assert.Equal(t, "2024-06-13", r.Habits[0].Recent[0].Date)
	assert.True(t, r.Habits[0].Recent[1].Done)
	assert.False(t, r.Habits[1].Done)

	require.Len(t, r.Projects, 2)
	assert.Equal(t, "2024-06-01", r.Projects[0].DueDate)
	assert.True(t, r.Projects[0].Overdue)
	assert.Empty(t, r.Projects[1].DueDate)
	assert.False(t, r.Projects[1].Overdue)

	assert.Equal(t, 1, r.Stats.TodayPending)
	assert.NotEmpty(t, r.Quote)
}

func TestGenerateDaily_UpcomingLimit(t *testing.T) {
	src := fixture()
	for i := 0; i < 20; i++ {
		src.Tasks = append(src.Tasks, store.Task{ID: "x", DueDate: day.AddDate(0, 0, i+1)})
	}
	r := NewGenerator(src, WithUpcomingLimit(5)).GenerateDaily(day)
	assert.Len(t, r.Upcoming, 5)
}

func TestFormatDailyMarkdown(t *testing.T) {
	md := FormatDailyMarkdown(newGen(WithHabitDays(3)).GenerateDaily(day))

	for _, want := range []string{
		"# Daily Report: 2024-06-15",
		"## Today's Focus",
		"- [ ] Write report (High, Work, due 2024-06-15)",
		"## Completed Today",
		"- [x] Gym (Medium, Health, due 2024-06-15)",
		"- [ ] Plan trip (Low, Personal, due 2024-06-17)",
		"| Water | [x] | □■■ | 3 |",
		`| Read \| Write | [ ] | □□□ | 0 |`,
		"- **Launch** `████░░░░░░` 40% (due 2024-06-01, overdue)",
		"- **Garden** `██████████` 100%\n",
	} {
		assert.Contains(t, md, want)
	}
}

func TestFormatDailyMarkdown_Empty(t *testing.T) {
	md := FormatDailyMarkdown(NewGenerator(staticSource{}).GenerateDaily(day))
	assert.Contains(t, md, "_No tasks for today._")
	assert.Contains(t, md, "_No habits yet._")
	assert.Contains(t, md, "_No projects yet._")
	assert.NotContains(t, md, "Completed Today")
}

func TestGenerateWeekly(t *testing.T) {
	r := newGen().GenerateWeekly(day)

	// Sunday start.
	assert.Equal(t, "2024-06-09", r.StartDate)
	assert.Equal(t, "2024-06-15", r.EndDate)
	require.Len(t, r.Days, 7)
	assert.Equal(t, "Sunday", r.Days[0].DayOfWeek)

	sat := r.Days[6]
	assert.Equal(t, 2, sat.TasksDue)
	assert.Equal(t, 1, sat.TasksCompleted)
	assert.Equal(t, 1, sat.HabitsDone)
	assert.Equal(t, 2, sat.HabitsTotal)

	// Tasks 1, 2 and 4 were created within the week.
	assert.Equal(t, 3, r.TasksAdded)

	require.Len(t, r.Habits, 2)
	assert.Equal(t, 2, r.Habits[0].CompletedCount)
	assert.InDelta(t, 2.0/14*100, r.OverallRate, 0.001)

	assert.Equal(t, []CategoryCount{
		{Category: store.CategoryHealth, Count: 1},
		{Category: store.CategoryLearning, Count: 1},
	}, r.ByCategory)
}

func TestGenerateWeekly_MondayStart(t *testing.T) {
	r := newGen(WithWeekStart(ParseWeekStart("Monday"))).GenerateWeekly(day)
	assert.Equal(t, "2024-06-10", r.StartDate)
	assert.Equal(t, "2024-06-16", r.EndDate)
	assert.Equal(t, "Monday", r.Days[0].DayOfWeek)
}

func TestFormatWeeklyMarkdown(t *testing.T) {
	md := FormatWeeklyMarkdown(newGen().GenerateWeekly(day))
	assert.True(t, strings.HasPrefix(md, "# Weekly Report: 2024-06-09 to 2024-06-15\n"))
	assert.Contains(t, md, "| Sat | 2024-06-15 | 1/2 | 1/2 |")
	assert.Contains(t, md, "- Water: 2/7 (29%), streak 3")
	assert.Contains(t, md, "- Health: 1")
}

func TestFormatJSON(t *testing.T) {
	g := newGen()
	data, err := FormatDailyJSON(g.GenerateDaily(day))
	require.NoError(t, err)
	var daily map[string]any
	require.NoError(t, json.Unmarshal(data, &daily))
	assert.Equal(t, "2024-06-15", daily["date"])

	data, err = FormatWeeklyJSON(g.GenerateWeekly(day))
	require.NoError(t, err)
	var weekly map[string]any
	require.NoError(t, json.Unmarshal(data, &weekly))
	assert.Len(t, weekly["days"], 7)
}

func TestParseWeekStart(t *testing.T) {
	assert.Equal(t, time.Monday, ParseWeekStart(" MONDAY "))
	assert.Equal(t, time.Sunday, ParseWeekStart("sunday"))
	assert.Equal(t, time.Sunday, ParseWeekStart(""))
}
