package reports

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"planner/internal/store"
	"planner/internal/views"
)

// Source supplies the state a report is built from.
type Source interface {
	Snapshot() store.Snapshot
}

// Generator creates reports from a Source.
type Generator struct {
	src       Source
	now       func() time.Time
	habitDays int
	weekStart time.Weekday
	upcoming  int
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithHabitDays sets how many days of history daily reports show per habit.
func WithHabitDays(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.habitDays = n
		}
	}
}

// WithWeekStart sets the first day of a weekly report.
func WithWeekStart(d time.Weekday) Option {
	return func(g *Generator) { g.weekStart = d }
}

// WithUpcomingLimit caps the upcoming list in daily reports; 0 means no cap.
func WithUpcomingLimit(n int) Option {
	return func(g *Generator) { g.upcoming = n }
}

// NewGenerator creates a report generator.
func NewGenerator(src Source, opts ...Option) *Generator {
	g := &Generator{
		src:       src,
		now:       time.Now,
		habitDays: 7,
		weekStart: time.Sunday,
		upcoming:  10,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// ParseWeekStart accepts "sunday" or "monday" (any casing).
func ParseWeekStart(s string) time.Weekday {
	if strings.EqualFold(strings.TrimSpace(s), "monday") {
		return time.Monday
	}
	return time.Sunday
}

// GenerateDaily builds the report for the UTC day containing date.
func (g *Generator) GenerateDaily(date time.Time) *DailyReport {
	snap := g.src.Snapshot()
	day := startOfDay(date)

	upcoming := views.Upcoming(snap.Tasks, day)
	if g.upcoming > 0 && len(upcoming) > g.upcoming {
		upcoming = upcoming[:g.upcoming]
	}

	return &DailyReport{
		Date:           day.Format(store.DateLayout),
		Stats:          views.Summarize(snap, day),
		Focus:          views.TodayFocus(snap.Tasks, day),
		CompletedToday: views.CompletedToday(snap.Tasks, day),
		Upcoming:       upcoming,
		Habits:         g.habitStatuses(snap.Habits, day),
		Projects:       projectStatuses(snap.Projects, day),
		Quote:          views.Quote(day),
		GeneratedAt:    store.Timestamp(g.now()),
	}
}

func (g *Generator) habitStatuses(habits []store.Habit, day time.Time) []HabitStatus {
	days := views.LastDays(day, g.habitDays)
	out := make([]HabitStatus, 0, len(habits))
	for _, h := range habits {
		out = append(out, HabitStatus{
			ID:       h.ID,
			Title:    h.Title,
			Category: h.Category,
			Done:     views.DoneToday(h, day),
			Streak:   h.Streak,
			Recent:   views.HabitGrid(h, days),
		})
	}
	return out
}

func projectStatuses(projects []store.Project, day time.Time) []ProjectStatus {
	today := day.Format(store.DateLayout)
	out := make([]ProjectStatus, 0, len(projects))
	for _, p := range projects {
		ps := ProjectStatus{
			ID:       p.ID,
			Title:    p.Title,
			Category: p.Category,
			Progress: p.Progress,
		}
		if p.DueDate != nil {
			ps.DueDate = store.DateString(*p.DueDate)
			ps.Overdue = p.Progress < 100 && ps.DueDate < today
		}
		out = append(out, ps)
	}
	return out
}

// GenerateWeekly builds the report for the week containing date, aligned to
// the configured week start.
func (g *Generator) GenerateWeekly(date time.Time) *WeeklyReport {
	snap := g.src.Snapshot()
	start := startOfWeek(date, g.weekStart)
	end := start.AddDate(0, 0, 7)

	dates := make([]string, 7)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(store.DateLayout)
	}

	report := &WeeklyReport{
		StartDate:   dates[0],
		EndDate:     dates[6],
		GeneratedAt: store.Timestamp(g.now()),
	}

	categories := make(map[store.Category]int)
	for i, d := range dates {
		ds := DaySummary{
			Date:        d,
			DayOfWeek:   start.AddDate(0, 0, i).Weekday().String(),
			HabitsTotal: len(snap.Habits),
		}
		for _, t := range snap.Tasks {
			if !views.DueOn(t, d) {
				continue
			}
			ds.TasksDue++
			if t.Completed {
				ds.TasksCompleted++
				categories[t.Category]++
			}
		}
		for _, h := range snap.Habits {
			if h.DoneOn(d) {
				ds.HabitsDone++
			}
		}
		report.Days = append(report.Days, ds)
	}

	for _, t := range snap.Tasks {
		if !t.CreatedAt.Before(start) && t.CreatedAt.Before(end) {
			report.TasksAdded++
		}
	}

	totalDone := 0
	for _, h := range snap.Habits {
		grid := views.HabitGrid(h, dates)
		wh := WeeklyHabit{ID: h.ID, Title: h.Title, Streak: h.Streak, DaysCompleted: make([]bool, len(grid))}
		for i, cell := range grid {
			wh.DaysCompleted[i] = cell.Done
			if cell.Done {
				wh.CompletedCount++
			}
		}
		wh.CompletionRate = float64(wh.CompletedCount) / 7 * 100
		totalDone += wh.CompletedCount
		report.Habits = append(report.Habits, wh)
	}
	if n := len(snap.Habits); n > 0 {
		report.OverallRate = float64(totalDone) / float64(n*7) * 100
	}

	report.ByCategory = make([]CategoryCount, 0, len(categories))
	for c, n := range categories {
		report.ByCategory = append(report.ByCategory, CategoryCount{Category: c, Count: n})
	}
	slices.SortFunc(report.ByCategory, func(a, b CategoryCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		return cmp.Compare(a.Category, b.Category)
	})

	return report
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeek(t time.Time, first time.Weekday) time.Time {
	t = startOfDay(t)
	offset := (int(t.Weekday()) - int(first) + 7) % 7
	return t.AddDate(0, 0, -offset)
}
