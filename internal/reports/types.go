// Package reports builds daily and weekly summaries of planner state and
// formats them as Markdown or JSON.
package reports

import (
	"time"

	"planner/internal/store"
	"planner/internal/views"
)

// DailyReport summarizes one UTC day.
type DailyReport struct {
	Date           string          `json:"date"` // YYYY-MM-DD
	Stats          views.Stats     `json:"stats"`
	Focus          []store.Task    `json:"focus"`
	CompletedToday []store.Task    `json:"completed_today"`
	Upcoming       []store.Task    `json:"upcoming"`
	Habits         []HabitStatus   `json:"habits"`
	Projects       []ProjectStatus `json:"projects"`
	Quote          string          `json:"quote,omitempty"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// HabitStatus is a habit as of the report day, with its recent history.
type HabitStatus struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Category store.Category `json:"category"`
	Done     bool           `json:"done"`
	Streak   int            `json:"streak"`
	Recent   []views.Day    `json:"recent"`
}

// ProjectStatus is a project with its due state relative to the report day.
type ProjectStatus struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Category store.Category `json:"category"`
	Progress int            `json:"progress"`
	DueDate  string         `json:"due_date,omitempty"`
	Overdue  bool           `json:"overdue"`
}

// WeeklyReport summarizes seven consecutive UTC days.
type WeeklyReport struct {
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
	Days        []DaySummary    `json:"days"`
	Habits      []WeeklyHabit   `json:"habits"`
	OverallRate float64         `json:"overall_rate"`
	TasksAdded  int             `json:"tasks_added"`
	ByCategory  []CategoryCount `json:"by_category"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// DaySummary is one day within a weekly report.
type DaySummary struct {
	Date           string `json:"date"`
	DayOfWeek      string `json:"day_of_week"`
	TasksDue       int    `json:"tasks_due"`
	TasksCompleted int    `json:"tasks_completed"`
	HabitsDone     int    `json:"habits_done"`
	HabitsTotal    int    `json:"habits_total"`
}

// WeeklyHabit is a habit's completion across the week.
type WeeklyHabit struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	DaysCompleted  []bool  `json:"days_completed"`
	CompletedCount int     `json:"completed_count"`
	CompletionRate float64 `json:"completion_rate"`
	Streak         int     `json:"streak"`
}

// CategoryCount counts completed tasks due in the period per category.
type CategoryCount struct {
	Category store.Category `json:"category"`
	Count    int            `json:"count"`
}
