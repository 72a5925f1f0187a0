package views

import (
	"time"

	"planner/internal/store"
)

// Day is one cell of a habit grid.
type Day struct {
	Date string // YYYY-MM-DD
	Done bool
}

// LastDays returns the last n UTC calendar days ending today, oldest first.
func LastDays(now time.Time, n int) []string {
	if n <= 0 {
		return nil
	}
	today := now.UTC()
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = today.AddDate(0, 0, -(n - 1 - i)).Format(store.DateLayout)
	}
	return days
}

// HabitGrid marks which of days the habit was completed on.
func HabitGrid(h store.Habit, days []string) []Day {
	done := make(map[string]bool, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		done[d] = true
	}
	grid := make([]Day, len(days))
	for i, d := range days {
		grid[i] = Day{Date: d, Done: done[d]}
	}
	return grid
}

// DoneToday reports whether the habit has today's UTC date recorded.
func DoneToday(h store.Habit, now time.Time) bool {
	return h.DoneOn(store.DateString(now))
}
