// Package views derives the read-only lists planner shows from a store
// snapshot: today's focus, the upcoming pipeline, the archive and habit grids.
//
// "Today" is always the UTC calendar day of the supplied clock, and a task is
// due today when the UTC day of its due date matches.
package views

import (
	"slices"
	"time"

	"planner/internal/store"
)

// DueOn reports whether t's due date falls on the given YYYY-MM-DD day (UTC).
func DueOn(t store.Task, day string) bool {
	return store.DateString(t.DueDate) == day
}

// TodayFocus returns incomplete tasks due today, in manual order.
func TodayFocus(tasks []store.Task, now time.Time) []store.Task {
	today := store.DateString(now)
	return filter(tasks, func(t store.Task) bool { return !t.Completed && DueOn(t, today) })
}

// CompletedToday returns completed tasks due today, in manual order.
func CompletedToday(tasks []store.Task, now time.Time) []store.Task {
	today := store.DateString(now)
	return filter(tasks, func(t store.Task) bool { return t.Completed && DueOn(t, today) })
}

// Upcoming returns incomplete tasks not due today, earliest due first. Overdue
// tasks sort ahead of future ones.
func Upcoming(tasks []store.Task, now time.Time) []store.Task {
	today := store.DateString(now)
	out := filter(tasks, func(t store.Task) bool { return !t.Completed && !DueOn(t, today) })
	slices.SortStableFunc(out, func(a, b store.Task) int { return a.DueDate.Compare(b.DueDate) })
	return out
}

// Inbox is the backlog view: the same set and order as Upcoming.
func Inbox(tasks []store.Task, now time.Time) []store.Task {
	return Upcoming(tasks, now)
}

// Archive returns every completed task, latest due first.
func Archive(tasks []store.Task) []store.Task {
	out := filter(tasks, func(t store.Task) bool { return t.Completed })
	slices.SortStableFunc(out, func(a, b store.Task) int { return b.DueDate.Compare(a.DueDate) })
	return out
}

// Overdue reports whether an incomplete task's due day is before today.
func Overdue(t store.Task, now time.Time) bool {
	return !t.Completed && store.DateString(t.DueDate) < store.DateString(now)
}

// QuickCapture builds the input for an inbox quick-add: due this time
// tomorrow, Medium priority, Work category.
func QuickCapture(title string, now time.Time) store.TaskInput {
	return store.TaskInput{
		Title:    title,
		DueDate:  now.AddDate(0, 0, 1),
		Priority: store.PriorityMedium,
		Category: store.CategoryWork,
	}
}

func filter(tasks []store.Task, keep func(store.Task) bool) []store.Task {
	out := make([]store.Task, 0, len(tasks))
	for _, t := range tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}
