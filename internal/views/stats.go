package views

import (
	"time"

	"planner/internal/store"
)

// Stats summarizes a snapshot for headers and reports.
type Stats struct {
	TasksTotal     int `json:"tasks_total"`
	TasksCompleted int `json:"tasks_completed"`
	TodayPending   int `json:"today_pending"`
	TodayCompleted int `json:"today_completed"`
	Overdue        int `json:"overdue"`

	HabitsTotal     int `json:"habits_total"`
	HabitsDoneToday int `json:"habits_done_today"`
	BestStreak      int `json:"best_streak"`

	ProjectsTotal   int `json:"projects_total"`
	ProjectsAverage int `json:"projects_average_progress"`
}

// Summarize computes Stats for snap as of now.
func Summarize(snap store.Snapshot, now time.Time) Stats {
	var st Stats
	today := store.DateString(now)

	st.TasksTotal = len(snap.Tasks)
	for _, t := range snap.Tasks {
		if t.Completed {
			st.TasksCompleted++
		}
		if DueOn(t, today) {
			if t.Completed {
				st.TodayCompleted++
			} else {
				st.TodayPending++
			}
		}
		if Overdue(t, now) {
			st.Overdue++
		}
	}

	st.HabitsTotal = len(snap.Habits)
	for _, h := range snap.Habits {
		if h.DoneOn(today) {
			st.HabitsDoneToday++
		}
		st.BestStreak = max(st.BestStreak, h.Streak)
	}

	st.ProjectsTotal = len(snap.Projects)
	if st.ProjectsTotal > 0 {
		sum := 0
		for _, p := range snap.Projects {
			sum += p.Progress
		}
		st.ProjectsAverage = sum / st.ProjectsTotal
	}
	return st
}
