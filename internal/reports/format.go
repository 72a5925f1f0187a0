package reports

import (
	"encoding/json"
	"fmt"
	"strings"

	"planner/internal/store"
)

// FormatDailyJSON formats a daily report as indented JSON.
func FormatDailyJSON(report *DailyReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// FormatWeeklyJSON formats a weekly report as indented JSON.
func FormatWeeklyJSON(report *WeeklyReport) ([]byte, error) {
	return json.MarshalIndent(report, "", "  ")
}

// FormatDailyMarkdown renders a daily report as Markdown.
func FormatDailyMarkdown(r *DailyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Report: %s\n\n", r.Date)
	if r.Quote != "" {
		fmt.Fprintf(&b, "> %s\n\n", r.Quote)
	}

	st := r.Stats
	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Today: %d done, %d to go\n", st.TodayCompleted, st.TodayPending)
	fmt.Fprintf(&b, "- All tasks: %d of %d complete\n", st.TasksCompleted, st.TasksTotal)
	if st.Overdue > 0 {
		fmt.Fprintf(&b, "- Overdue: %d\n", st.Overdue)
	}
	fmt.Fprintf(&b, "- Habits: %d of %d done today\n\n", st.HabitsDoneToday, st.HabitsTotal)

	writeTaskSection(&b, "Today's Focus", r.Focus, "No tasks for today.")
	if len(r.CompletedToday) > 0 {
		writeTaskSection(&b, "Completed Today", r.CompletedToday, "")
	}
	writeTaskSection(&b, "Upcoming", r.Upcoming, "No upcoming tasks.")

	b.WriteString("## Habits\n\n")
	if len(r.Habits) == 0 {
		b.WriteString("_No habits yet._\n\n")
	} else {
		b.WriteString("| Habit | Today | Recent | Streak |\n")
		b.WriteString("|---|---|---|---|\n")
		for _, h := range r.Habits {
			today := " "
			if h.Done {
				today = "x"
			}
			var grid strings.Builder
			for _, d := range h.Recent {
				if d.Done {
					grid.WriteString("■")
				} else {
					grid.WriteString("□")
				}
			}
			fmt.Fprintf(&b, "| %s | [%s] | %s | %d |\n", escapeCell(h.Title), today, grid.String(), h.Streak)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Projects\n\n")
	if len(r.Projects) == 0 {
		b.WriteString("_No projects yet._\n")
	} else {
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "- **%s** %s %d%%", p.Title, progressBar(p.Progress, 10), p.Progress)
			if p.DueDate != "" {
				fmt.Fprintf(&b, " (due %s", p.DueDate)
				if p.Overdue {
					b.WriteString(", overdue")
				}
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatWeeklyMarkdown renders a weekly report as Markdown.
func FormatWeeklyMarkdown(r *WeeklyReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Weekly Report: %s to %s\n\n", r.StartDate, r.EndDate)
	fmt.Fprintf(&b, "- Tasks added: %d\n", r.TasksAdded)
	fmt.Fprintf(&b, "- Habit completion: %.0f%%\n\n", r.OverallRate)

	b.WriteString("## Days\n\n")
	b.WriteString("| Day | Date | Tasks done | Habits |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, d := range r.Days {
		fmt.Fprintf(&b, "| %s | %s | %d/%d | %d/%d |\n",
			d.DayOfWeek[:3], d.Date, d.TasksCompleted, d.TasksDue, d.HabitsDone, d.HabitsTotal)
	}
	b.WriteString("\n")

	if len(r.Habits) > 0 {
		b.WriteString("## Habits\n\n")
		for _, h := range r.Habits {
			fmt.Fprintf(&b, "- %s: %d/7 (%.0f%%), streak %d\n", h.Title, h.CompletedCount, h.CompletionRate, h.Streak)
		}
		b.WriteString("\n")
	}

	if len(r.ByCategory) > 0 {
		b.WriteString("## Completed by category\n\n")
		for _, c := range r.ByCategory {
			fmt.Fprintf(&b, "- %s: %d\n", c.Category, c.Count)
		}
	}

	return b.String()
}

func writeTaskSection(b *strings.Builder, title string, tasks []store.Task, empty string) {
	fmt.Fprintf(b, "## %s\n\n", title)
	if len(tasks) == 0 {
		if empty != "" {
			fmt.Fprintf(b, "_%s_\n\n", empty)
		}
		return
	}
	for _, t := range tasks {
		check := " "
		if t.Completed {
			check = "x"
		}
		fmt.Fprintf(b, "- [%s] %s (%s, %s, due %s)\n", check, t.Title, t.Priority, t.Category, store.DateString(t.DueDate))
	}
	b.WriteString("\n")
}

func progressBar(pct, width int) string {
	filled := pct * width / 100
	filled = min(max(filled, 0), width)
	return "`" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "`"
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
