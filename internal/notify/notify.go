// Package notify sends desktop notifications through the platform's native
// tool (osascript on macOS, notify-send on Linux) and composes the daily
// reminder planner sends.
package notify

import (
	"fmt"
	"strings"
	"time"

	"planner/internal/store"
	"planner/internal/views"
)

// Message is one desktop notification.
type Message struct {
	Title string
	Body  string
}

// Notifier delivers messages to the desktop.
type Notifier interface {
	Notify(msg Message, sound bool) error

	// Available reports whether the platform tool was found.
	Available() bool
}

type noopNotifier struct{}

func (noopNotifier) Notify(Message, bool) error { return nil }
func (noopNotifier) Available() bool            { return false }

// New returns the platform notifier, or a no-op one when the platform tool
// is missing.
func New() Notifier {
	n := newPlatformNotifier()
	if n == nil || !n.Available() {
		return noopNotifier{}
	}
	return n
}

// Reminder summarizes what is still open today: tasks due today, habits not
// yet checked in and overdue tasks. ok is false when there is nothing to say.
func Reminder(snap store.Snapshot, now time.Time) (msg Message, ok bool) {
	focus := views.TodayFocus(snap.Tasks, now)

	var habits []string
	for _, h := range snap.Habits {
		if !views.DoneToday(h, now) {
			habits = append(habits, h.Title)
		}
	}

	overdue := 0
	for _, t := range snap.Tasks {
		if views.Overdue(t, now) {
			overdue++
		}
	}

	var lines []string
	switch len(focus) {
	case 0:
	case 1:
		lines = append(lines, "Due today: "+focus[0].Title)
	default:
		lines = append(lines, fmt.Sprintf("%d tasks due today, next: %s", len(focus), focus[0].Title))
	}
	if len(habits) > 0 {
		lines = append(lines, "Habits left: "+strings.Join(habits, ", "))
	}
	if overdue > 0 {
		lines = append(lines, fmt.Sprintf("%d overdue", overdue))
	}
	if len(lines) == 0 {
		return Message{}, false
	}
	return Message{Title: "planner", Body: strings.Join(lines, "\n")}, true
}
