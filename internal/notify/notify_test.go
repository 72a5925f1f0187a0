package notify

import (
	"os"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/store"
)

var testNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func TestNew(t *testing.T) {
	n := New()
	require.NotNil(t, n)
	if runtime.GOOS != "darwin" && runtime.GOOS != "linux" {
		assert.False(t, n.Available())
	}
}

func TestReminder_NothingOpen(t *testing.T) {
	_, ok := Reminder(store.Snapshot{}, testNow)
	assert.False(t, ok)

	snap := store.Snapshot{
		Tasks:  []store.Task{{Title: "Done already", DueDate: testNow, Completed: true}},
		Habits: []store.Habit{{Title: "Walk", CompletedDates: []string{"2024-01-10"}}},
	}
	_, ok = Reminder(snap, testNow)
	assert.False(t, ok)
}

func TestReminder_Summary(t *testing.T) {
	snap := store.Snapshot{
		Tasks: []store.Task{
			{Title: "Ship release", DueDate: testNow},
			{Title: "Write notes", DueDate: testNow.Add(time.Hour)},
			{Title: "Old thing", DueDate: testNow.AddDate(0, 0, -2)},
			{Title: "Next week", DueDate: testNow.AddDate(0, 0, 7)},
		},
		Habits: []store.Habit{
			{Title: "Walk", CompletedDates: []string{"2024-01-10"}},
			{Title: "Read"},
			{Title: "Water"},
		},
	}

	msg, ok := Reminder(snap, testNow)
	require.True(t, ok)
	assert.Equal(t, "planner", msg.Title)
	assert.Equal(t, "2 tasks due today, next: Ship release\nHabits left: Read, Water\n1 overdue", msg.Body)
}

func TestReminder_SingleTask(t *testing.T) {
	snap := store.Snapshot{Tasks: []store.Task{{Title: "Dentist", DueDate: testNow}}}

	msg, ok := Reminder(snap, testNow)
	require.True(t, ok)
	assert.Equal(t, "Due today: Dentist", msg.Body)
}

// Shows a real notification; opt in with RUN_NOTIFY_TESTS=1.
func TestNotify_Manual(t *testing.T) {
	if os.Getenv("RUN_NOTIFY_TESTS") != "1" {
		t.Skip("set RUN_NOTIFY_TESTS=1 to send a real notification")
	}
	n := New()
	if !n.Available() {
		t.Skip("no notification tool on this platform")
	}
	require.NoError(t, n.Notify(Message{Title: "planner test", Body: `a "quoted" \ body`}, false))
}
