package ui

import (
	"strings"
	"testing"
	"time"

	"planner/internal/store"
	"planner/internal/views"
)

func newTestTaskPane(t *testing.T, s *store.Store) *TaskPane {
	t.Helper()
	setupTest(t)
	pane := NewTaskPane(s, createTestStyles())
	pane.SetSize(60, 20)
	pane.SetFocused(true)
	return pane
}

func titles(tasks []store.Task) []string {
	out := make([]string, len(tasks))
	for i, task := range tasks {
		out[i] = task.Title
	}
	return out
}

func TestTaskPaneView_Empty(t *testing.T) {
	pane := newTestTaskPane(t, createEmptyStore(t))

	output := pane.View()
	if !strings.Contains(output, "TASKS · Today") {
		t.Errorf("missing title:\n%s", output)
	}
	if !strings.Contains(output, "Nothing due today") {
		t.Errorf("missing empty hint:\n%s", output)
	}
}

func TestTaskPaneView_SeedTasks(t *testing.T) {
	pane := newTestTaskPane(t, createTestStore(t))

	output := pane.View()
	for _, want := range []string{"Review System Design", "Morning Workout", "0/2 complete"} {
		if !strings.Contains(output, want) {
			t.Errorf("view missing %q:\n%s", want, output)
		}
	}
}

func TestTaskPane_ToggleMovesTaskToCompleted(t *testing.T) {
	s := createTestStore(t)
	pane := newTestTaskPane(t, s)

	msg := changeFrom(t, pane.Update(keyPress("d")))
	if msg.undo == nil {
		t.Error("toggle should carry an undo action")
	}

	task, _ := s.Task("1")
	if !task.Completed {
		t.Fatal("task 1 not completed")
	}

	pane.Refresh()
	got := titles(pane.tasks)
	if len(got) != 2 || got[0] != "Morning Workout" || got[1] != "Review System Design" {
		t.Errorf("today view = %v, want open first then completed", got)
	}
	if done, total := pane.Stats(); done != 1 || total != 2 {
		t.Errorf("Stats() = %d/%d, want 1/2", done, total)
	}
}

func TestTaskPane_ViewCycle(t *testing.T) {
	pane := newTestTaskPane(t, createTestStore(t))

	want := []TaskView{ViewInbox, ViewAll, ViewArchive, ViewToday}
	for _, v := range want {
		pane.Update(keyPress("v"))
		if pane.CurrentView() != v {
			t.Fatalf("view = %v, want %v", pane.CurrentView(), v)
		}
	}
}

func TestTaskPane_InboxAndArchive(t *testing.T) {
	s := createTestStore(t)
	s.AddTask(views.QuickCapture("Later", testNow))
	s.ToggleTask("2")

	pane := newTestTaskPane(t, s)

	pane.SetView(ViewInbox)
	if got := titles(pane.tasks); len(got) != 1 || got[0] != "Later" {
		t.Errorf("inbox = %v", got)
	}

	pane.SetView(ViewArchive)
	if got := titles(pane.tasks); len(got) != 1 || got[0] != "Morning Workout" {
		t.Errorf("archive = %v", got)
	}

	pane.SetView(ViewAll)
	if got := titles(pane.tasks); len(got) != 3 {
		t.Errorf("all = %v", got)
	}
}

func TestTaskPane_MoveOnlyInAllView(t *testing.T) {
	s := createTestStore(t)
	pane := newTestTaskPane(t, s)

	cmd := pane.Update(keyPress("J"))
	if cmd == nil {
		t.Fatal("expected a status command")
	}
	if _, ok := cmd().(statusMsg); !ok {
		t.Error("moving outside the All view should only report a status")
	}
	if got := titles(s.Tasks()); got[0] != "Review System Design" {
		t.Errorf("order changed: %v", got)
	}

	pane.SetView(ViewAll)
	pane.cursor = 1
	msg := changeFrom(t, pane.Update(keyPress("K")))
	if msg.undo == nil {
		t.Error("move should be undoable")
	}
	if got := titles(s.Tasks()); got[0] != "Morning Workout" {
		t.Errorf("order after move = %v", got)
	}
	if pane.cursor != 0 {
		t.Errorf("cursor = %d, want it to follow the task to 0", pane.cursor)
	}

	// Already at the top.
	if cmd := pane.Update(keyPress("K")); cmd != nil {
		t.Error("moving the first task up should do nothing")
	}
}

func TestTaskPane_AddInTodayView(t *testing.T) {
	s := createTestStore(t)
	pane := newTestTaskPane(t, s)

	pane.Update(keyPress("a"))
	if !pane.IsAdding() {
		t.Fatal("expected add mode")
	}
	pane.input.SetValue("Call bank !high #personal")
	msg := changeFrom(t, pane.Update(keyPress("enter")))

	if pane.IsAdding() {
		t.Error("add mode should end on confirm")
	}
	if !strings.Contains(msg.status, "Call bank") {
		t.Errorf("status = %q", msg.status)
	}

	tasks := s.Tasks()
	added := tasks[len(tasks)-1]
	if added.Title != "Call bank" || added.Priority != store.PriorityHigh || added.Category != store.CategoryPersonal {
		t.Errorf("added = %+v", added)
	}
	if !added.DueDate.Equal(testNow) {
		t.Errorf("due = %v, want today", added.DueDate)
	}
}

func TestTaskPane_AddElsewhereCapturesForTomorrow(t *testing.T) {
	s := createTestStore(t)
	pane := newTestTaskPane(t, s)
	pane.SetView(ViewInbox)

	pane.Update(keyPress("a"))
	pane.input.SetValue("Later")
	changeFrom(t, pane.Update(keyPress("enter")))

	tasks := s.Tasks()
	added := tasks[len(tasks)-1]
	if !added.DueDate.Equal(testNow.Add(24 * time.Hour)) {
		t.Errorf("due = %v, want tomorrow", added.DueDate)
	}
	if added.Priority != store.PriorityMedium || added.Category != store.CategoryWork {
		t.Errorf("defaults = %s/%s", added.Priority, added.Category)
	}
}

func TestTaskPane_AddCancelAndBlank(t *testing.T) {
	s := createTestStore(t)
	pane := newTestTaskPane(t, s)

	pane.Update(keyPress("a"))
	pane.input.SetValue("never mind")
	if cmd := pane.Update(keyPress("esc")); cmd != nil {
		t.Error("cancel should not produce a command")
	}

	pane.Update(keyPress("a"))
	pane.input.SetValue("   ")
	if cmd := pane.Update(keyPress("enter")); cmd != nil {
		t.Error("blank input should add nothing")
	}

	if n := len(s.Tasks()); n != 2 {
		t.Errorf("tasks = %d, want 2", n)
	}
}

func TestTaskPane_Navigation(t *testing.T) {
	s := createTestStore(t)
	s.AddTask(store.TaskInput{Title: "Third", DueDate: testNow, Priority: store.PriorityLow})
	pane := newTestTaskPane(t, s)

	steps := []struct {
		key  string
		want int
	}{
		{"j", 1},
		{"j", 2},
		{"j", 2},
		{"k", 1},
		{"G", 2},
		{"g", 0},
		{"k", 0},
	}
	for _, st := range steps {
		pane.Update(keyPress(st.key))
		if pane.cursor != st.want {
			t.Errorf("after %q cursor = %d, want %d", st.key, pane.cursor, st.want)
		}
	}
}

func TestTaskPane_UnfocusedIgnoresKeys(t *testing.T) {
	s := createTestStore(t)
	pane := newTestTaskPane(t, s)
	pane.SetFocused(false)

	if cmd := pane.Update(keyPress("d")); cmd != nil {
		t.Error("unfocused pane should ignore keys")
	}
	if task, _ := s.Task("1"); task.Completed {
		t.Error("task toggled while unfocused")
	}
}

func TestTaskPane_RefreshClampsCursor(t *testing.T) {
	s := createTestStore(t)
	pane := newTestTaskPane(t, s)
	pane.cursor = 1

	s.DeleteTask("2")
	pane.Refresh()
	if pane.cursor != 0 {
		t.Errorf("cursor = %d, want 0", pane.cursor)
	}
}

func TestFormatDueDate(t *testing.T) {
	setupTest(t)
	pane := NewTaskPane(createEmptyStore(t), createTestStyles())

	day := 24 * time.Hour
	tests := []struct {
		name      string
		due       time.Time
		completed bool
		want      string
	}{
		{"overdue", testNow.Add(-day), false, "!"},
		{"overdue but done", testNow.Add(-day), true, ""},
		{"today", testNow, false, "T"},
		{"later today", testNow.Add(10 * time.Hour), false, "T"},
		{"tomorrow", testNow.Add(day), false, "+1"},
		{"three days", testNow.Add(3 * day), false, "3d"},
		{"two weeks", testNow.Add(14 * day), false, "2w"},
		{"far", testNow.Add(40 * day), false, ">1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := store.Task{DueDate: tt.due, Completed: tt.completed}
			if got := pane.formatDueDate(task, testNow); got != tt.want {
				t.Errorf("formatDueDate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatPriorityBadge(t *testing.T) {
	setupTest(t)
	pane := NewTaskPane(createEmptyStore(t), createTestStyles())

	tests := []struct {
		priority store.Priority
		want     string
	}{
		{store.PriorityHigh, "!"},
		{store.PriorityMedium, "~"},
		{store.PriorityLow, "-"},
		{store.Priority("Urgent"), " "},
	}
	for _, tt := range tests {
		if got := pane.formatPriorityBadge(tt.priority); got != tt.want {
			t.Errorf("formatPriorityBadge(%q) = %q, want %q", tt.priority, got, tt.want)
		}
	}
}

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		in       string
		title    string
		priority store.Priority
		category store.Category
	}{
		{"Plain title", "Plain title", store.PriorityMedium, store.CategoryWork},
		{"Run !l #HEALTH", "Run", store.PriorityLow, store.CategoryHealth},
		{"!High urgent", "urgent", store.PriorityHigh, store.CategoryWork},
		{"Wow! really !bogus", "Wow! really !bogus", store.PriorityMedium, store.CategoryWork},
		{"Paint #Garage", "Paint", store.PriorityMedium, store.Category("Garage")},
	}
	for _, tt := range tests {
		in := parseQuickAdd(tt.in, testNow, false)
		if in.Title != tt.title || in.Priority != tt.priority || in.Category != tt.category {
			t.Errorf("parseQuickAdd(%q) = %q/%s/%s", tt.in, in.Title, in.Priority, in.Category)
		}
	}
}
