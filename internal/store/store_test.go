package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planner/internal/kv"
)

var fixedNow = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

// newTestStore returns a store over backend with a fixed clock and
// sequential ids ("id-1", "id-2", ...).
func newTestStore(t *testing.T, backend kv.Backend, opts ...Option) *Store {
	t.Helper()
	n := 0
	base := []Option{
		WithClock(func() time.Time { return fixedNow }),
		WithIDFunc(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))),
	}
	return New(backend, append(base, opts...)...)
}

// emptyStore starts from three empty, present collections.
func emptyStore(t *testing.T) (*Store, *kv.Memory) {
	t.Helper()
	m := kv.NewMemory()
	ctx := context.Background()
	for _, k := range Keys() {
		require.NoError(t, m.Set(ctx, k, []byte("[]")))
	}
	return newTestStore(t, m), m
}

func stored[T any](t *testing.T, b kv.Backend, key string) []T {
	t.Helper()
	data, ok, err := b.Get(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok, "key %s not persisted", key)
	var out []T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func taskIDs(tasks []Task) []string {
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	return ids
}

// ============================================================================
// Hydration
// ============================================================================

func TestNew_SeedsAbsentKeysAndPersistsSeed(t *testing.T) {
	m := kv.NewMemory()
	s := newTestStore(t, m)

	tasks := s.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, "Review System Design", tasks[0].Title)
	assert.Equal(t, PriorityHigh, tasks[0].Priority)
	assert.Equal(t, CategoryWork, tasks[0].Category)
	assert.Equal(t, "Morning Workout", tasks[1].Title)
	assert.Equal(t, CategoryHealth, tasks[1].Category)
	assert.True(t, tasks[0].DueDate.Equal(fixedNow))
	assert.False(t, tasks[0].Completed)

	habits := s.Habits()
	require.Len(t, habits, 2)
	assert.Equal(t, Habit{ID: "h1", Title: "Drink 3L Water", Streak: 5, CompletedDates: []string{}, Category: CategoryHealth}, habits[0])
	assert.Equal(t, Habit{ID: "h2", Title: "Read 30 mins", Streak: 12, CompletedDates: []string{}, Category: CategoryLearning}, habits[1])

	assert.Empty(t, s.Projects())

	// The seed is written through so it cannot come back after deletes.
	assert.Len(t, stored[Task](t, m, KeyTasks), 2)
	assert.Len(t, stored[Habit](t, m, KeyHabits), 2)
	assert.Empty(t, stored[Project](t, m, KeyProjects))
}

func TestNew_SeedDoesNotReappearAfterDeletingEverything(t *testing.T) {
	m := kv.NewMemory()
	s := newTestStore(t, m)
	for _, task := range s.Tasks() {
		require.True(t, s.DeleteTask(task.ID))
	}

	reopened := newTestStore(t, m)
	assert.Empty(t, reopened.Tasks())
	assert.Len(t, reopened.Habits(), 2)
}

func TestNew_UsesPresentValuesVerbatim(t *testing.T) {
	m := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, KeyTasks, []byte(`[]`)))
	require.NoError(t, m.Set(ctx, KeyHabits, []byte(`[{"id":"x","title":"Stretch","streak":3,"completedDates":["2024-01-01"],"category":"Health"}]`)))
	require.NoError(t, m.Set(ctx, KeyProjects, []byte(`[{"id":"p","title":"Site","description":"","progress":40,"category":"Work"}]`)))

	s := newTestStore(t, m)
	assert.Empty(t, s.Tasks(), "an empty stored array must not be seeded")
	assert.Equal(t, []Habit{{ID: "x", Title: "Stretch", Streak: 3, CompletedDates: []string{"2024-01-01"}, Category: CategoryHealth}}, s.Habits())
	require.Len(t, s.Projects(), 1)
	assert.Equal(t, 40, s.Projects()[0].Progress)
	assert.Nil(t, s.Projects()[0].DueDate)
}

func TestNew_MalformedValueFallsBackToEmpty(t *testing.T) {
	var logs bytes.Buffer
	m := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, KeyTasks, []byte(`{not json`)))

	s := New(m, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	assert.Empty(t, s.Tasks())
	assert.Len(t, s.Habits(), 2, "other keys hydrate independently")
	assert.Contains(t, logs.String(), "key=tasks")
	assert.Empty(t, stored[Task](t, m, KeyTasks), "empty collection is written back")
}

func TestNew_MalformedFileIsQuarantined(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "habits.json"), []byte(`[{"streak":"many"}]`), 0600))

	f, err := kv.NewFile(dir)
	require.NoError(t, err)
	s := newTestStore(t, f)

	assert.Empty(t, s.Habits())
	matches, err := filepath.Glob(filepath.Join(dir, "habits.json.corrupt.*"))
	require.NoError(t, err)
	assert.Len(t, matches, 1, "malformed file preserved aside")
}

func TestNew_NullValueIsEmpty(t *testing.T) {
	m := kv.NewMemory()
	require.NoError(t, m.Set(context.Background(), KeyProjects, []byte(`null`)))
	s := newTestStore(t, m)
	assert.NotNil(t, s.Projects())
	assert.Empty(t, s.Projects())
}

func TestHydration_RoundTrip(t *testing.T) {
	for _, kind := range []string{"memory", "file", "sqlite"} {
		t.Run(kind, func(t *testing.T) {
			var b kv.Backend
			switch kind {
			case "memory":
				b = kv.NewMemory()
			case "file":
				f, err := kv.NewFile(t.TempDir())
				require.NoError(t, err)
				b = f
			case "sqlite":
				l, err := kv.NewSQLite(":memory:")
				require.NoError(t, err)
				t.Cleanup(func() { _ = l.Close() })
				b = l
			}

			s := newTestStore(t, b)
			s.AddTask(TaskInput{
				Title:       "Write report",
				Description: "quarterly numbers",
				DueDate:     time.Date(2024, 1, 1, 14, 0, 0, 123456789, time.UTC),
				Priority:    PriorityHigh,
				Category:    CategoryWork,
			})
			h := s.AddHabit("Meditate", CategoryHealth)
			s.ToggleHabit(h.ID, "2024-01-01")
			p := s.AddProject("Launch", "ship it", CategoryProject)
			s.SetProjectProgress(p.ID, 55)

			before := s.Snapshot()
			after := newTestStore(t, b).Snapshot()
			assert.Equal(t, before, after)
		})
	}
}

// ============================================================================
// Tasks
// ============================================================================

func TestAddTask(t *testing.T) {
	s, m := emptyStore(t)
	due := time.Date(2024, 1, 1, 14, 0, 0, 0, time.UTC)

	got := s.AddTask(TaskInput{Title: "Write report", DueDate: due, Priority: PriorityHigh, Category: CategoryWork})

	assert.Equal(t, "id-1", got.ID)
	assert.Equal(t, "Write report", got.Title)
	assert.True(t, got.DueDate.Equal(due))
	assert.Equal(t, PriorityHigh, got.Priority)
	assert.Equal(t, CategoryWork, got.Category)
	assert.False(t, got.Completed)
	assert.True(t, got.CreatedAt.Equal(fixedNow))
	assert.Equal(t, []Task{got}, s.Tasks())
	assert.Equal(t, []Task{got}, stored[Task](t, m, KeyTasks))
}

func TestAddTask_AcceptsEmptyTitle(t *testing.T) {
	s, _ := emptyStore(t)
	s.AddTask(TaskInput{})
	assert.Len(t, s.Tasks(), 1)
}

func TestToggleTask_TwiceRestores(t *testing.T) {
	s, _ := emptyStore(t)
	orig := s.AddTask(TaskInput{Title: "a", Priority: PriorityLow, Category: CategoryPersonal})

	require.True(t, s.ToggleTask(orig.ID))
	mid, _ := s.Task(orig.ID)
	assert.True(t, mid.Completed)

	require.True(t, s.ToggleTask(orig.ID))
	after, _ := s.Task(orig.ID)
	assert.Equal(t, orig, after)
}

func TestMutations_UnknownIDAreNoOps(t *testing.T) {
	s, m := emptyStore(t)
	s.AddTask(TaskInput{Title: "keep"})
	s.AddHabit("keep", CategoryHealth)
	s.AddProject("keep", "", CategoryWork)
	before := s.Snapshot()
	tasksBefore, _, _ := m.Get(context.Background(), KeyTasks)

	title := "changed"
	assert.False(t, s.ToggleTask("missing"))
	assert.False(t, s.DeleteTask("missing"))
	assert.False(t, s.UpdateTask("missing", TaskPatch{Title: &title}))
	assert.False(t, s.MoveTask("missing", Up))
	assert.False(t, s.ToggleHabit("missing", "2024-01-01"))
	assert.False(t, s.DeleteHabit("missing"))
	assert.False(t, s.DeleteProject("missing"))
	assert.False(t, s.SetProjectProgress("missing", 10))

	assert.Equal(t, before, s.Snapshot())
	tasksAfter, _, _ := m.Get(context.Background(), KeyTasks)
	assert.Equal(t, tasksBefore, tasksAfter)
}

func TestUpdateTask_MergesOnlyGivenFields(t *testing.T) {
	s, _ := emptyStore(t)
	orig := s.AddTask(TaskInput{Title: "draft", Description: "d", Priority: PriorityLow, Category: CategoryWork})

	title := "final"
	prio := PriorityHigh
	require.True(t, s.UpdateTask(orig.ID, TaskPatch{Title: &title, Priority: &prio}))

	got, _ := s.Task(orig.ID)
	want := orig
	want.Title = "final"
	want.Priority = PriorityHigh
	assert.Equal(t, want, got)
}

func TestUpdateTask_CannotChangeIdentity(t *testing.T) {
	s, _ := emptyStore(t)
	orig := s.AddTask(TaskInput{Title: "x"})
	done := true
	due := time.Date(2030, 5, 5, 0, 0, 0, 0, time.UTC)
	s.UpdateTask(orig.ID, TaskPatch{Completed: &done, DueDate: &due})

	got, _ := s.Task(orig.ID)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.True(t, got.Completed)
	assert.True(t, got.DueDate.Equal(due))
}

func TestDeleteTask(t *testing.T) {
	s, m := emptyStore(t)
	a := s.AddTask(TaskInput{Title: "a"})
	b := s.AddTask(TaskInput{Title: "b"})

	require.True(t, s.DeleteTask(a.ID))
	assert.Equal(t, []string{b.ID}, taskIDs(s.Tasks()))
	assert.Equal(t, []string{b.ID}, taskIDs(stored[Task](t, m, KeyTasks)))
}

func TestMoveTask(t *testing.T) {
	s, _ := emptyStore(t)
	a := s.AddTask(TaskInput{Title: "A"})
	b := s.AddTask(TaskInput{Title: "B"})
	c := s.AddTask(TaskInput{Title: "C"})

	assert.True(t, s.MoveTask(b.ID, Up))
	assert.Equal(t, []string{b.ID, a.ID, c.ID}, taskIDs(s.Tasks()))

	assert.True(t, s.MoveTask(a.ID, Down))
	assert.Equal(t, []string{b.ID, c.ID, a.ID}, taskIDs(s.Tasks()))
}

func TestMoveTask_Boundaries(t *testing.T) {
	s, _ := emptyStore(t)
	a := s.AddTask(TaskInput{Title: "A"})
	b := s.AddTask(TaskInput{Title: "B"})

	assert.False(t, s.MoveTask(a.ID, Up))
	assert.False(t, s.MoveTask(b.ID, Down))
	assert.False(t, s.MoveTask(a.ID, Direction("sideways")))
	assert.False(t, s.MoveTask(b.ID, ""))
	assert.Equal(t, []string{a.ID, b.ID}, taskIDs(s.Tasks()))
}

func TestMoveTask_IsPermutation(t *testing.T) {
	s, _ := emptyStore(t)
	for i := 0; i < 5; i++ {
		s.AddTask(TaskInput{Title: fmt.Sprint(i)})
	}
	before := taskIDs(s.Tasks())

	for i, id := range before {
		dir := Up
		if i%2 == 0 {
			dir = Down
		}
		s.MoveTask(id, dir)
	}
	assert.ElementsMatch(t, before, taskIDs(s.Tasks()))
}

func TestRestoreTask(t *testing.T) {
	s, _ := emptyStore(t)
	a := s.AddTask(TaskInput{Title: "A"})
	b := s.AddTask(TaskInput{Title: "B"})
	c := s.AddTask(TaskInput{Title: "C"})

	idx := s.TaskPosition(b.ID)
	require.True(t, s.DeleteTask(b.ID))
	require.True(t, s.RestoreTask(b, idx))
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, taskIDs(s.Tasks()))

	assert.False(t, s.RestoreTask(b, 0), "duplicate id refused")
	assert.Len(t, s.Tasks(), 3)
}

func TestSnapshotsAreNotMutatedLater(t *testing.T) {
	s, _ := emptyStore(t)
	a := s.AddTask(TaskInput{Title: "A"})
	h := s.AddHabit("H", CategoryHealth)
	snap := s.Snapshot()

	s.ToggleTask(a.ID)
	s.ToggleHabit(h.ID, "2024-01-01")
	s.DeleteTask(a.ID)

	assert.False(t, snap.Tasks[0].Completed)
	assert.Empty(t, snap.Habits[0].CompletedDates)
}

func TestIDsStayUnique(t *testing.T) {
	s := New(kv.NewMemory(), WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	for i := 0; i < 50; i++ {
		task := s.AddTask(TaskInput{Title: "t"})
		if i%3 == 0 {
			s.DeleteTask(task.ID)
		}
		s.AddHabit("h", CategoryHealth)
		s.AddProject("p", "", CategoryWork)
	}

	seen := map[string]bool{}
	for _, task := range s.Tasks() {
		assert.False(t, seen[task.ID], "duplicate task id %s", task.ID)
		seen[task.ID] = true
	}
	seen = map[string]bool{}
	for _, h := range s.Habits() {
		assert.False(t, seen[h.ID], "duplicate habit id %s", h.ID)
		seen[h.ID] = true
	}
}

// ============================================================================
// Habits
// ============================================================================

func TestAddHabit_ToggleTwice(t *testing.T) {
	s, m := emptyStore(t)
	h := s.AddHabit("Meditate", CategoryHealth)
	assert.Equal(t, 0, h.Streak)
	assert.Empty(t, h.CompletedDates)

	require.True(t, s.ToggleHabit(h.ID, "2024-01-01"))
	got, _ := s.Habit(h.ID)
	assert.Equal(t, []string{"2024-01-01"}, got.CompletedDates)
	assert.Equal(t, 1, got.Streak)

	require.True(t, s.ToggleHabit(h.ID, "2024-01-01"))
	got, _ = s.Habit(h.ID)
	assert.Empty(t, got.CompletedDates)
	assert.Equal(t, 0, got.Streak)

	persisted := stored[Habit](t, m, KeyHabits)
	require.Len(t, persisted, 1)
	assert.NotNil(t, persisted[0].CompletedDates, "serialized as [] not null")
}

func TestToggleHabit_StreakNeverNegative(t *testing.T) {
	m := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, m.Set(ctx, KeyHabits, []byte(`[{"id":"h","title":"x","streak":0,"completedDates":["2024-02-02"],"category":"Health"}]`)))
	s := newTestStore(t, m)

	require.True(t, s.ToggleHabit("h", "2024-02-02"))
	got, _ := s.Habit("h")
	assert.Equal(t, 0, got.Streak)
	assert.Empty(t, got.CompletedDates)
}

func TestToggleHabit_StreakIsACounter(t *testing.T) {
	s, _ := emptyStore(t)
	h := s.AddHabit("x", CategoryHealth)
	// Non-consecutive days still count; the streak is not recomputed.
	s.ToggleHabit(h.ID, "2024-01-01")
	s.ToggleHabit(h.ID, "2024-01-05")
	s.ToggleHabit(h.ID, "2024-03-10")

	got, _ := s.Habit(h.ID)
	assert.Equal(t, 3, got.Streak)
	assert.Equal(t, []string{"2024-01-01", "2024-01-05", "2024-03-10"}, got.CompletedDates)
}

func TestDeleteAndRestoreHabit(t *testing.T) {
	s, _ := emptyStore(t)
	a := s.AddHabit("a", CategoryHealth)
	b := s.AddHabit("b", CategoryHealth)

	require.True(t, s.DeleteHabit(a.ID))
	assert.Len(t, s.Habits(), 1)
	require.True(t, s.RestoreHabit(a, 0))
	hs := s.Habits()
	assert.Equal(t, a.ID, hs[0].ID)
	assert.Equal(t, b.ID, hs[1].ID)
}

func TestReplaceHabit(t *testing.T) {
	s, _ := emptyStore(t)
	h := s.AddHabit("a", CategoryHealth)
	s.ToggleHabit(h.ID, "2024-01-01")

	require.True(t, s.ReplaceHabit(h))
	got, _ := s.Habit(h.ID)
	assert.Equal(t, h, got)
	assert.False(t, s.ReplaceHabit(Habit{ID: "nope"}))
}

// ============================================================================
// Projects
// ============================================================================

func TestAddProject(t *testing.T) {
	s, m := emptyStore(t)
	p := s.AddProject("Launch", "v1 release", CategoryProject)

	assert.Equal(t, 0, p.Progress)
	require.NotNil(t, p.DueDate)
	assert.True(t, p.DueDate.Equal(fixedNow))
	assert.Equal(t, []Project{p}, s.Projects())
	assert.Len(t, stored[Project](t, m, KeyProjects), 1)
}

func TestSetProjectProgress_Clamps(t *testing.T) {
	s, _ := emptyStore(t)
	p := s.AddProject("x", "", CategoryWork)

	tests := []struct{ in, want int }{{50, 50}, {-5, 0}, {250, 100}, {100, 100}}
	for _, tt := range tests {
		require.True(t, s.SetProjectProgress(p.ID, tt.in))
		got, _ := s.Project(p.ID)
		assert.Equal(t, tt.want, got.Progress, "input %d", tt.in)
	}
}

func TestDeleteAndRestoreProject(t *testing.T) {
	s, _ := emptyStore(t)
	p := s.AddProject("x", "", CategoryWork)
	require.True(t, s.DeleteProject(p.ID))
	assert.Empty(t, s.Projects())
	require.True(t, s.RestoreProject(p, 9))
	assert.Equal(t, []Project{p}, s.Projects())
}

// ============================================================================
// Persistence failures
// ============================================================================

type failingBackend struct {
	*kv.Memory
	fail bool
}

func (f *failingBackend) Set(ctx context.Context, key string, value []byte) error {
	if f.fail {
		return errors.New("disk full")
	}
	return f.Memory.Set(ctx, key, value)
}

func TestPersistFailure_KeepsMemoryAndLogs(t *testing.T) {
	var logs bytes.Buffer
	b := &failingBackend{Memory: kv.NewMemory()}
	s := New(b, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	b.fail = true
	task := s.AddTask(TaskInput{Title: "unsaved"})

	_, ok := s.Task(task.ID)
	assert.True(t, ok, "mutation is not rolled back")
	assert.Contains(t, logs.String(), "persist failed")
	assert.Contains(t, logs.String(), "disk full")
}

type flakyReadBackend struct {
	*kv.Memory
	failKey string
	fails   int
}

func (f *flakyReadBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if key == f.failKey && f.fails > 0 {
		f.fails--
		return nil, false, errors.New("i/o error")
	}
	return f.Memory.Get(ctx, key)
}

func TestReadFailure_HoldsWrites(t *testing.T) {
	ctx := context.Background()
	b := &flakyReadBackend{Memory: kv.NewMemory(), failKey: KeyTasks, fails: 1}
	original := `[{"id":"a","title":"first","description":"","dueDate":"2024-01-01T00:00:00.000Z","priority":"High","completed":false,"category":"Work","createdAt":"2024-01-01T00:00:00.000Z"},` +
		`{"id":"b","title":"second","description":"","dueDate":"2024-01-01T00:00:00.000Z","priority":"Low","completed":false,"category":"Work","createdAt":"2024-01-01T00:00:00.000Z"}]`
	require.NoError(t, b.Set(ctx, KeyTasks, []byte(original)))
	require.NoError(t, b.Set(ctx, KeyHabits, []byte("[]")))
	require.NoError(t, b.Set(ctx, KeyProjects, []byte("[]")))

	var logs bytes.Buffer
	s := newTestStore(t, b, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	assert.Empty(t, s.Tasks())
	assert.Equal(t, []string{KeyTasks}, s.Held())

	s.AddTask(TaskInput{Title: "new"})
	assert.Len(t, s.Tasks(), 1, "the change is kept in memory")
	assert.Contains(t, logs.String(), "could not be read")

	data, ok, err := b.Memory.Get(ctx, KeyTasks)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, original, string(data), "stored tasks survive")

	// Other collections still write through.
	s.AddHabit("h", CategoryHealth)
	assert.Len(t, stored[Habit](t, b, KeyHabits), 1)

	s.Reload()
	assert.Empty(t, s.Held())
	assert.Equal(t, []string{"a", "b"}, taskIDs(s.Tasks()))
	s.ToggleTask("a")
	assert.True(t, stored[Task](t, b, KeyTasks)[0].Completed)
}

func TestReload(t *testing.T) {
	s, m := emptyStore(t)
	s.AddTask(TaskInput{Title: "a"})
	require.NoError(t, m.Set(context.Background(), KeyTasks, []byte(`[]`)))

	s.Reload()
	assert.Empty(t, s.Tasks())
}
