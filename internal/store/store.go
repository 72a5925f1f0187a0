// Package store owns planner's tasks, habits and projects.
//
// A Store hydrates its three collections from a kv.Backend once, then writes
// the affected collection back after every mutation. Mutations never fail:
// unknown ids are no-ops and persistence errors are logged while the
// in-memory change stands.
package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"planner/internal/kv"
)

// Backing store keys.
const (
	KeyTasks    = "tasks"
	KeyHabits   = "habits"
	KeyProjects = "projects"
)

// Keys lists the backing store keys in the order they are hydrated.
func Keys() []string {
	return []string{KeyTasks, KeyHabits, KeyProjects}
}

// Store is the single writer for all planner state. It is safe for
// concurrent use; each method completes its in-memory update and its
// persistence write before returning.
type Store struct {
	mu      sync.Mutex
	backend kv.Backend
	log     *slog.Logger
	now     func() time.Time
	newID   func() string

	// held keys could not be read; writing them would clobber the stored
	// value, so mutations stay in memory until a Reload reads them.
	held map[string]bool

	tasks    []Task
	habits   []Habit
	projects []Project
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for hydration and persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDFunc overrides the random id generator.
func WithIDFunc(fn func() string) Option {
	return func(s *Store) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// New hydrates a Store from backend. It never fails: absent keys are seeded,
// unreadable or malformed values fall back to empty collections. A key that
// could not be read is held: it is not written until Reload reads it.
func New(backend kv.Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		log:     slog.Default(),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.hydrate(context.Background())
	return s
}

// Now returns the current time according to the store clock.
func (s *Store) Now() time.Time {
	return s.now()
}

// Reload discards in-memory state and hydrates again from the backend, for
// example after a restore or another process changed the backing values.
func (s *Store) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hydrate(context.Background())
}

// ============================================================================
// Hydration and persistence
// ============================================================================

func (s *Store) hydrate(ctx context.Context) {
	s.held = map[string]bool{}
	s.tasks = load(ctx, s, KeyTasks, s.seedTasks)
	s.habits = load(ctx, s, KeyHabits, seedHabits)
	for i := range s.habits {
		if s.habits[i].CompletedDates == nil {
			s.habits[i].CompletedDates = []string{}
		}
	}
	s.projects = load(ctx, s, KeyProjects, func() []Project { return []Project{} })
}

// load reads one collection. An absent key is seeded and the seed written
// back so it cannot reappear later; a malformed value is quarantined when the
// backend supports it and replaced by an empty collection.
func load[T any](ctx context.Context, s *Store, key string, seed func() []T) []T {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.log.Warn("read failed, starting empty and holding writes", "key", key, "error", err)
		s.held[key] = true
		return []T{}
	}
	if !ok {
		items := seed()
		s.write(ctx, key, items)
		return items
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		s.log.Warn("stored value is malformed, starting empty", "key", key, "error", err)
		if q, ok := s.backend.(kv.Quarantiner); ok {
			if where, qerr := q.Quarantine(ctx, key); qerr != nil {
				s.log.Warn("quarantine failed", "key", key, "error", qerr)
			} else {
				s.log.Info("quarantined malformed value", "key", key, "moved_to", where)
			}
		}
		items = []T{}
		s.write(ctx, key, items)
		return items
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Held reports the keys whose writes are suspended after a read failure.
func (s *Store) Held() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for _, k := range Keys() {
		if s.held[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

func (s *Store) write(ctx context.Context, key string, v any) {
	if s.held[key] {
		s.log.Warn("not persisting, stored value could not be read", "key", key)
		return
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		s.log.Error("serialize failed", "key", key, "error", err)
		return
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		s.log.Error("persist failed", "key", key, "error", err)
	}
}

func (s *Store) setTasks(next []Task) {
	s.tasks = next
	s.write(context.Background(), KeyTasks, next)
}

func (s *Store) setHabits(next []Habit) {
	s.habits = next
	s.write(context.Background(), KeyHabits, next)
}

func (s *Store) setProjects(next []Project) {
	s.projects = next
	s.write(context.Background(), KeyProjects, next)
}

func (s *Store) stamp() time.Time {
	return Timestamp(s.now())
}

func (s *Store) seedTasks() []Task {
	now := s.stamp()
	return []Task{
		{
			ID:        "1",
			Title:     "Review System Design",
			DueDate:   now,
			Priority:  PriorityHigh,
			Category:  CategoryWork,
			CreatedAt: now,
		},
		{
			ID:        "2",
			Title:     "Morning Workout",
			DueDate:   now,
			Priority:  PriorityMedium,
			Category:  CategoryHealth,
			CreatedAt: now,
		},
	}
}

func seedHabits() []Habit {
	return []Habit{
		{ID: "h1", Title: "Drink 3L Water", Streak: 5, CompletedDates: []string{}, Category: CategoryHealth},
		{ID: "h2", Title: "Read 30 mins", Streak: 12, CompletedDates: []string{}, Category: CategoryLearning},
	}
}

// ============================================================================
// Reads
// ============================================================================

// Tasks returns a copy of the tasks in manual order.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.tasks)
}

// Habits returns a copy of the habits in insertion order.
func (s *Store) Habits() []Habit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHabits(s.habits)
}

// Projects returns a copy of the projects in insertion order.
func (s *Store) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.projects)
}

// Snapshot returns all three collections read under one lock.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Tasks:    slices.Clone(s.tasks),
		Habits:   cloneHabits(s.habits),
		Projects: slices.Clone(s.projects),
	}
}

// Task looks up a task by id.
func (s *Store) Task(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.taskIndex(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// Habit looks up a habit by id.
func (s *Store) Habit(id string) (Habit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.habitIndex(id); i >= 0 {
		return s.habits[i].clone(), true
	}
	return Habit{}, false
}

// Project looks up a project by id.
func (s *Store) Project(id string) (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.projectIndex(id); i >= 0 {
		return s.projects[i], true
	}
	return Project{}, false
}

func cloneHabits(in []Habit) []Habit {
	out := make([]Habit, len(in))
	for i, h := range in {
		out[i] = h.clone()
	}
	return out
}

func (s *Store) taskIndex(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) habitIndex(id string) int {
	return slices.IndexFunc(s.habits, func(h Habit) bool { return h.ID == id })
}

func (s *Store) projectIndex(id string) int {
	return slices.IndexFunc(s.projects, func(p Project) bool { return p.ID == id })
}

// ============================================================================
// Tasks
// ============================================================================

// AddTask appends a new incomplete task and returns it.
func (s *Store) AddTask(in TaskInput) Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		DueDate:     Timestamp(in.DueDate),
		Priority:    in.Priority,
		Completed:   false,
		Category:    in.Category,
		CreatedAt:   s.stamp(),
	}
	s.setTasks(append(slices.Clone(s.tasks), t))
	return t
}

// ToggleTask flips a task's completed flag. It reports whether the task exists.
func (s *Store) ToggleTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.tasks)
	next[i].Completed = !next[i].Completed
	s.setTasks(next)
	return true
}

// DeleteTask removes a task. It reports whether the task existed.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return false
	}
	s.setTasks(slices.Delete(slices.Clone(s.tasks), i, i+1))
	return true
}

// UpdateTask merges patch into the task with the given id.
func (s *Store) UpdateTask(id string, patch TaskPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.tasks)
	next[i] = patch.apply(next[i])
	s.setTasks(next)
	return true
}

// MoveTask swaps a task with its neighbour in the given direction. Moving the
// first task up or the last task down changes nothing. It reports whether a
// swap happened.
func (s *Store) MoveTask(id string, dir Direction) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.taskIndex(id)
	if i < 0 {
		return false
	}
	var j int
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	default:
		return false
	}
	if j < 0 || j >= len(s.tasks) {
		return false
	}
	next := slices.Clone(s.tasks)
	next[i], next[j] = next[j], next[i]
	s.setTasks(next)
	return true
}

// RestoreTask re-inserts a previously deleted task at index (clamped to the
// collection bounds). A task whose id is already present is refused.
func (s *Store) RestoreTask(t Task, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.ID == "" || s.taskIndex(t.ID) >= 0 {
		return false
	}
	s.setTasks(slices.Insert(slices.Clone(s.tasks), clamp(index, 0, len(s.tasks)), t))
	return true
}

// TaskPosition returns the index of a task in the manual order, or -1.
func (s *Store) TaskPosition(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taskIndex(id)
}

// ============================================================================
// Habits
// ============================================================================

// AddHabit appends a new habit with no completions.
func (s *Store) AddHabit(title string, category Category) Habit {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := Habit{
		ID:             s.newID(),
		Title:          title,
		Streak:         0,
		CompletedDates: []string{},
		Category:       category,
	}
	s.setHabits(append(slices.Clone(s.habits), h))
	return h.clone()
}

// ToggleHabit flips whether date is recorded as done. Adding a date raises
// the streak by one; removing it lowers the streak by one, never below zero.
func (s *Store) ToggleHabit(id, date string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.habitIndex(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.habits)
	h := next[i]
	if h.DoneOn(date) {
		h.CompletedDates = slices.DeleteFunc(slices.Clone(h.CompletedDates), func(d string) bool { return d == date })
		h.Streak = max(0, h.Streak-1)
	} else {
		h.CompletedDates = append(slices.Clone(h.CompletedDates), date)
		h.Streak++
	}
	next[i] = h
	s.setHabits(next)
	return true
}

// DeleteHabit removes a habit.
func (s *Store) DeleteHabit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.habitIndex(id)
	if i < 0 {
		return false
	}
	s.setHabits(slices.Delete(slices.Clone(s.habits), i, i+1))
	return true
}

// RestoreHabit re-inserts a deleted habit at index.
func (s *Store) RestoreHabit(h Habit, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" || s.habitIndex(h.ID) >= 0 {
		return false
	}
	h = h.clone()
	s.setHabits(slices.Insert(slices.Clone(s.habits), clamp(index, 0, len(s.habits)), h))
	return true
}

// ReplaceHabit overwrites the habit with h.ID, used to undo a toggle exactly.
func (s *Store) ReplaceHabit(h Habit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.habitIndex(h.ID)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.habits)
	next[i] = h.clone()
	s.setHabits(next)
	return true
}

// HabitPosition returns the index of a habit, or -1.
func (s *Store) HabitPosition(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.habitIndex(id)
}

// ============================================================================
// Projects
// ============================================================================

// AddProject appends a project with zero progress, due now.
func (s *Store) AddProject(title, description string, category Category) Project {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := s.stamp()
	p := Project{
		ID:          s.newID(),
		Title:       title,
		Description: description,
		Progress:    0,
		DueDate:     &due,
		Category:    category,
	}
	s.setProjects(append(slices.Clone(s.projects), p))
	return p
}

// DeleteProject removes a project.
func (s *Store) DeleteProject(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndex(id)
	if i < 0 {
		return false
	}
	s.setProjects(slices.Delete(slices.Clone(s.projects), i, i+1))
	return true
}

// SetProjectProgress sets progress, clamped to 0..100.
func (s *Store) SetProjectProgress(id string, progress int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.projectIndex(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.projects)
	next[i].Progress = clamp(progress, 0, 100)
	s.setProjects(next)
	return true
}

// RestoreProject re-inserts a deleted project at index.
func (s *Store) RestoreProject(p Project, index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" || s.projectIndex(p.ID) >= 0 {
		return false
	}
	s.setProjects(slices.Insert(slices.Clone(s.projects), clamp(index, 0, len(s.projects)), p))
	return true
}

// ProjectPosition returns the index of a project, or -1.
func (s *Store) ProjectPosition(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectIndex(id)
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
