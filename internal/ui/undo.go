package ui

import (
	"errors"
	"sync"

	"planner/internal/store"

	"github.com/mattn/go-runewidth"
)

// maxHistorySize limits the undo stack to prevent unbounded memory growth.
const maxHistorySize = 50

// UndoableAction represents an action that can be undone.
// It captures the state needed to reverse the operation.
type UndoableAction struct {
	Description string       // Human-readable description for status messages
	Undo        func() error // Function to reverse the action
	Redo        func() error // Function to redo the action (optional)
}

// UndoManager maintains the undo/redo history stacks.
type UndoManager struct {
	mu        sync.Mutex
	undoStack []*UndoableAction
	redoStack []*UndoableAction
}

// NewUndoManager creates a new UndoManager instance.
func NewUndoManager() *UndoManager {
	return &UndoManager{
		undoStack: make([]*UndoableAction, 0, maxHistorySize),
		redoStack: make([]*UndoableAction, 0, maxHistorySize),
	}
}

// Push adds an undoable action to the history.
// Clears the redo stack since a new action invalidates redo history.
func (m *UndoManager) Push(action *UndoableAction) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Clear redo stack on new action
	m.redoStack = m.redoStack[:0]

	// Enforce max size (remove oldest if full)
	if len(m.undoStack) >= maxHistorySize {
		m.undoStack = m.undoStack[1:]
	}

	m.undoStack = append(m.undoStack, action)
}

// CanUndo returns true if there are actions to undo.
func (m *UndoManager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

// CanRedo returns true if there are actions to redo.
func (m *UndoManager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

// Undo reverses the most recent action and returns its description.
// Returns empty string and nil error if nothing to undo.
func (m *UndoManager) Undo() (string, error) {
	m.mu.Lock()
	if len(m.undoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.mu.Unlock()

	if err := action.Undo(); err != nil {
		// A stale action can never succeed, so it is dropped; anything else
		// goes back on the stack.
		if !errors.Is(err, errStale) {
			m.mu.Lock()
			m.undoStack = append(m.undoStack, action)
			m.mu.Unlock()
		}
		return "", err
	}

	// Push to redo stack if redo is available
	if action.Redo != nil {
		m.mu.Lock()
		m.redoStack = append(m.redoStack, action)
		m.mu.Unlock()
	}

	return action.Description, nil
}

// Redo reapplies the most recently undone action and returns its description.
// Returns empty string and nil error if nothing to redo.
func (m *UndoManager) Redo() (string, error) {
	m.mu.Lock()
	if len(m.redoStack) == 0 {
		m.mu.Unlock()
		return "", nil
	}
	action := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.mu.Unlock()

	if err := action.Redo(); err != nil {
		if !errors.Is(err, errStale) {
			m.mu.Lock()
			m.redoStack = append(m.redoStack, action)
			m.mu.Unlock()
		}
		return "", err
	}

	// Push back to undo stack
	m.mu.Lock()
	m.undoStack = append(m.undoStack, action)
	m.mu.Unlock()

	return action.Description, nil
}

// Clear removes all undo/redo history.
func (m *UndoManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undoStack = m.undoStack[:0]
	m.redoStack = m.redoStack[:0]
}

// =============================================================================
// Undoable Action Factories
// =============================================================================

// errStale is returned when the item an action refers to has changed under it
// (deleted elsewhere, id reused) and the action can no longer apply.
var errStale = errors.New("item no longer exists")

func check(ok bool) error {
	if !ok {
		return errStale
	}
	return nil
}

// NewDeleteTaskAction creates an undoable action for task deletion. The task
// and its position are captured before deletion so it comes back in place.
func NewDeleteTaskAction(s *store.Store, task store.Task, index int) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted task: " + truncateText(task.Title, 20),
		Undo: func() error {
			return check(s.RestoreTask(task, index))
		},
		Redo: func() error {
			return check(s.DeleteTask(task.ID))
		},
	}
}

// NewToggleTaskAction creates an undoable action for flipping a task's
// completed flag. task is the state before the toggle.
func NewToggleTaskAction(s *store.Store, task store.Task) *UndoableAction {
	desc := "Completed: " + truncateText(task.Title, 20)
	if task.Completed {
		desc = "Reopened: " + truncateText(task.Title, 20)
	}
	set := func(done bool) error {
		return check(s.UpdateTask(task.ID, store.TaskPatch{Completed: &done}))
	}
	return &UndoableAction{
		Description: desc,
		Undo:        func() error { return set(task.Completed) },
		Redo:        func() error { return set(!task.Completed) },
	}
}

// NewMoveTaskAction creates an undoable action for a one-step reorder.
func NewMoveTaskAction(s *store.Store, task store.Task, dir store.Direction) *UndoableAction {
	back := store.Up
	if dir == store.Up {
		back = store.Down
	}
	return &UndoableAction{
		Description: "Moved: " + truncateText(task.Title, 20),
		Undo: func() error {
			return check(s.MoveTask(task.ID, back))
		},
		Redo: func() error {
			return check(s.MoveTask(task.ID, dir))
		},
	}
}

// NewDeleteHabitAction creates an undoable action for habit deletion. The
// habit carries its completion history, so restoring it restores everything.
func NewDeleteHabitAction(s *store.Store, habit store.Habit, index int) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted habit: " + truncateText(habit.Title, 20),
		Undo: func() error {
			return check(s.RestoreHabit(habit, index))
		},
		Redo: func() error {
			return check(s.DeleteHabit(habit.ID))
		},
	}
}

// NewToggleHabitAction creates an undoable action for a habit toggle. before
// and after are full snapshots, so undo also puts the streak back exactly
// (toggling again would not when the streak was floored at zero).
func NewToggleHabitAction(s *store.Store, before, after store.Habit, date string) *UndoableAction {
	desc := "Checked in: " + truncateText(before.Title, 20)
	if before.DoneOn(date) {
		desc = "Unchecked: " + truncateText(before.Title, 20)
	}
	return &UndoableAction{
		Description: desc,
		Undo: func() error {
			return check(s.ReplaceHabit(before))
		},
		Redo: func() error {
			return check(s.ReplaceHabit(after))
		},
	}
}

// NewDeleteProjectAction creates an undoable action for project deletion.
func NewDeleteProjectAction(s *store.Store, project store.Project, index int) *UndoableAction {
	return &UndoableAction{
		Description: "Deleted project: " + truncateText(project.Title, 20),
		Undo: func() error {
			return check(s.RestoreProject(project, index))
		},
		Redo: func() error {
			return check(s.DeleteProject(project.ID))
		},
	}
}

// NewProgressAction creates an undoable action for a project progress change.
func NewProgressAction(s *store.Store, project store.Project, to int) *UndoableAction {
	return &UndoableAction{
		Description: "Progress: " + truncateText(project.Title, 20),
		Undo: func() error {
			return check(s.SetProjectProgress(project.ID, project.Progress))
		},
		Redo: func() error {
			return check(s.SetProjectProgress(project.ID, to))
		},
	}
}

// truncateText shortens text to maxLen cells with an ellipsis if needed.
func truncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	return runewidth.Truncate(text, maxLen, "..")
}
