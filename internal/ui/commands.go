package ui

import (
	"planner/internal/store"
)

// The helpers below perform one store mutation on behalf of a pane and return
// the change message carrying its undo action. They run synchronously inside
// Update: the store is in memory and the program's event loop is its only
// writer. A nil result means the target was gone and nothing changed.

func toggleTask(s *store.Store, id string) *changedMsg {
	before, ok := s.Task(id)
	if !ok || !s.ToggleTask(id) {
		return nil
	}
	action := NewToggleTaskAction(s, before)
	return &changedMsg{undo: action, status: action.Description}
}

func deleteTask(s *store.Store, id string) *changedMsg {
	task, ok := s.Task(id)
	if !ok {
		return nil
	}
	index := s.TaskPosition(id)
	if !s.DeleteTask(id) {
		return nil
	}
	action := NewDeleteTaskAction(s, task, index)
	return &changedMsg{undo: action, status: action.Description}
}

func moveTask(s *store.Store, id string, dir store.Direction) *changedMsg {
	task, ok := s.Task(id)
	if !ok || !s.MoveTask(id, dir) {
		return nil
	}
	return &changedMsg{undo: NewMoveTaskAction(s, task, dir)}
}

func addTask(s *store.Store, in store.TaskInput) *changedMsg {
	task := s.AddTask(in)
	return &changedMsg{status: "Added: " + truncateText(task.Title, 30)}
}

func toggleHabit(s *store.Store, id, date string) *changedMsg {
	before, ok := s.Habit(id)
	if !ok || !s.ToggleHabit(id, date) {
		return nil
	}
	after, _ := s.Habit(id)
	action := NewToggleHabitAction(s, before, after, date)
	return &changedMsg{undo: action, status: action.Description}
}

func deleteHabit(s *store.Store, id string) *changedMsg {
	habit, ok := s.Habit(id)
	if !ok {
		return nil
	}
	index := s.HabitPosition(id)
	if !s.DeleteHabit(id) {
		return nil
	}
	action := NewDeleteHabitAction(s, habit, index)
	return &changedMsg{undo: action, status: action.Description}
}

func addHabit(s *store.Store, title string, category store.Category) *changedMsg {
	h := s.AddHabit(title, category)
	return &changedMsg{status: "Added habit: " + truncateText(h.Title, 30)}
}

func deleteProject(s *store.Store, id string) *changedMsg {
	project, ok := s.Project(id)
	if !ok {
		return nil
	}
	index := s.ProjectPosition(id)
	if !s.DeleteProject(id) {
		return nil
	}
	action := NewDeleteProjectAction(s, project, index)
	return &changedMsg{undo: action, status: action.Description}
}

func addProject(s *store.Store, title string) *changedMsg {
	p := s.AddProject(title, "", store.CategoryProject)
	return &changedMsg{status: "Added project: " + truncateText(p.Title, 30)}
}

// stepProgress moves a project's progress by delta, clamped to 0..100.
// Hitting a bound it is already at changes nothing.
func stepProgress(s *store.Store, id string, delta int) *changedMsg {
	p, ok := s.Project(id)
	if !ok {
		return nil
	}
	to := min(100, max(0, p.Progress+delta))
	if to == p.Progress || !s.SetProjectProgress(id, to) {
		return nil
	}
	return &changedMsg{undo: NewProgressAction(s, p, to)}
}
