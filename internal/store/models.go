package store

import (
	"fmt"
	"strings"
	"time"
)

// Priority is a task's importance. Values are persisted verbatim.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the known priorities from most to least important.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority accepts any casing of a known priority.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities() {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q: must be High, Medium, or Low", s)
}

// Category tags an item. The set is open: unknown values are stored as-is.
type Category string

const (
	CategoryWork     Category = "Work"
	CategoryPersonal Category = "Personal"
	CategoryProject  Category = "Project"
	CategoryLearning Category = "Learning"
	CategoryHealth   Category = "Health"
)

// Categories lists the built-in categories.
func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryProject, CategoryLearning, CategoryHealth}
}

// Direction is the way MoveTask shifts a task in the manual order.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down" in any casing.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	}
	return "", fmt.Errorf("invalid direction %q: must be up or down", s)
}

// Task is a single to-do item.
type Task struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     time.Time `json:"dueDate" yaml:"dueDate"`
	Priority    Priority  `json:"priority" yaml:"priority"`
	Completed   bool      `json:"completed" yaml:"completed"`
	Category    Category  `json:"category" yaml:"category"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// Habit is a recurring activity tracked per calendar day.
type Habit struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	Streak         int      `json:"streak" yaml:"streak"`
	CompletedDates []string `json:"completedDates" yaml:"completedDates"` // YYYY-MM-DD
	Category       Category `json:"category" yaml:"category"`
}

// DoneOn reports whether date is in CompletedDates.
func (h Habit) DoneOn(date string) bool {
	for _, d := range h.CompletedDates {
		if d == date {
			return true
		}
	}
	return false
}

func (h Habit) clone() Habit {
	h.CompletedDates = append(make([]string, 0, len(h.CompletedDates)), h.CompletedDates...)
	return h
}

// Project is a longer-running goal with manually tracked progress.
type Project struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description" yaml:"description"`
	Progress    int        `json:"progress" yaml:"progress"` // 0-100
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Category    Category   `json:"category" yaml:"category"`
}

// TaskInput carries the caller-supplied fields of a new task. The store
// assigns id, createdAt and completed.
type TaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Category    Category
}

// TaskPatch holds a partial task update. Nil fields are left untouched; id
// and createdAt cannot be patched.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *Priority
	Completed   *bool
	Category    *Category
}

// Empty reports whether the patch sets no field.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Completed == nil && p.Category == nil
}

func (p TaskPatch) apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.DueDate != nil {
		t.DueDate = Timestamp(*p.DueDate)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	return t
}

// Snapshot is a point-in-time copy of all three collections.
type Snapshot struct {
	Tasks    []Task    `json:"tasks" yaml:"tasks"`
	Habits   []Habit   `json:"habits" yaml:"habits"`
	Projects []Project `json:"projects" yaml:"projects"`
}

// DateLayout is the calendar-day format used for habit completions.
const DateLayout = "2006-01-02"

// Timestamp normalizes t to UTC with millisecond precision, the resolution
// stored timestamps carry.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

// DateString returns the UTC calendar day of t as YYYY-MM-DD.
func DateString(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
