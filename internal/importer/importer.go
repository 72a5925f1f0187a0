// Package importer migrates tasks from other productivity tools (Todoist,
// Taskwarrior) into the planner store.
package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"planner/internal/store"
)

// Result contains statistics about an import operation.
type Result struct {
	Imported  int // tasks added
	Completed int // of those, marked completed
	Skipped   int // rows ignored (notes, deleted, blank)
}

// PreviewTask is a parsed task before import.
type PreviewTask struct {
	Title    string
	Project  string
	Priority store.Priority
	DueDate  *time.Time
	Done     bool
}

// Target is the part of the store an import writes through.
type Target interface {
	Now() time.Time
	AddTask(in store.TaskInput) store.Task
	ToggleTask(id string) bool
}

// Importer parses one external format.
type Importer interface {
	// Preview parses tasks without importing them. skipped counts rows that
	// were not tasks.
	Preview(r io.Reader) (tasks []PreviewTask, skipped int, err error)

	// Name returns the importer name (e.g., "todoist", "taskwarrior").
	Name() string
}

// Get returns the importer for the given format, or nil.
func Get(format string) Importer {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "todoist":
		return &Todoist{}
	case "taskwarrior":
		return &Taskwarrior{}
	default:
		return nil
	}
}

// SupportedFormats returns the list of supported import formats.
func SupportedFormats() []string {
	return []string{"todoist", "taskwarrior"}
}

// Run parses r with imp and adds every task to dst. Parsing happens up front,
// so a malformed file adds nothing.
func Run(imp Importer, r io.Reader, dst Target) (*Result, error) {
	tasks, skipped, err := imp.Preview(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", imp.Name(), err)
	}

	res := &Result{Skipped: skipped}
	now := dst.Now()
	for _, pt := range tasks {
		added := dst.AddTask(pt.Input(now))
		res.Imported++
		if pt.Done && dst.ToggleTask(added.ID) {
			res.Completed++
		}
	}
	return res, nil
}

// Input converts a preview into a store input. Tasks without a due date land
// in the inbox the way quick capture does: due one day after now. The source
// project becomes the category when it names a built-in one and is kept in the
// description otherwise.
func (p PreviewTask) Input(now time.Time) store.TaskInput {
	in := store.TaskInput{
		Title:    p.Title,
		Priority: p.Priority,
		Category: store.CategoryWork,
		DueDate:  now.Add(24 * time.Hour),
	}
	if in.Priority == "" {
		in.Priority = store.PriorityMedium
	}
	if p.DueDate != nil {
		in.DueDate = *p.DueDate
	}
	if p.Project != "" {
		if c, ok := matchCategory(p.Project); ok {
			in.Category = c
		} else {
			in.Description = "Project: " + p.Project
		}
	}
	return in
}

func matchCategory(s string) (store.Category, bool) {
	for _, c := range store.Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, true
		}
	}
	return "", false
}
