// Package export writes planner collections as JSON, YAML or CSV.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"planner/internal/store"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
)

// Collection selects what to export.
type Collection string

const (
	All      Collection = "all"
	Tasks    Collection = "tasks"
	Habits   Collection = "habits"
	Projects Collection = "projects"
)

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// ParseFormat accepts json, yaml/yml or csv.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("invalid format %q: use json, yaml or csv", s)
}

// ParseCollection accepts all, tasks, habits or projects.
func ParseCollection(s string) (Collection, error) {
	switch c := Collection(strings.ToLower(strings.TrimSpace(s))); c {
	case "":
		return All, nil
	case All, Tasks, Habits, Projects:
		return c, nil
	}
	return "", fmt.Errorf("invalid collection %q: use all, tasks, habits or projects", s)
}

// Write encodes the selected part of snap to w.
func Write(w io.Writer, snap store.Snapshot, f Format, c Collection) error {
	v, err := selectCollection(snap, c)
	if err != nil {
		return err
	}

	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		data = append(data, '\n')
		_, err = w.Write(data)
		return err
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatCSV:
		return writeCSV(w, snap, c)
	}
	return fmt.Errorf("unsupported format %q", f)
}

func selectCollection(snap store.Snapshot, c Collection) (any, error) {
	switch c {
	case All, "":
		return snap, nil
	case Tasks:
		return nonNil(snap.Tasks), nil
	case Habits:
		return nonNil(snap.Habits), nil
	case Projects:
		return nonNil(snap.Projects), nil
	}
	return nil, fmt.Errorf("unknown collection %q", c)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// writeCSV writes one collection as a plain table. All writes a section per
// collection: a "# name" row, the table, and a blank line between sections.
func writeCSV(w io.Writer, snap store.Snapshot, c Collection) error {
	cw := csv.NewWriter(w)

	var rows [][]string
	switch c {
	case Tasks:
		rows = taskRows(snap.Tasks)
	case Habits:
		rows = habitRows(snap.Habits)
	case Projects:
		rows = projectRows(snap.Projects)
	case All, "":
		sections := []struct {
			name Collection
			rows [][]string
		}{
			{Tasks, taskRows(snap.Tasks)},
			{Habits, habitRows(snap.Habits)},
			{Projects, projectRows(snap.Projects)},
		}
		for i, sec := range sections {
			if i > 0 {
				rows = append(rows, []string{})
			}
			rows = append(rows, []string{"# " + string(sec.name)})
			rows = append(rows, sec.rows...)
		}
	default:
		return fmt.Errorf("unknown collection %q", c)
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}

func taskRows(tasks []store.Task) [][]string {
	rows := [][]string{{"id", "title", "description", "dueDate", "priority", "completed", "category", "createdAt"}}
	for _, t := range tasks {
		rows = append(rows, []string{
			t.ID,
			t.Title,
			t.Description,
			formatTime(t.DueDate),
			string(t.Priority),
			strconv.FormatBool(t.Completed),
			string(t.Category),
			formatTime(t.CreatedAt),
		})
	}
	return rows
}

func habitRows(habits []store.Habit) [][]string {
	rows := [][]string{{"id", "title", "streak", "completedDates", "category"}}
	for _, h := range habits {
		rows = append(rows, []string{
			h.ID,
			h.Title,
			strconv.Itoa(h.Streak),
			strings.Join(h.CompletedDates, ";"),
			string(h.Category),
		})
	}
	return rows
}

func projectRows(projects []store.Project) [][]string {
	rows := [][]string{{"id", "title", "description", "progress", "dueDate", "category"}}
	for _, p := range projects {
		due := ""
		if p.DueDate != nil {
			due = formatTime(*p.DueDate)
		}
		rows = append(rows, []string{
			p.ID,
			p.Title,
			p.Description,
			strconv.Itoa(p.Progress),
			due,
			string(p.Category),
		})
	}
	return rows
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
