package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"planner/internal/store"
)

// Todoist reads Todoist CSV exports.
type Todoist struct{}

// Name returns the importer name.
func (t *Todoist) Name() string {
	return "todoist"
}

// Preview parses a Todoist CSV export. Only TYPE=task rows with content are
// returned; notes and sections count as skipped.
func (t *Todoist) Preview(reader io.Reader) ([]PreviewTask, int, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read CSV header: %w", err)
	}

	colIndex := make(map[string]int)
	for i, col := range header {
		if i == 0 {
			col = strings.TrimPrefix(col, "\ufeff") // UTF-8 BOM (common in some exports)
		}
		colIndex[strings.ToUpper(strings.TrimSpace(col))] = i
	}
	for _, col := range []string{"TYPE", "CONTENT"} {
		if _, ok := colIndex[col]; !ok {
			return nil, 0, fmt.Errorf("missing required column: %s", col)
		}
	}

	field := func(record []string, col string) string {
		idx, ok := colIndex[col]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var tasks []PreviewTask
	skipped := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to read CSV row: %w", err)
		}
		if len(record) == 0 {
			continue
		}

		if !strings.EqualFold(field(record, "TYPE"), "task") {
			skipped++
			continue
		}
		title := field(record, "CONTENT")
		if title == "" {
			skipped++
			continue
		}

		tasks = append(tasks, PreviewTask{
			Title:    title,
			Priority: mapTodoistPriority(field(record, "PRIORITY")),
			Project:  field(record, "PROJECT"),
			DueDate:  parseTodoistDate(field(record, "DATE")),
		})
	}

	return tasks, skipped, nil
}

// mapTodoistPriority converts Todoist priority to ours.
// Todoist: 1 = urgent (highest), 2 = high, 3 = medium, 4 = normal (lowest)
func mapTodoistPriority(priority string) store.Priority {
	switch strings.TrimSpace(priority) {
	case "1", "2":
		return store.PriorityHigh
	case "3":
		return store.PriorityMedium
	case "4":
		return store.PriorityLow
	default:
		return ""
	}
}

var todoistDateLayouts = []string{
	"2006-01-02",
	"Jan 2 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"01/02/2006",
}

// parseTodoistDate parses the date formats Todoist writes, as UTC midnight.
func parseTodoistDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range todoistDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return &t
		}
	}
	return nil
}
