package importer

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"planner/internal/store"
)

// Taskwarrior reads `task export` output, either a JSON array or NDJSON.
type Taskwarrior struct{}

type taskwarriorTask struct {
	Description string `json:"description"`
	Status      string `json:"status"`
	Project     string `json:"project"`
	Priority    string `json:"priority"`
	Due         string `json:"due"`
	UUID        string `json:"uuid"`
}

// Name returns the importer name.
func (t *Taskwarrior) Name() string {
	return "taskwarrior"
}

// Preview parses Taskwarrior JSON. Deleted and blank tasks count as skipped.
func (t *Taskwarrior) Preview(reader io.Reader) ([]PreviewTask, int, error) {
	br := bufio.NewReader(reader)
	prefix, first, err := readFirstNonSpaceByte(br)
	if err != nil {
		if err == io.EOF {
			return nil, 0, fmt.Errorf("empty input")
		}
		return nil, 0, fmt.Errorf("failed to read input: %w", err)
	}

	r := io.MultiReader(bytes.NewReader(prefix), br)
	var raw []taskwarriorTask
	if first == '[' {
		raw, err = decodeTaskwarriorArray(r)
	} else {
		raw, err = decodeTaskwarriorNDJSON(r)
	}
	if err != nil {
		return nil, 0, err
	}

	var tasks []PreviewTask
	skipped := 0
	for _, tw := range raw {
		if task, ok := previewFromTaskwarrior(tw); ok {
			tasks = append(tasks, task)
		} else {
			skipped++
		}
	}
	return tasks, skipped, nil
}

const maxNDJSONLineBytes = 4 << 20 // 4MiB

func readFirstNonSpaceByte(r *bufio.Reader) ([]byte, byte, error) {
	var prefix []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && len(prefix) == 0 {
				return nil, 0, io.EOF
			}
			return prefix, 0, err
		}
		prefix = append(prefix, b)
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return prefix, b, nil
	}
}

func decodeTaskwarriorArray(r io.Reader) ([]taskwarriorTask, error) {
	dec := json.NewDecoder(r)
	if tok, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	} else if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("failed to parse JSON array: expected '['")
	}

	var out []taskwarriorTask
	for dec.More() {
		var tw taskwarriorTask
		if err := dec.Decode(&tw); err != nil {
			return nil, fmt.Errorf("failed to decode task %d: %w", len(out)+1, err)
		}
		out = append(out, tw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to parse JSON array: %w", err)
	}
	return out, nil
}

func decodeTaskwarriorNDJSON(r io.Reader) ([]taskwarriorTask, error) {
	br := bufio.NewReader(r)
	var out []taskwarriorTask
	lineNo := 0
	for {
		line, err := br.ReadBytes('\n')
		if len(line) > maxNDJSONLineBytes {
			return nil, fmt.Errorf("NDJSON line %d exceeds %d bytes", lineNo+1, maxNDJSONLineBytes)
		}
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to read NDJSON: %w", err)
		}
		if len(line) > 0 {
			lineNo++
		}
		if line = bytes.TrimSpace(line); len(line) > 0 {
			var tw taskwarriorTask
			if uerr := json.Unmarshal(line, &tw); uerr != nil {
				return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNo, uerr)
			}
			out = append(out, tw)
		}
		if err == io.EOF {
			break
		}
	}
	if lineNo == 0 {
		return nil, fmt.Errorf("empty input")
	}
	return out, nil
}

func previewFromTaskwarrior(tw taskwarriorTask) (PreviewTask, bool) {
	title := strings.TrimSpace(tw.Description)
	if tw.Status == "deleted" || title == "" {
		return PreviewTask{}, false
	}
	return PreviewTask{
		Title:    title,
		Project:  tw.Project,
		Priority: mapTaskwarriorPriority(tw.Priority),
		DueDate:  parseTaskwarriorDate(tw.Due),
		Done:     tw.Status == "completed",
	}, true
}

// mapTaskwarriorPriority converts Taskwarrior priority (H, M, L) to ours.
func mapTaskwarriorPriority(priority string) store.Priority {
	switch strings.ToUpper(strings.TrimSpace(priority)) {
	case "H":
		return store.PriorityHigh
	case "M":
		return store.PriorityMedium
	case "L":
		return store.PriorityLow
	default:
		return ""
	}
}

var taskwarriorDateLayouts = []string{
	"20060102T150405Z", // ISO 8601 basic, what `task export` writes
	"20060102T150405",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseTaskwarriorDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range taskwarriorDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}
