package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"planner/internal/store"
	"planner/internal/views"
)

var errCanceled = errors.New("canceled")

// isInteractive gates the huh forms; tests swap it out.
var isInteractive = stdinIsTerminal

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// ref is an item a command argument can name.
type ref struct {
	id    string
	title string
}

// resolve finds the item ref names: an exact id, then a unique id prefix,
// then a unique case-insensitive title.
func resolve(kind, arg string, items []ref) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("no %s given", kind)
	}

	var prefixed, titled []string
	for _, it := range items {
		if it.id == arg {
			return it.id, nil
		}
		if strings.HasPrefix(it.id, arg) {
			prefixed = append(prefixed, it.id)
		}
		if strings.EqualFold(it.title, arg) {
			titled = append(titled, it.id)
		}
	}
	switch {
	case len(prefixed) == 1:
		return prefixed[0], nil
	case len(titled) == 1:
		return titled[0], nil
	case len(prefixed) > 1 || len(titled) > 1:
		return "", fmt.Errorf("%q matches more than one %s; use more of the id", arg, kind)
	}
	return "", fmt.Errorf("no %s matches %q", kind, arg)
}

func taskRefs(tasks []store.Task) []ref {
	out := make([]ref, len(tasks))
	for i, t := range tasks {
		out[i] = ref{id: t.ID, title: t.Title}
	}
	return out
}

func habitRefs(habits []store.Habit) []ref {
	out := make([]ref, len(habits))
	for i, h := range habits {
		out[i] = ref{id: h.ID, title: h.Title}
	}
	return out
}

func projectRefs(projects []store.Project) []ref {
	out := make([]ref, len(projects))
	for i, p := range projects {
		out[i] = ref{id: p.ID, title: p.Title}
	}
	return out
}

// shortID trims generated ids for listings; resolve accepts the prefix back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseDue accepts today, tomorrow, +Nd and YYYY-MM-DD. Empty means today.
func parseDue(s string, now time.Time) (time.Time, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "today":
		return now, nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	}
	if strings.HasPrefix(s, "+") && strings.HasSuffix(s, "d") {
		n, err := strconv.Atoi(s[1 : len(s)-1])
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid due offset %q", s)
		}
		return now.AddDate(0, 0, n), nil
	}
	t, err := time.Parse(store.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due date %q: use today, tomorrow, +Nd or YYYY-MM-DD", s)
	}
	return t, nil
}

// parseCategory maps any casing of a built-in category onto it and title-cases
// anything else. Empty stays empty so callers can apply their default.
func parseCategory(s string) store.Category {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	for _, c := range store.Categories() {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return store.Category(cases.Title(language.English).String(s))
}

// dueLabel renders a due date relative to now for listings.
func dueLabel(t store.Task, now time.Time) string {
	switch {
	case views.DueOn(t, store.DateString(now)):
		return "due today"
	case views.Overdue(t, now):
		return "overdue, due " + humanize.RelTime(t.DueDate, now, "ago", "from now")
	default:
		return "due " + humanize.RelTime(t.DueDate, now, "ago", "from now")
	}
}

func options[T ~string](values []T) []huh.Option[string] {
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = string(v)
	}
	return huh.NewOptions(names...)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func runForm(form *huh.Form) error {
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return errCanceled
		}
		return err
	}
	return nil
}

// taskForm prompts for the fields of a new task.
func taskForm(f *taskFields) error {
	if f.priority == "" {
		f.priority = string(store.PriorityMedium)
	}
	if f.category == "" {
		f.category = string(store.CategoryWork)
	}
	return runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Task").Value(&f.title).Validate(required("title")),
			huh.NewText().Title("Description").Value(&f.description),
			huh.NewInput().
				Title("Due").
				Description("today, tomorrow, +3d or YYYY-MM-DD").
				Value(&f.due),
			huh.NewSelect[string]().Title("Priority").Options(options(store.Priorities())...).Value(&f.priority),
			huh.NewSelect[string]().Title("Category").Options(options(store.Categories())...).Value(&f.category),
		),
	))
}

// projectForm prompts for the fields of a new project.
func projectForm(title, description, category *string) error {
	if *category == "" {
		*category = string(store.CategoryProject)
	}
	return runForm(huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project").Value(title).Validate(required("title")),
			huh.NewText().Title("Description").Value(description),
			huh.NewSelect[string]().Title("Category").Options(options(store.Categories())...).Value(category),
		),
	))
}

// confirm asks a yes/no question on the terminal.
func confirm(title string) (bool, error) {
	var ok bool
	err := runForm(huh.NewForm(
		huh.NewGroup(huh.NewConfirm().Title(title).Affirmative("Yes").Negative("No").Value(&ok)),
	))
	return ok, err
}
