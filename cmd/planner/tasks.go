package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/store"
	"planner/internal/views"
)

// taskFields are the string forms of a task's editable fields, shared by the
// add flags and the add form.
type taskFields struct {
	title       string
	description string
	due         string
	priority    string
	category    string
}

func (f *taskFields) input(now time.Time) (store.TaskInput, error) {
	title := strings.TrimSpace(f.title)
	if title == "" {
		return store.TaskInput{}, errors.New("task title is required")
	}
	due, err := parseDue(f.due, now)
	if err != nil {
		return store.TaskInput{}, err
	}
	priority := store.PriorityMedium
	if strings.TrimSpace(f.priority) != "" {
		if priority, err = store.ParsePriority(f.priority); err != nil {
			return store.TaskInput{}, err
		}
	}
	category := parseCategory(f.category)
	if category == "" {
		category = store.CategoryWork
	}
	return store.TaskInput{
		Title:       title,
		Description: strings.TrimSpace(f.description),
		DueDate:     due,
		Priority:    priority,
		Category:    category,
	}, nil
}

func newTaskCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Aliases: []string{"tasks"},
		Short:   "Add, list and change tasks",
	}
	cmd.AddCommand(
		newTaskAddCmd(opts),
		newTaskListCmd(opts),
		newTaskDoneCmd(opts),
		newTaskRmCmd(opts),
		newTaskEditCmd(opts),
		newTaskMvCmd(opts),
	)
	return cmd
}

func newTaskAddCmd(opts *rootOptions) *cobra.Command {
	var f taskFields
	cmd := &cobra.Command{
		Use:   "add [TITLE...]",
		Short: "Add a task (opens a form when no title is given)",
		Example: `  planner task add Review the design doc --priority high --due tomorrow
  planner task add "Book dentist" --category personal --due 2025-03-14`,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			f.title = strings.Join(args, " ")
			if strings.TrimSpace(f.title) == "" {
				if !isInteractive() {
					return errors.New("task title is required")
				}
				if err := taskForm(&f); err != nil {
					return err
				}
			}

			s := e.Store()
			in, err := f.input(s.Now())
			if err != nil {
				return err
			}
			task := s.AddTask(in)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added task: %s (%s)\n", task.Title, shortID(task.ID))
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVarP(&f.due, "due", "d", "", "due date: today, tomorrow, +Nd or YYYY-MM-DD (default today)")
	flags.StringVarP(&f.priority, "priority", "p", "", "High, Medium or Low (default Medium)")
	flags.StringVarP(&f.category, "category", "c", "", "category (default Work)")
	flags.StringVar(&f.description, "desc", "", "description")
	return cmd
}

// taskListViews maps --view values onto the task views the TUI offers.
var taskListViews = map[string]func(tasks []store.Task, now time.Time) []store.Task{
	"all": func(tasks []store.Task, _ time.Time) []store.Task { return tasks },
	"today": func(tasks []store.Task, now time.Time) []store.Task {
		return append(views.TodayFocus(tasks, now), views.CompletedToday(tasks, now)...)
	},
	"inbox":   views.Inbox,
	"archive": func(tasks []store.Task, _ time.Time) []store.Task { return views.Archive(tasks) },
	"overdue": func(tasks []store.Task, now time.Time) []store.Task {
		var out []store.Task
		for _, t := range tasks {
			if views.Overdue(t, now) {
				out = append(out, t)
			}
		}
		return out
	},
}

func newTaskListCmd(opts *rootOptions) *cobra.Command {
	var view string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			pick, ok := taskListViews[strings.ToLower(view)]
			if !ok {
				return fmt.Errorf("unknown view %q: use all, today, inbox, archive or overdue", view)
			}
			s := e.Store()
			now := s.Now()
			printTasks(cmd.OutOrStdout(), pick(s.Tasks(), now), now)
			return nil
		}),
	}
	cmd.Flags().StringVar(&view, "view", "all", "all, today, inbox, archive or overdue")
	return cmd
}

func printTasks(w io.Writer, tasks []store.Task, now time.Time) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		fmt.Fprintf(w, "%s %-8s  %s  · %s · %s · %s\n",
			check, shortID(t.ID), t.Title, t.Priority, t.Category, dueLabel(t, now))
	}
}

func newTaskDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "done ID",
		Aliases: []string{"toggle"},
		Short:   "Toggle a task between done and open",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			id, err := resolve("task", args[0], taskRefs(s.Tasks()))
			if err != nil {
				return err
			}
			s.ToggleTask(id)
			task, _ := s.Task(id)
			if task.Completed {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Completed: %s\n", task.Title)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "○ Reopened: %s\n", task.Title)
			}
			return nil
		}),
	}
}

func newTaskRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			id, err := resolve("task", args[0], taskRefs(s.Tasks()))
			if err != nil {
				return err
			}
			task, _ := s.Task(id)
			s.DeleteTask(id)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted: %s\n", task.Title)
			return nil
		}),
	}
}

func newTaskEditCmd(opts *rootOptions) *cobra.Command {
	var (
		f    taskFields
		done bool
	)
	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change fields of a task",
		Example: `  planner task edit 3f2a --priority low --due +2d
  planner task edit "Morning Workout" --title "Evening run"`,
		Args: cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			id, err := resolve("task", args[0], taskRefs(s.Tasks()))
			if err != nil {
				return err
			}
			patch, err := f.patch(cmd, done, s.Now())
			if err != nil {
				return err
			}
			if patch.Empty() {
				return errors.New("nothing to change: pass at least one field flag")
			}
			s.UpdateTask(id, patch)
			task, _ := s.Task(id)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Updated: %s\n", task.Title)
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&f.title, "title", "", "new title")
	flags.StringVar(&f.description, "desc", "", "new description")
	flags.StringVarP(&f.due, "due", "d", "", "new due date: today, tomorrow, +Nd or YYYY-MM-DD")
	flags.StringVarP(&f.priority, "priority", "p", "", "High, Medium or Low")
	flags.StringVarP(&f.category, "category", "c", "", "new category")
	flags.BoolVar(&done, "done", false, "mark done (--done=false reopens)")
	return cmd
}

// patch builds a TaskPatch from the flags the user actually set.
func (f *taskFields) patch(cmd *cobra.Command, done bool, now time.Time) (store.TaskPatch, error) {
	var p store.TaskPatch
	changed := cmd.Flags().Changed

	if changed("title") {
		title := strings.TrimSpace(f.title)
		if title == "" {
			return p, errors.New("title cannot be empty")
		}
		p.Title = &title
	}
	if changed("desc") {
		desc := strings.TrimSpace(f.description)
		p.Description = &desc
	}
	if changed("due") {
		due, err := parseDue(f.due, now)
		if err != nil {
			return p, err
		}
		p.DueDate = &due
	}
	if changed("priority") {
		pr, err := store.ParsePriority(f.priority)
		if err != nil {
			return p, err
		}
		p.Priority = &pr
	}
	if changed("category") {
		cat := parseCategory(f.category)
		if cat == "" {
			return p, errors.New("category cannot be empty")
		}
		p.Category = &cat
	}
	if changed("done") {
		p.Completed = &done
	}
	return p, nil
}

func newTaskMvCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "mv ID up|down",
		Aliases:   []string{"move"},
		Short:     "Move a task one place in the manual order",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(store.Up), string(store.Down)},
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			dir, err := store.ParseDirection(args[1])
			if err != nil {
				return err
			}
			s := e.Store()
			id, err := resolve("task", args[0], taskRefs(s.Tasks()))
			if err != nil {
				return err
			}
			task, _ := s.Task(id)
			if !s.MoveTask(id, dir) {
				edge := "top"
				if dir == store.Down {
					edge = "bottom"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already at the %s.\n", task.Title, edge)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Moved %s: %s (position %d)\n", dir, task.Title, s.TaskPosition(id)+1)
			return nil
		}),
	}
}

func newInboxCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Capture and review backlog tasks",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			now := s.Now()
			printTasks(cmd.OutOrStdout(), views.Inbox(s.Tasks(), now), now)
			return nil
		}),
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add TITLE...",
		Short: "Quick-capture a task due tomorrow",
		Args:  cobra.MinimumNArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("task title is required")
			}
			s := e.Store()
			task := s.AddTask(views.QuickCapture(title, s.Now()))
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Captured: %s (%s)\n", task.Title, shortID(task.ID))
			return nil
		}),
	})
	return cmd
}
