package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"planner/internal/store"
)

func newProjectCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "project",
		Aliases: []string{"projects"},
		Short:   "Track longer-running projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(opts),
		newProjectListCmd(opts),
		newProjectRmCmd(opts),
		newProjectProgressCmd(opts),
	)
	return cmd
}

func newProjectAddCmd(opts *rootOptions) *cobra.Command {
	var description, category string
	cmd := &cobra.Command{
		Use:   "add [TITLE...]",
		Short: "Add a project (opens a form when no title is given)",
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				if !isInteractive() {
					return errors.New("project title is required")
				}
				if err := projectForm(&title, &description, &category); err != nil {
					return err
				}
				title = strings.TrimSpace(title)
			}
			cat := parseCategory(category)
			if cat == "" {
				cat = store.CategoryProject
			}
			p := e.Store().AddProject(title, strings.TrimSpace(description), cat)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added project: %s (%s)\n", p.Title, shortID(p.ID))
			return nil
		}),
	}
	cmd.Flags().StringVar(&description, "desc", "", "description")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (default Project)")
	return cmd
}

func newProjectListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects with their progress",
		Args:    cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			projects := e.Store().Projects()
			out := cmd.OutOrStdout()
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects.")
				return nil
			}
			for _, p := range projects {
				fmt.Fprintf(out, "%s %3d%%  %s  (%s, %s)\n",
					progressBar(p.Progress, 10), p.Progress, p.Title, shortID(p.ID), p.Category)
				if p.Description != "" {
					fmt.Fprintf(out, "            %s\n", p.Description)
				}
			}
			return nil
		}),
	}
}

func progressBar(progress, width int) string {
	filled := progress * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func newProjectRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a project",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			id, err := resolve("project", args[0], projectRefs(s.Projects()))
			if err != nil {
				return err
			}
			p, _ := s.Project(id)
			s.DeleteProject(id)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted: %s\n", p.Title)
			return nil
		}),
	}
}

func newProjectProgressCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "progress ID VALUE",
		Short: "Set a project's progress (0-100, or +N/-N relative)",
		Example: `  planner project progress roadmap 40
  planner project progress roadmap +10`,
		Args: cobra.ExactArgs(2),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			id, err := resolve("project", args[0], projectRefs(s.Projects()))
			if err != nil {
				return err
			}
			p, _ := s.Project(id)
			next, err := parseProgress(args[1], p.Progress)
			if err != nil {
				return err
			}
			s.SetProjectProgress(id, next)
			p, _ = s.Project(id)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %d%%\n", p.Title, p.Progress)
			return nil
		}),
	}
}

// parseProgress reads an absolute value or a signed step from current. The
// store clamps the result.
func parseProgress(s string, current int) (int, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid progress %q", s)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return current + n, nil
	}
	return n, nil
}
