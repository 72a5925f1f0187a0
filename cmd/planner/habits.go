package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/store"
	"planner/internal/views"
)

func newHabitCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "habit",
		Aliases: []string{"habits"},
		Short:   "Track daily habits",
	}
	cmd.AddCommand(
		newHabitAddCmd(opts),
		newHabitListCmd(opts),
		newHabitToggleCmd(opts),
		newHabitRmCmd(opts),
	)
	return cmd
}

func newHabitAddCmd(opts *rootOptions) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a habit",
		Args:  cobra.MinimumNArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if title == "" {
				return errors.New("habit title is required")
			}
			cat := parseCategory(category)
			if cat == "" {
				cat = store.CategoryHealth
			}
			h := e.Store().AddHabit(title, cat)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Added habit: %s (%s)\n", h.Title, shortID(h.ID))
			return nil
		}),
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "category (default Health)")
	return cmd
}

func newHabitListCmd(opts *rootOptions) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show habits with their recent check-ins",
		Args:    cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			if !cmd.Flags().Changed("days") {
				days = e.cfg.UX.HabitDays
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive, got %d", days)
			}

			s := e.Store()
			habits := s.Habits()
			out := cmd.OutOrStdout()
			if len(habits) == 0 {
				fmt.Fprintln(out, "No habits yet.")
				return nil
			}

			dates := views.LastDays(s.Now(), days)
			best := 0
			for _, h := range habits {
				var grid strings.Builder
				done := 0
				for _, d := range views.HabitGrid(h, dates) {
					if d.Done {
						grid.WriteString("●")
						done++
					} else {
						grid.WriteString("○")
					}
				}
				fmt.Fprintf(out, "%s %d/%d  🔥%-3d %s  (%s, %s)\n",
					grid.String(), done, days, h.Streak, h.Title, shortID(h.ID), h.Category)
				best = max(best, h.Streak)
			}
			fmt.Fprintf(out, "\nBest streak: %d days\n", best)
			return nil
		}),
	}
	cmd.Flags().IntVar(&days, "days", 7, "days of history to show (default from config)")
	return cmd
}

func newHabitToggleCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:     "toggle ID",
		Aliases: []string{"done", "check"},
		Short:   "Check a habit in or out for a day",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			day := store.DateString(s.Now())
			if date != "" {
				t, err := time.Parse(store.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", date)
				}
				day = t.Format(store.DateLayout)
			}

			id, err := resolve("habit", args[0], habitRefs(s.Habits()))
			if err != nil {
				return err
			}
			s.ToggleHabit(id, day)
			h, _ := s.Habit(id)
			if h.DoneOn(day) {
				fmt.Fprintf(cmd.OutOrStdout(), "✓ Checked in: %s on %s (streak %d)\n", h.Title, day, h.Streak)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "○ Unchecked: %s on %s (streak %d)\n", h.Title, day, h.Streak)
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "day to toggle as YYYY-MM-DD (default today)")
	return cmd
}

func newHabitRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a habit and its history",
		Args:    cobra.ExactArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			s := e.Store()
			id, err := resolve("habit", args[0], habitRefs(s.Habits()))
			if err != nil {
				return err
			}
			h, _ := s.Habit(id)
			s.DeleteHabit(id)
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted: %s\n", h.Title)
			return nil
		}),
	}
}
