package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"planner/internal/reports"
	"planner/internal/store"
)

const reportWrap = 80

func newReportCmd(opts *rootOptions) *cobra.Command {
	var (
		weekly bool
		format string
		date   string
		render bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a daily or weekly report",
		Example: `  planner report
  planner report --weekly --render
  planner report --format json --date 2025-03-14`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "markdown" && format != "md" && format != "json" {
				return fmt.Errorf("invalid format %q: use markdown or json", format)
			}
			if render && format == "json" {
				return fmt.Errorf("--render only applies to markdown")
			}

			s := e.Store()
			day := s.Now()
			if date != "" {
				t, err := time.Parse(store.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid date %q: use YYYY-MM-DD", date)
				}
				day = t
			}

			gen := reports.NewGenerator(s,
				reports.WithClock(s.Now),
				reports.WithHabitDays(e.cfg.UX.HabitDays),
				reports.WithWeekStart(reports.ParseWeekStart(e.cfg.UX.WeekStart)),
			)

			var (
				out string
				err error
			)
			if weekly {
				out, err = weeklyReport(gen.GenerateWeekly(day), format)
			} else {
				out, err = dailyReport(gen.GenerateDaily(day), format)
			}
			if err != nil {
				return err
			}

			if render {
				if out, err = renderMarkdown(out); err != nil {
					return err
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.BoolVarP(&weekly, "weekly", "w", false, "report on the week containing --date")
	flags.StringVarP(&format, "format", "f", "markdown", "markdown or json")
	flags.StringVar(&date, "date", "", "report date as YYYY-MM-DD (default today)")
	flags.BoolVarP(&render, "render", "r", false, "render markdown for the terminal")
	return cmd
}

func dailyReport(r *reports.DailyReport, format string) (string, error) {
	if format == "json" {
		data, err := reports.FormatDailyJSON(r)
		return string(data) + "\n", err
	}
	return reports.FormatDailyMarkdown(r), nil
}

func weeklyReport(r *reports.WeeklyReport, format string) (string, error) {
	if format == "json" {
		data, err := reports.FormatWeeklyJSON(r)
		return string(data) + "\n", err
	}
	return reports.FormatWeeklyMarkdown(r), nil
}

func renderMarkdown(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(reportWrap),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return out, nil
}
