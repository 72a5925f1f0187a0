package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"planner/internal/importer"
	"planner/internal/store"
)

const previewLimit = 20

func newImportCmd(opts *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import FORMAT FILE",
		Short: "Import tasks from Todoist or Taskwarrior",
		Long: `Import tasks from other apps.

FORMATS:
    todoist       Todoist CSV backup (Settings → Backups → Download)
    taskwarrior   Output of 'task export' (JSON array or one object per line)

Tasks without a due date land in the inbox, due tomorrow. Source projects
that name a built-in category become the category; others are kept in the
description. Completed tasks are imported as done.`,
		Example: `  planner import todoist ~/Downloads/Todoist_backup.csv
  task export > tasks.json && planner import taskwarrior tasks.json
  planner import --dry-run todoist backup.csv`,
		Args:      cobra.ExactArgs(2),
		ValidArgs: importer.SupportedFormats(),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			imp := importer.Get(args[0])
			if imp == nil {
				return fmt.Errorf("unknown format %q (supported: %s)",
					args[0], strings.Join(importer.SupportedFormats(), ", "))
			}

			file, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer file.Close()

			if dryRun {
				return previewImport(cmd.OutOrStdout(), imp, file)
			}

			res, err := importer.Run(imp, file, e.Store())
			if err != nil {
				return err
			}
			e.log.Info("import finished", "format", imp.Name(), "imported", res.Imported, "skipped", res.Skipped)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Imported %d %s from %s\n", res.Imported, plural(res.Imported, "task", "tasks"), imp.Name())
			if res.Completed > 0 {
				fmt.Fprintf(out, "  %d marked done\n", res.Completed)
			}
			if res.Skipped > 0 {
				fmt.Fprintf(out, "  %d skipped\n", res.Skipped)
			}
			return nil
		}),
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview the import without changing anything")
	return cmd
}

func previewImport(w io.Writer, imp importer.Importer, r io.Reader) error {
	tasks, skipped, err := imp.Preview(r)
	if err != nil {
		return fmt.Errorf("parse %s file: %w", imp.Name(), err)
	}
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found to import.")
		return nil
	}

	fmt.Fprintf(w, "Preview: %d %s to import\n", len(tasks), plural(len(tasks), "task", "tasks"))
	fmt.Fprintln(w, "────────────────────────────")
	for _, t := range tasks[:min(len(tasks), previewLimit)] {
		fmt.Fprintf(w, "  %s", t.Title)

		var details []string
		if t.Project != "" {
			details = append(details, t.Project)
		}
		if t.Priority != "" {
			details = append(details, string(t.Priority))
		}
		if t.DueDate != nil {
			details = append(details, t.DueDate.Format(store.DateLayout))
		}
		if t.Done {
			details = append(details, "done")
		}
		if len(details) > 0 {
			fmt.Fprintf(w, " (%s)", strings.Join(details, ", "))
		}
		fmt.Fprintln(w)
	}
	if len(tasks) > previewLimit {
		fmt.Fprintf(w, "  ... and %d more\n", len(tasks)-previewLimit)
	}
	if skipped > 0 {
		fmt.Fprintf(w, "  (%d rows skipped)\n", skipped)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run without --dry-run to import.")
	return nil
}
