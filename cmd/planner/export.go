package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"planner/internal/export"
	"planner/internal/fsutil"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, collection, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export data as JSON, YAML or CSV",
		Long: `Export writes the stored collections to stdout or a file.

CSV output of a single collection is one table. With --collection all it
carries one section per collection: a "# tasks" style marker row, then that
collection's header row and records, with a blank line between sections.`,
		Example: `  planner export > planner.json
  planner export --format csv --collection tasks -o tasks.csv
  planner export --format yaml`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			c, err := export.ParseCollection(collection)
			if err != nil {
				return err
			}

			snap := e.Store().Snapshot()
			if output == "" || output == "-" {
				return export.Write(cmd.OutOrStdout(), snap, f, c)
			}

			var buf bytes.Buffer
			if err := export.Write(&buf, snap, f, c); err != nil {
				return err
			}
			if err := fsutil.WriteFileAtomic(output, buf.Bytes(), fsutil.FilePerm); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "✓ Exported %s as %s to %s\n", c, f, output)
			return nil
		}),
	}
	flags := cmd.Flags()
	flags.StringVarP(&format, "format", "f", "json", "json, yaml or csv")
	flags.StringVar(&collection, "collection", "all", "all, tasks, habits or projects")
	flags.StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
