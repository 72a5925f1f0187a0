package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"planner/internal/backup"
)

func newRestoreCmd(opts *rootOptions) *cobra.Command {
	var latest, force bool
	cmd := &cobra.Command{
		Use:   "restore [NAME]",
		Short: "Restore data from a backup",
		Long: `Restores tasks, habits and projects from a backup.

A safety backup of the current data is always created first, so a restore
can itself be undone with another restore.`,
		Example: `  planner restore --latest
  planner restore 2025-03-14_093000_250 --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			m := e.backups()
			name, err := restoreTarget(m, args, latest)
			if err != nil {
				return err
			}
			info, err := m.Get(name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Restoring from backup: %s\n", info.Name)
			fmt.Fprintf(out, "  Created: %s\n", info.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(out, "  %s\n\n", statsLine(info.Stats))

			if !force {
				if !isInteractive() {
					return errors.New("restore overwrites your current data; pass --force to confirm")
				}
				ok, err := confirm("This will overwrite your current data. Continue?")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Restore cancelled.")
					return nil
				}
			}

			safety, err := m.Restore(cmd.Context(), name)
			if err != nil {
				return fmt.Errorf("restore backup: %w", err)
			}
			e.log.Info("backup restored", "name", name, "safety", safety)

			snap := e.Store().Snapshot()
			fmt.Fprintf(out, "✓ Safety backup: %s\n", safety)
			fmt.Fprintf(out, "✓ Restored from backup: %s\n", name)
			fmt.Fprintf(out, "  Tasks: %d, Habits: %d, Projects: %d\n",
				len(snap.Tasks), len(snap.Habits), len(snap.Projects))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "restore the most recent backup")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip the confirmation prompt")
	return cmd
}

func restoreTarget(m *backup.Manager, args []string, latest bool) (string, error) {
	switch {
	case latest && len(args) > 0:
		return "", errors.New("pass a backup name or --latest, not both")
	case len(args) > 0:
		return args[0], nil
	case !latest:
		return "", errors.New("no backup specified: use 'planner restore NAME' or 'planner restore --latest'\n" +
			"Run 'planner backup --list' to see available backups.")
	}

	backups, err := m.List()
	if err != nil {
		return "", fmt.Errorf("list backups: %w", err)
	}
	if len(backups) == 0 {
		return "", backup.ErrNoBackups
	}
	return backups[0].Name, nil
}
