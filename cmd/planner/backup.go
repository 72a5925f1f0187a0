package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"planner/internal/backup"
	"planner/internal/store"
)

func (e *env) backups() *backup.Manager {
	dir := filepath.Join(e.cfg.GetDataDir(), backup.BackupsDir)
	return backup.NewManager(e.backend, dir, version, store.Keys())
}

func newBackupCmd(opts *rootOptions) *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create and manage backups",
		Long: `Creates a timestamped backup of all your data (tasks, habits, projects).
Backups are stored in <data dir>/backups/ and can be restored later.`,
		Example: `  planner backup
  planner backup --list
  planner backup prune --keep 5`,
		Args: cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			m := e.backups()
			if list {
				return listBackups(cmd.OutOrStdout(), m)
			}
			return createBackup(cmd, e, m)
		}),
	}
	cmd.Flags().BoolVarP(&list, "list", "l", false, "list available backups")
	cmd.AddCommand(newBackupPruneCmd(opts))
	return cmd
}

func createBackup(cmd *cobra.Command, e *env, m *backup.Manager) error {
	name, err := m.Create(cmd.Context())
	if err != nil {
		return fmt.Errorf("create backup: %w", err)
	}
	info, err := m.Get(name)
	if err != nil {
		return fmt.Errorf("read backup info: %w", err)
	}
	e.log.Info("backup created", "name", name)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Backup created: %s\n", name)
	fmt.Fprintf(out, "  %s\n", statsLine(info.Stats))
	fmt.Fprintf(out, "  Location: %s\n", info.Path)
	return nil
}

func listBackups(w io.Writer, m *backup.Manager) error {
	backups, err := m.List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Fprintln(w, "No backups available.")
		fmt.Fprintln(w, "Run 'planner backup' to create one.")
		return nil
	}

	fmt.Fprintln(w, "Available backups:")
	for _, b := range backups {
		fmt.Fprintf(w, "  %s  (%s)   %s\n", b.Name, humanize.Time(b.CreatedAt), statsLine(b.Stats))
	}
	return nil
}

func statsLine(stats map[string]int) string {
	return fmt.Sprintf("Tasks: %d, Habits: %d, Projects: %d",
		stats[store.KeyTasks], stats[store.KeyHabits], stats[store.KeyProjects])
}

func newBackupPruneCmd(opts *rootOptions) *cobra.Command {
	var keep int
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete all but the most recent backups",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			if keep < 1 {
				return errors.New("--keep must be at least 1")
			}
			removed, err := e.backups().Prune(keep)
			if err != nil {
				return fmt.Errorf("prune backups: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Removed %d old %s, kept %d\n",
				removed, plural(removed, "backup", "backups"), keep)
			return nil
		}),
	}
	cmd.Flags().IntVarP(&keep, "keep", "k", 10, "number of backups to keep")
	return cmd
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
