package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"planner/internal/config"
	"planner/internal/kv"
	"planner/internal/logging"
	"planner/internal/store"
	"planner/internal/ui"
)

const rootLong = `planner is a terminal productivity app that keeps tasks, daily habits
and projects in one keyboard-driven dashboard.

Run it without a command to open the TUI. The subcommands work on the same
data, so you can script captures, check-ins and reports.

DATA STORAGE:
    Data lives in ~/.planner/ (or $PLANNER_DATA_DIR). The default file
    backend keeps tasks.json, habits.json and projects.json; the sqlite
    backend keeps planner.db. Select one with $PLANNER_BACKEND or the
    "backend" config key.

CONFIGURATION:
    Optional config file: ~/.config/planner/config.yaml`

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	dataDir    string
	backend    string
}

// env is everything a command needs once configuration is resolved. The
// store is hydrated lazily so backup and restore can work on the raw values.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	backend kv.Backend
	logFile io.Closer

	store *store.Store
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if o.configPath != "" {
		cfg, err = config.LoadFrom(o.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.backend != "" {
		cfg.Backend = o.backend
	}
	return cfg, cfg.Validate()
}

func (o *rootOptions) open() (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.Init(cfg.LogFile(), cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}

	kind, err := kv.ParseKind(cfg.Backend)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	backend, err := kv.Open(kind, cfg.GetDataDir())
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("open %s backend: %w", kind, err)
	}
	logger.Debug("backend opened", "kind", kind, "data_dir", cfg.GetDataDir())

	return &env{cfg: cfg, log: logger, backend: backend, logFile: logFile}, nil
}

// Store hydrates the store on first use.
func (e *env) Store() *store.Store {
	if e.store == nil {
		e.store = store.New(e.backend, store.WithLogger(e.log))
	}
	return e.store
}

func (e *env) Close() error {
	err := e.backend.Close()
	if cerr := e.logFile.Close(); err == nil {
		err = cerr
	}
	return err
}

// run wraps a command body with opening and closing the environment.
func (o *rootOptions) run(fn func(cmd *cobra.Command, args []string, e *env) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		e, err := o.open()
		if err != nil {
			return err
		}
		defer func() {
			if cerr := e.Close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, args, e)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "planner",
		Short:         "Tasks, habits and projects in your terminal",
		Long:          rootLong,
		Version:       versionString(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: opts.run(func(cmd *cobra.Command, args []string, e *env) error {
			return ui.Run(e.Store(), ui.NewStyles(e.cfg), ui.AppConfigFrom(e.cfg))
		}),
	}
	root.SetVersionTemplate("planner {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default "+config.Path()+")")
	flags.StringVar(&opts.dataDir, "data-dir", "", "data directory (overrides $"+config.EnvDataDir+")")
	flags.StringVar(&opts.backend, "backend", "", "storage backend: file, sqlite or memory")

	root.AddCommand(
		newTaskCmd(opts),
		newInboxCmd(opts),
		newHabitCmd(opts),
		newProjectCmd(opts),
		newExportCmd(opts),
		newReportCmd(opts),
		newBackupCmd(opts),
		newRestoreCmd(opts),
		newImportCmd(opts),
		newRemindCmd(opts),
		newVersionCmd(),
	)
	return root
}
