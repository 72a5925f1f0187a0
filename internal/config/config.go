// Package config handles configuration loading and defaults for planner.
// Configuration is loaded from XDG-compliant paths (typically ~/.config/planner/config.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"planner/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvDataDir = "PLANNER_DATA_DIR"
	EnvBackend = "PLANNER_BACKEND"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.planner)
	DataDir string `yaml:"data_dir,omitempty"`

	// Backend selects where collections are stored: file, sqlite or memory
	Backend string `yaml:"backend,omitempty"`

	Log LogConfig `yaml:"log,omitempty"`

	// Theme customizes the visual appearance
	Theme ThemeConfig `yaml:"theme,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// UX customizes user experience settings
	UX UXConfig `yaml:"ux,omitempty"`
}

// LogConfig controls the log file.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// File overrides <data_dir>/logs/planner.log
	File string `yaml:"file,omitempty"`
}

// ThemeConfig defines color and style settings.
type ThemeConfig struct {
	// Primary color for focused elements (hex, e.g., "#FF5733")
	Primary string `yaml:"primary,omitempty"`

	// Accent color for highlights (hex)
	Accent string `yaml:"accent,omitempty"`

	// Muted color for secondary text (hex)
	Muted string `yaml:"muted,omitempty"`

	// Danger color for overdue items and delete prompts (hex)
	Danger string `yaml:"danger,omitempty"`

	// Background color (hex)
	Background string `yaml:"background,omitempty"`

	// Text color (hex)
	Text string `yaml:"text,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings.
// Examples: "q,ctrl+c", "tab", "j,down"
type KeysConfig struct {
	// Global keys
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	NextPane string `yaml:"next_pane,omitempty"` // default: "tab"
	Pane1    string `yaml:"pane_1,omitempty"`    // default: "1"
	Pane2    string `yaml:"pane_2,omitempty"`    // default: "2"
	Pane3    string `yaml:"pane_3,omitempty"`    // default: "3"

	// Navigation keys
	Up     string `yaml:"up,omitempty"`     // default: "k,up"
	Down   string `yaml:"down,omitempty"`   // default: "j,down"
	Top    string `yaml:"top,omitempty"`    // default: "g"
	Bottom string `yaml:"bottom,omitempty"` // default: "G"

	// Task keys
	AddTask      string `yaml:"add_task,omitempty"`       // default: "a"
	ToggleTask   string `yaml:"toggle_task,omitempty"`    // default: "d,enter,space"
	DeleteTask   string `yaml:"delete_task,omitempty"`    // default: "x"
	MoveTaskUp   string `yaml:"move_task_up,omitempty"`   // default: "K,shift+up"
	MoveTaskDown string `yaml:"move_task_down,omitempty"` // default: "J,shift+down"
	ToggleView   string `yaml:"toggle_view,omitempty"`    // default: "v"

	// Habit keys
	AddHabit    string `yaml:"add_habit,omitempty"`    // default: "a"
	ToggleHabit string `yaml:"toggle_habit,omitempty"` // default: "d,enter,space"
	DeleteHabit string `yaml:"delete_habit,omitempty"` // default: "x"

	// Project keys
	AddProject    string `yaml:"add_project,omitempty"`    // default: "a"
	DeleteProject string `yaml:"delete_project,omitempty"` // default: "x"
	ProgressUp    string `yaml:"progress_up,omitempty"`    // default: "+,="
	ProgressDown  string `yaml:"progress_down,omitempty"`  // default: "-"

	// Input keys
	Confirm string `yaml:"confirm,omitempty"` // default: "enter"
	Cancel  string `yaml:"cancel,omitempty"`  // default: "esc"

	// Undo/Redo keys
	Undo string `yaml:"undo,omitempty"` // default: "ctrl+z,u"
	Redo string `yaml:"redo,omitempty"` // default: "ctrl+y"

	// Reload re-reads the data from storage
	Reload string `yaml:"reload,omitempty"` // default: "ctrl+r"
}

// UXConfig defines user experience settings.
type UXConfig struct {
	// ConfirmDeletions shows confirmation dialogs before deleting items
	ConfirmDeletions bool `yaml:"confirm_deletions,omitempty"` // default: true

	// NarrowLayoutThreshold is the terminal width below which to use stacked layout
	NarrowLayoutThreshold int `yaml:"narrow_layout_threshold,omitempty"` // default: 80

	// HabitDays is how many days of history the habit grid shows
	HabitDays int `yaml:"habit_days,omitempty"` // default: 7

	// WeekStart is the first day of weekly reports: sunday or monday
	WeekStart string `yaml:"week_start,omitempty"` // default: "sunday"

	// ShowQuote shows the daily quote above the panes
	ShowQuote bool `yaml:"show_quote,omitempty"` // default: true
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Backend: "file",
		Log: LogConfig{
			Level: "info",
		},
		Theme: ThemeConfig{
			Primary:    "#7C3AED", // Violet
			Accent:     "#10B981", // Emerald
			Muted:      "#6B7280", // Gray
			Danger:     "#EF4444", // Red
			Background: "",        // Terminal default
			Text:       "",        // Terminal default
		},
		UX: UXConfig{
			ConfirmDeletions:      true,
			NarrowLayoutThreshold: 80,
			HabitDays:             7,
			WeekStart:             "sunday",
			ShowQuote:             true,
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".planner"
	}
	return filepath.Join(home, ".planner")
}

// configDir returns the configuration directory path (XDG compliant).
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "planner")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "planner")
}

// Path returns the path to the config file, or "" when no home is known.
func Path() string {
	dir := configDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the default path, merging with defaults and
// applying environment overrides. A missing file yields the defaults.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom is Load with an explicit file path. An empty path skips the file.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			var userCfg Config
			if err := yaml.Unmarshal(data, &userCfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
			var doc yaml.Node
			_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails
			cfg.mergeFromYAML(&userCfg, &doc)
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDataDir)); v != "" {
		c.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvBackend)); v != "" {
		c.Backend = v
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case "", "file", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid backend %q: use file, sqlite or memory", c.Backend)
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.UX.WeekStart) {
	case "", "sunday", "monday":
	default:
		return fmt.Errorf("invalid week_start %q: use sunday or monday", c.UX.WeekStart)
	}
	return nil
}

// mergeNonEmpty applies non-empty values from other to c.
// It intentionally does not touch booleans (those require presence-aware merging).
func (c *Config) mergeNonEmpty(other *Config) {
	setIf(&c.DataDir, other.DataDir)
	setIf(&c.Backend, other.Backend)
	setIf(&c.Log.Level, other.Log.Level)
	setIf(&c.Log.File, other.Log.File)

	setIf(&c.Theme.Primary, other.Theme.Primary)
	setIf(&c.Theme.Accent, other.Theme.Accent)
	setIf(&c.Theme.Muted, other.Theme.Muted)
	setIf(&c.Theme.Danger, other.Theme.Danger)
	setIf(&c.Theme.Background, other.Theme.Background)
	setIf(&c.Theme.Text, other.Theme.Text)

	k, o := &c.Keys, &other.Keys
	for _, pair := range []keyPair{
		{&k.Quit, o.Quit}, {&k.Help, o.Help}, {&k.NextPane, o.NextPane},
		{&k.Pane1, o.Pane1}, {&k.Pane2, o.Pane2}, {&k.Pane3, o.Pane3},
		{&k.Up, o.Up}, {&k.Down, o.Down}, {&k.Top, o.Top}, {&k.Bottom, o.Bottom},
		{&k.AddTask, o.AddTask}, {&k.ToggleTask, o.ToggleTask}, {&k.DeleteTask, o.DeleteTask},
		{&k.MoveTaskUp, o.MoveTaskUp}, {&k.MoveTaskDown, o.MoveTaskDown}, {&k.ToggleView, o.ToggleView},
		{&k.AddHabit, o.AddHabit}, {&k.ToggleHabit, o.ToggleHabit}, {&k.DeleteHabit, o.DeleteHabit},
		{&k.AddProject, o.AddProject}, {&k.DeleteProject, o.DeleteProject},
		{&k.ProgressUp, o.ProgressUp}, {&k.ProgressDown, o.ProgressDown},
		{&k.Confirm, o.Confirm}, {&k.Cancel, o.Cancel},
		{&k.Undo, o.Undo}, {&k.Redo, o.Redo}, {&k.Reload, o.Reload},
	} {
		setIf(pair.dst, pair.src)
	}

	if other.UX.NarrowLayoutThreshold > 0 {
		c.UX.NarrowLayoutThreshold = other.UX.NarrowLayoutThreshold
	}
	if other.UX.HabitDays > 0 {
		c.UX.HabitDays = other.UX.HabitDays
	}
	setIf(&c.UX.WeekStart, other.UX.WeekStart)
}

type keyPair struct {
	dst *string
	src string
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a parsed document we can't tell an explicit false from an
	// omitted key, so booleans keep their defaults.
	if doc == nil || len(doc.Content) == 0 {
		return
	}

	if yamlHasPath(doc, "ux", "confirm_deletions") {
		c.UX.ConfirmDeletions = other.UX.ConfirmDeletions
	}
	if yamlHasPath(doc, "ux", "show_quote") {
		c.UX.ShowQuote = other.UX.ShowQuote
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	// Document -> root mapping.
	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the configuration to path atomically.
func (c *Config) SaveTo(path string) error {
	if path == "" {
		return nil
	}
	if err := fsutil.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("serialize config: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data, fsutil.FilePerm)
}

// GetDataDir returns the resolved data directory path.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// LogFile returns the resolved log file path.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return expandHome(c.Log.File)
	}
	return filepath.Join(c.GetDataDir(), "logs", "planner.log")
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
