package config

import (
	"os"
	"path/filepath"
	"testing"
)

// isolate points XDG_CONFIG_HOME at a temp dir and clears planner env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvBackend, "")
	return dir
}

func writeConfig(t *testing.T, xdg, content string) string {
	t.Helper()
	dir := filepath.Join(xdg, "planner")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.DataDir == "" {
		t.Error("DataDir should not be empty")
	}
	if cfg.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Backend)
	}
	if cfg.Theme.Primary == "" || cfg.Theme.Danger == "" {
		t.Error("theme colors should have default values")
	}
	if cfg.UX.HabitDays != 7 {
		t.Errorf("UX.HabitDays = %d, want 7", cfg.UX.HabitDays)
	}
	if cfg.UX.WeekStart != "sunday" {
		t.Errorf("UX.WeekStart = %q, want sunday", cfg.UX.WeekStart)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Theme.Primary != "#7C3AED" {
		t.Errorf("Theme.Primary = %q, want #7C3AED", cfg.Theme.Primary)
	}
}

func TestLoad_WithConfigFile(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
data_dir: /custom/data
backend: sqlite
log:
  level: debug
theme:
  primary: "#FF0000"
  accent: "#00FF00"
keys:
  move_task_up: "ctrl+k"
ux:
  habit_days: 14
  week_start: monday
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q, want /custom/data", cfg.DataDir)
	}
	if cfg.Backend != "sqlite" {
		t.Errorf("Backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.Theme.Primary != "#FF0000" || cfg.Theme.Accent != "#00FF00" {
		t.Errorf("theme = %+v", cfg.Theme)
	}
	// Muted should still be default
	if cfg.Theme.Muted != "#6B7280" {
		t.Errorf("Theme.Muted = %q, want #6B7280", cfg.Theme.Muted)
	}
	if cfg.Keys.MoveTaskUp != "ctrl+k" {
		t.Errorf("Keys.MoveTaskUp = %q, want ctrl+k", cfg.Keys.MoveTaskUp)
	}
	if cfg.UX.HabitDays != 14 || cfg.UX.WeekStart != "monday" {
		t.Errorf("UX = %+v", cfg.UX)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, "data_dir: /from/file\nbackend: sqlite\n")
	t.Setenv(EnvDataDir, "/from/env")
	t.Setenv(EnvBackend, "memory")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DataDir != "/from/env" {
		t.Errorf("DataDir = %q, want /from/env", cfg.DataDir)
	}
	if cfg.Backend != "memory" {
		t.Errorf("Backend = %q, want memory", cfg.Backend)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := map[string]string{
		"backend":    "backend: postgres\n",
		"log level":  "log:\n  level: loud\n",
		"week start": "ux:\n  week_start: friday\n",
		"bad yaml":   "theme: [unclosed\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			xdg := isolate(t)
			writeConfig(t, xdg, content)
			if _, err := Load(); err == nil {
				t.Error("Load() error = nil, want error")
			}
		})
	}
}

func TestLoadFrom_EmptyPathUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, err := LoadFrom("")
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Backend != "file" {
		t.Errorf("Backend = %q, want file", cfg.Backend)
	}
}

func TestMerge(t *testing.T) {
	base := Default()
	override := &Config{
		DataDir: "/override/path",
		Theme: ThemeConfig{
			Primary: "#CUSTOM",
		},
		Keys: KeysConfig{ProgressUp: "]", Reload: "f5"},
	}

	base.mergeNonEmpty(override)

	if base.DataDir != "/override/path" {
		t.Errorf("DataDir = %q, want /override/path", base.DataDir)
	}
	if base.Theme.Primary != "#CUSTOM" {
		t.Errorf("Theme.Primary = %q, want #CUSTOM", base.Theme.Primary)
	}
	if base.Keys.ProgressUp != "]" {
		t.Errorf("Keys.ProgressUp = %q, want ]", base.Keys.ProgressUp)
	}
	if base.Keys.Reload != "f5" {
		t.Errorf("Keys.Reload = %q, want f5", base.Keys.Reload)
	}

	// Accent should remain default
	if base.Theme.Accent != "#10B981" {
		t.Errorf("Theme.Accent = %q, want #10B981", base.Theme.Accent)
	}
}

func TestLoad_MissingBoolKeysDoesNotClobberDefaults(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
theme:
  primary: "#FF0000"
ux:
  habit_days: 10
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Omitted keys must not clobber defaults.
	if !cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want true", cfg.UX.ConfirmDeletions)
	}
	if !cfg.UX.ShowQuote {
		t.Errorf("UX.ShowQuote = %v, want true", cfg.UX.ShowQuote)
	}
}

func TestLoad_ExplicitFalseOverridesDefault(t *testing.T) {
	xdg := isolate(t)
	writeConfig(t, xdg, `
ux:
  confirm_deletions: false
  show_quote: false
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.UX.ConfirmDeletions {
		t.Errorf("UX.ConfirmDeletions = %v, want false", cfg.UX.ConfirmDeletions)
	}
	if cfg.UX.ShowQuote {
		t.Errorf("UX.ShowQuote = %v, want false", cfg.UX.ShowQuote)
	}
}

func TestGetDataDir(t *testing.T) {
	type tc struct {
		name    string
		dataDir string
		want    string
	}
	tests := []tc{
		{name: "empty uses default", dataDir: ""},
		{name: "absolute path", dataDir: "/custom/path", want: "/custom/path"},
	}

	if home, err := os.UserHomeDir(); err == nil && home != "" {
		tests = append(tests,
			tc{name: "tilde expands home", dataDir: "~", want: home},
			tc{name: "tilde path expands home", dataDir: "~/mydata", want: filepath.Join(home, "mydata")},
		)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DataDir: tt.dataDir}
			got := cfg.GetDataDir()

			if tt.dataDir == "" {
				if filepath.Base(got) != ".planner" {
					t.Errorf("GetDataDir() = %q, want to end with .planner", got)
				}
				return
			}
			if got != tt.want {
				t.Errorf("GetDataDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLogFile(t *testing.T) {
	cfg := &Config{DataDir: "/data"}
	if got, want := cfg.LogFile(), filepath.Join("/data", "logs", "planner.log"); got != want {
		t.Errorf("LogFile() = %q, want %q", got, want)
	}

	cfg.Log.File = "/var/log/planner.log"
	if got := cfg.LogFile(); got != "/var/log/planner.log" {
		t.Errorf("LogFile() = %q, want override", got)
	}
}

func TestSave(t *testing.T) {
	xdg := isolate(t)

	cfg := Default()
	cfg.DataDir = "/saved/path"
	cfg.Theme.Primary = "#SAVED"
	cfg.UX.ConfirmDeletions = false

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	configPath := filepath.Join(xdg, "planner", "config.yaml")
	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config perm = %o, want 600", perm)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.DataDir != "/saved/path" {
		t.Errorf("loaded DataDir = %q, want /saved/path", loaded.DataDir)
	}
	if loaded.Theme.Primary != "#SAVED" {
		t.Errorf("loaded Theme.Primary = %q, want #SAVED", loaded.Theme.Primary)
	}
}
