// Package backup snapshots planner's collections out of a kv backend into
// timestamped directories and restores them back.
package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"planner/internal/fsutil"
	"planner/internal/kv"
)

// Version constants for the backup format.
const (
	ManifestVersion = "2.0"
	ManifestFile    = "manifest.json"
	BackupsDir      = "backups"

	nameLayout = "2006-01-02_150405"
)

// ErrNoBackups is returned by RestoreLatest when nothing has been saved yet.
var ErrNoBackups = errors.New("no backups available")

// Manager handles backup and restore operations.
type Manager struct {
	backend    kv.Backend
	backupDir  string   // e.g. ~/.planner/backups
	keys       []string // collection keys to snapshot
	appVersion string
	now        func() time.Time
}

// Manifest contains metadata about a backup.
type Manifest struct {
	Version    string         `json:"version"`
	CreatedAt  time.Time      `json:"created_at"`
	AppVersion string         `json:"app_version"`
	Keys       []string       `json:"keys"`
	Stats      map[string]int `json:"stats"`
}

// Info contains summary information about a backup.
type Info struct {
	Name      string // Directory name (2025-12-15_143022_123)
	Path      string
	CreatedAt time.Time
	Stats     map[string]int // items per collection key
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides time.Now, used for backup names and manifests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a manager that snapshots keys out of backend into
// backupDir.
func NewManager(backend kv.Backend, backupDir, appVersion string, keys []string, opts ...Option) *Manager {
	m := &Manager{
		backend:    backend,
		backupDir:  backupDir,
		keys:       slices.Clone(keys),
		appVersion: appVersion,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Dir returns the directory holding all backups.
func (m *Manager) Dir() string { return m.backupDir }

// Create writes every present key to a new backup directory and returns its
// name. Absent keys are skipped.
func (m *Manager) Create(ctx context.Context) (string, error) {
	if err := fsutil.EnsureDir(m.backupDir); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.now()
	name, backupPath, err := m.reserve(now)
	if err != nil {
		return "", err
	}

	var saved []string
	stats := make(map[string]int)

	for _, key := range m.keys {
		data, ok, err := m.backend.Get(ctx, key)
		if err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to read %s: %w", key, err)
		}
		if !ok {
			continue
		}

		if err := fsutil.WriteFileAtomic(filepath.Join(backupPath, key+".json"), data, fsutil.FilePerm); err != nil {
			_ = os.RemoveAll(backupPath)
			return "", fmt.Errorf("failed to copy %s: %w", key, err)
		}
		saved = append(saved, key)

		if n, err := countItems(data); err == nil {
			stats[key] = n
		}
	}

	manifest := Manifest{
		Version:    ManifestVersion,
		CreatedAt:  now.UTC(),
		AppVersion: m.appVersion,
		Keys:       saved,
		Stats:      stats,
	}
	if err := writeJSON(filepath.Join(backupPath, ManifestFile), manifest); err != nil {
		_ = os.RemoveAll(backupPath)
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}

	return name, nil
}

// reserve creates a fresh backup directory named after now. Names carry
// milliseconds; on collision the timestamp is bumped a millisecond at a time.
func (m *Manager) reserve(now time.Time) (string, string, error) {
	t := now.UTC()
	for range 1000 {
		name := formatName(t)
		path := filepath.Join(m.backupDir, name)
		err := os.Mkdir(path, fsutil.DirPerm)
		if err == nil {
			return name, path, nil
		}
		if !os.IsExist(err) {
			return "", "", fmt.Errorf("failed to create backup: %w", err)
		}
		t = t.Add(time.Millisecond)
	}
	return "", "", fmt.Errorf("failed to create backup: no free name near %s", formatName(now.UTC()))
}

// List returns all available backups, newest first.
func (m *Manager) List() ([]Info, error) {
	if !fsutil.Exists(m.backupDir) {
		return []Info{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	backups := []Info{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		info, err := m.info(entry.Name())
		if err != nil {
			continue // not one of ours
		}
		backups = append(backups, *info)
	}

	slices.SortFunc(backups, func(a, b Info) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.Name, a.Name)
	})
	return backups, nil
}

// Get returns information about a specific backup.
func (m *Manager) Get(name string) (*Info, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !fsutil.Exists(filepath.Join(m.backupDir, name)) {
		return nil, fmt.Errorf("backup not found: %s", name)
	}
	return m.info(name)
}

func (m *Manager) info(name string) (*Info, error) {
	backupPath := filepath.Join(m.backupDir, name)

	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err != nil {
		createdAt, parseErr := parseName(name)
		if parseErr != nil {
			return nil, fmt.Errorf("invalid backup: %s", name)
		}
		manifest.CreatedAt = createdAt
		manifest.Stats = make(map[string]int)
	}

	return &Info{
		Name:      name,
		Path:      backupPath,
		CreatedAt: manifest.CreatedAt,
		Stats:     manifest.Stats,
	}, nil
}

// Restore writes a backup's collections back into the backend. Every file is
// validated before anything is written, and a safety backup of the current
// state is taken first. The returned name is that safety backup.
func (m *Manager) Restore(ctx context.Context, name string) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	backupPath := filepath.Join(m.backupDir, name)
	if !fsutil.Exists(backupPath) {
		return "", fmt.Errorf("backup not found: %s", name)
	}

	keys := m.keys
	var manifest Manifest
	if err := readJSON(filepath.Join(backupPath, ManifestFile), &manifest); err == nil {
		keys = manifest.Keys
	}
	for _, key := range keys {
		if err := kv.ValidKey(key); err != nil {
			return "", fmt.Errorf("backup %s manifest: %w", name, err)
		}
	}

	payload := make(map[string][]byte, len(keys))
	for _, key := range keys {
		data, err := os.ReadFile(filepath.Join(backupPath, key+".json"))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to read %s from backup: %w", key, err)
		}
		if _, err := countItems(data); err != nil {
			return "", fmt.Errorf("backup %s has invalid %s: %w", name, key, err)
		}
		payload[key] = data
	}

	safety, err := m.Create(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to create safety backup: %w", err)
	}

	for _, key := range keys {
		data, ok := payload[key]
		if !ok {
			continue
		}
		if err := m.backend.Set(ctx, key, data); err != nil {
			return safety, fmt.Errorf("failed to restore %s (safety backup: %s): %w", key, safety, err)
		}
	}
	return safety, nil
}

// RestoreLatest restores from the most recent backup and returns its name.
func (m *Manager) RestoreLatest(ctx context.Context) (string, error) {
	backups, err := m.List()
	if err != nil {
		return "", err
	}
	if len(backups) == 0 {
		return "", ErrNoBackups
	}
	if _, err := m.Restore(ctx, backups[0].Name); err != nil {
		return "", err
	}
	return backups[0].Name, nil
}

// Delete removes a specific backup.
func (m *Manager) Delete(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	backupPath := filepath.Join(m.backupDir, name)
	if !fsutil.Exists(backupPath) {
		return fmt.Errorf("backup not found: %s", name)
	}
	return os.RemoveAll(backupPath)
}

// Prune removes old backups, keeping only the keep most recent.
func (m *Manager) Prune(keep int) (int, error) {
	if keep < 0 {
		return 0, fmt.Errorf("keep must be non-negative")
	}

	backups, err := m.List()
	if err != nil {
		return 0, err
	}
	if len(backups) <= keep {
		return 0, nil
	}

	deleted := 0
	for _, b := range backups[keep:] {
		if err := m.Delete(b.Name); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

// ============================================================================
// Helpers
// ============================================================================

func formatName(t time.Time) string {
	return fmt.Sprintf("%s_%03d", t.Format(nameLayout), t.Nanosecond()/1e6)
}

// parseName accepts 2006-01-02_150405 and 2006-01-02_150405_XXX.
func parseName(name string) (time.Time, error) {
	if len(name) == len(nameLayout)+4 {
		base, err := time.Parse(nameLayout, name[:len(nameLayout)])
		if err != nil {
			return time.Time{}, err
		}
		if name[len(nameLayout)] != '_' {
			return time.Time{}, fmt.Errorf("invalid backup format")
		}
		ms, err := strconv.Atoi(name[len(nameLayout)+1:])
		if err != nil || ms < 0 || ms > 999 {
			return time.Time{}, fmt.Errorf("invalid milliseconds")
		}
		return base.Add(time.Duration(ms) * time.Millisecond), nil
	}
	return time.Parse(nameLayout, name)
}

func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("backup name is required")
	}
	if name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	if _, err := parseName(name); err != nil {
		return fmt.Errorf("invalid backup name: %q", name)
	}
	return nil
}

// countItems reports the length of a JSON array; null counts as empty.
func countItems(data []byte) (int, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, err
	}
	return len(items), nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, fsutil.FilePerm)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
