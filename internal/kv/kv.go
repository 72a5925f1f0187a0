// Package kv provides the key-value backing stores that planner persists its
// collections to. Every backend stores opaque byte values under string keys.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"planner/internal/fsutil"
)

// ErrClosed is returned by operations on a backend after Close.
var ErrClosed = errors.New("kv: backend closed")

// Backend is a string-keyed byte store.
type Backend interface {
	// Get returns the value stored under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// Quarantiner is implemented by backends that can move a malformed value
// aside instead of losing it. The returned string names where it went.
type Quarantiner interface {
	Quarantine(ctx context.Context, key string) (string, error)
}

// Kind selects a backend implementation.
type Kind string

const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindMemory Kind = "memory"
)

// SQLiteFileName is the database file used by the sqlite backend inside the
// data directory.
const SQLiteFileName = "planner.db"

// ParseKind normalizes a configured backend name. The empty string selects
// the file backend.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case "", KindFile:
		return KindFile, nil
	case KindSQLite:
		return KindSQLite, nil
	case KindMemory:
		return KindMemory, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want file, sqlite or memory)", s)
	}
}

// Open constructs the backend of the given kind rooted at dataDir.
func Open(kind Kind, dataDir string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFile(dataDir)
	case KindSQLite:
		if err := fsutil.EnsureDir(dataDir); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		return NewSQLite(filepath.Join(dataDir, SQLiteFileName))
	case KindMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", kind)
	}
}
