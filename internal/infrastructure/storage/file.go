// internal/infrastructure/storage/file.go
package storage

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileAdapter persists each key as a JSON file under a base directory.
// This is the durability mechanism for single-node deployments without
// Redis or Postgres.
type FileAdapter struct {
	dir string
}

// NewFileAdapter creates the base directory if needed
func NewFileAdapter(dir string) (*FileAdapter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileAdapter{dir: dir}, nil
}

// Load retrieves the value stored under key
func (f *FileAdapter) Load(_ context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}
	return data, nil
}

// Save writes the value to a temp file and renames it into place so a
// crash mid-write never leaves a truncated record behind.
func (f *FileAdapter) Save(_ context.Context, key string, data []byte) error {
	target := f.path(key)

	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to persist %q: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting an absent key is not an error
func (f *FileAdapter) Delete(_ context.Context, key string) error {
	err := os.Remove(f.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// path maps a key to a file name. Keys contain session IDs which are
// already filesystem-safe, but colons are replaced and anything else
// unexpected is hex-escaped.
func (f *FileAdapter) path(key string) string {
	safe := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			return r
		case r == ':':
			return '_'
		default:
			return -1
		}
	}, key)
	if safe == "" {
		safe = hex.EncodeToString([]byte(key))
	}
	return filepath.Join(f.dir, safe+".json")
}
