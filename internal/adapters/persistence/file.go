package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/protecthire/protecthire/internal/domain/guard"
)

// FileBackend keeps the directory as one JSON document on disk.
type FileBackend struct {
	path string
}

// NewFileBackend stores the snapshot at path, creating parent directories.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: storage path", ErrMissingSetting)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileBackend{path: path}, nil
}

// Name implements repository.Backend.
func (*FileBackend) Name() string { return "file" }

// Load implements repository.Backend. A missing file is an empty directory.
func (f *FileBackend) Load(_ context.Context) ([]guard.Profile, error) {
	b, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return decodeSnapshot(b)
}

// Save implements repository.Backend. The file is replaced atomically.
func (f *FileBackend) Save(ctx context.Context, profiles []guard.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := json.MarshalIndent(profiles, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) //nolint:errcheck // gone after a successful rename

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Close implements repository.Backend.
func (*FileBackend) Close() error { return nil }
