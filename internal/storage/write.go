package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0o755)
}

// AtomicWrite stores a media object at path through a same-directory temp
// file and a rename, so a concurrent /media/ read never sees a partially
// written object.
func AtomicWrite(path string, data io.Reader) error {
	dir := filepath.Dir(path)
	if err := EnsureDir(dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp object: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-ops after a successful rename.
		tmp.Close()
		os.Remove(tmpPath)
	}()

	if _, err := io.Copy(tmp, data); err != nil {
		return fmt.Errorf("write temp object: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp object: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("publish object: %w", err)
	}
	return nil
}
