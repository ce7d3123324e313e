// Package storage manages the on-disk layout for locally hosted media.
package storage

// Storage wraps the base data directory used by the local media backend.
type Storage struct {
	BaseDir string
}

// New creates a new Storage instance with the provided base directory.
func New(baseDir string) *Storage {
	return &Storage{BaseDir: baseDir}
}
