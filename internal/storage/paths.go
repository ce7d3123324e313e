package storage

import (
	"path/filepath"
	"strings"
)

// MediaRoot returns the directory that backs the /media/ URL prefix.
func (s *Storage) MediaRoot() string {
	return filepath.Join(s.BaseDir, "media")
}

// ObjectPath returns the on-disk path for a stored media object. The layout
// mirrors the public URL: {base}/media/upload/{version}/{publicID}{ext}.
func (s *Storage) ObjectPath(version, publicID, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	name := publicID
	if ext != "" {
		name = publicID + "." + ext
	}
	return filepath.Join(s.MediaRoot(), "upload", version, filepath.FromSlash(name))
}
