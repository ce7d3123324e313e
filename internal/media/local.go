package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"pantree/internal/storage"
)

// LocalStore hosts media on the local filesystem, served under /media/ by
// the HTTP layer. Suitable for single-box deployments.
type LocalStore struct {
	store   *storage.Storage
	baseURL string
}

// NewLocalStore creates a local media store. baseURL is the public origin
// of this server, e.g. "http://localhost:8080".
func NewLocalStore(store *storage.Storage, baseURL string) *LocalStore {
	return &LocalStore{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (l *LocalStore) Upload(ctx context.Context, data []byte, contentType, folder string) (*UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, timeoutErr(err)
	}

	publicID := folder + "/" + uuid.NewString()
	if !validPublicID(publicID) {
		return nil, ErrInvalidPublicID
	}
	ext := extensionForType(contentType)

	path := l.store.ObjectPath(versionSegment, publicID, ext)
	if err := storage.AtomicWrite(path, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("write media object: %w", err)
	}

	return &UploadResult{
		URL:      fmt.Sprintf("%s/media/upload/%s/%s%s", l.baseURL, versionSegment, publicID, ext),
		PublicID: publicID,
	}, nil
}

// Delete removes the stored object for publicID. The extension is not part
// of the identifier, so each known extension is tried; missing files are
// not an error.
func (l *LocalStore) Delete(ctx context.Context, publicID string) error {
	if !validPublicID(publicID) {
		return ErrInvalidPublicID
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, ext := range knownExtensions {
		path := l.store.ObjectPath(versionSegment, publicID, ext)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove media object: %w", err)
		}
	}
	return nil
}
