// Package media submits optimized images to remote storage and deletes them
// by their public identifier.
package media

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrUploadTimeout distinguishes an upload that ran out of time from
	// other transport failures.
	ErrUploadTimeout = errors.New("upload timed out")

	// ErrInvalidPublicID is returned for identifiers that cannot map to a
	// stored object.
	ErrInvalidPublicID = errors.New("invalid public id")
)

// UploadResult identifies a stored image.
type UploadResult struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}

// Store is the remote media storage collaborator. Upload places an
// already-optimized payload under the given folder and returns its public
// URL and identifier. Delete removes a previously uploaded object;
// deleting an unknown identifier is not an error.
type Store interface {
	Upload(ctx context.Context, data []byte, contentType, folder string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// versionSegment is the fixed version marker embedded in media URLs after
// the upload/ marker.
const versionSegment = "v1"

// knownExtensions are the candidates tried when resolving a stored object
// from an extension-less public id.
var knownExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

func extensionForType(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}

func validPublicID(publicID string) bool {
	if publicID == "" {
		return false
	}
	if strings.Contains(publicID, "..") || strings.HasPrefix(publicID, "/") {
		return false
	}
	return true
}

// timeoutErr maps a context deadline into the distinguished timeout error.
func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUploadTimeout
	}
	return err
}
