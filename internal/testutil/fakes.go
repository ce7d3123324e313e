package testutil

import (
	"context"
	"fmt"
	"sync"

	"pantree/internal/media"
)

// FakeMediaStore is an in-memory media.Store for handler and worker tests.
type FakeMediaStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	seq     int

	// UploadErr and DeleteErr, when set, are returned by the corresponding
	// call instead of succeeding.
	UploadErr error
	DeleteErr error
}

func NewFakeMediaStore() *FakeMediaStore {
	return &FakeMediaStore{objects: make(map[string][]byte)}
}

func (f *FakeMediaStore) Upload(ctx context.Context, data []byte, contentType, folder string) (*media.UploadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, media.ErrUploadTimeout
	}
	if f.UploadErr != nil {
		return nil, f.UploadErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	publicID := fmt.Sprintf("%s/img-%d", folder, f.seq)
	f.objects[publicID] = data

	return &media.UploadResult{
		URL:      "https://media.test/upload/v1/" + publicID + ".jpg",
		PublicID: publicID,
	}, nil
}

func (f *FakeMediaStore) Delete(ctx context.Context, publicID string) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, publicID)
	return nil
}

// Has reports whether the store currently holds publicID.
func (f *FakeMediaStore) Has(publicID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[publicID]
	return ok
}

// Len returns the number of stored objects.
func (f *FakeMediaStore) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}
