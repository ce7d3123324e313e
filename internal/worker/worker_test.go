package worker

import (
	"context"
	"errors"
	"testing"

	"pantree/internal/testutil"
)

func TestProcessBatchDrainsQueue(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	fake := testutil.NewFakeMediaStore()
	ctx := context.Background()

	res, err := fake.Upload(ctx, []byte("a"), "image/jpeg", "pantree/alice")
	if err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	if err := repo.EnqueueMediaDeletion(ctx, res.PublicID); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	w := NewWorker(repo, fake)
	w.processBatch(ctx)

	if fake.Has(res.PublicID) {
		t.Fatal("expected object deleted from media store")
	}
	pending, err := repo.ListPendingMediaDeletions(ctx, MaxAttempts, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected empty queue, got %d rows", len(pending))
	}
}

func TestProcessDeletionRecordsFailure(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	fake := testutil.NewFakeMediaStore()
	fake.DeleteErr = errors.New("remote unavailable")

	ctx := context.Background()
	if err := repo.EnqueueMediaDeletion(ctx, "pantree/alice/x"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	pending, err := repo.ListPendingMediaDeletions(ctx, MaxAttempts, 10)
	if err != nil || len(pending) != 1 {
		t.Fatalf("expected 1 pending row, got %d (%v)", len(pending), err)
	}

	w := NewWorker(repo, fake)
	w.processDeletion(ctx, pending[0])

	pending, err = repo.ListPendingMediaDeletions(ctx, MaxAttempts, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected row kept for retry, got %d rows", len(pending))
	}
	if pending[0].Attempts != 1 {
		t.Fatalf("expected 1 attempt recorded, got %d", pending[0].Attempts)
	}
}

func TestProcessBatchStopsAtAttemptCap(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	fake := testutil.NewFakeMediaStore()
	fake.DeleteErr = errors.New("remote unavailable")

	ctx := context.Background()
	if err := repo.EnqueueMediaDeletion(ctx, "pantree/alice/x"); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	// A persistently failing deletion is retried until it hits the cap,
	// then drops out of the pending view.
	w := NewWorker(repo, fake)
	w.processBatch(ctx)

	pending, err := repo.ListPendingMediaDeletions(ctx, MaxAttempts, 10)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected exhausted row hidden, got %d rows", len(pending))
	}

	// The row is still in the table for the janitor, with all attempts
	// accounted for.
	exhausted, err := repo.ListPendingMediaDeletions(ctx, MaxAttempts+1, 10)
	if err != nil {
		t.Fatalf("list exhausted: %v", err)
	}
	if len(exhausted) != 1 || exhausted[0].Attempts != MaxAttempts {
		t.Fatalf("expected row with %d attempts, got %+v", MaxAttempts, exhausted)
	}
}

func TestTriggerSignalDoesNotBlock(t *testing.T) {
	repo, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	w := NewWorker(repo, testutil.NewFakeMediaStore())

	// Repeated triggers without a running loop must not block.
	for i := 0; i < 10; i++ {
		w.TriggerSignal()
	}
}
