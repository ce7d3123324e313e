// Package worker drains the media deletion queue in the background.
package worker

import (
	"context"
	"log"
	"sync"
	"time"

	"pantree/internal/media"
	"pantree/internal/repository"
)

const (
	// MaxAttempts is the retry cap per queued deletion; rows at the cap are
	// left for the janitor to purge.
	MaxAttempts = 5

	batchSize    = 20
	pollInterval = 2 * time.Second
)

// Worker deletes remotely stored images that handlers have queued for
// removal. Remote deletion is best effort: failures are retried on later
// passes rather than surfaced to the request that queued them.
type Worker struct {
	repo    *repository.Repository
	media   media.Store
	trigger chan struct{} // Channel to wake up the worker immediately
	wg      sync.WaitGroup
}

// NewWorker creates a new background worker
func NewWorker(repo *repository.Repository, store media.Store) *Worker {
	return &Worker{
		repo:    repo,
		media:   store,
		trigger: make(chan struct{}, 1),
	}
}

// Start runs the background worker loop in a goroutine
func (w *Worker) Start(ctx context.Context) {
	log.Println("Worker: started media deletion queue")

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		// Poll as a fallback for triggers lost during a batch.
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				log.Println("Worker: context cancelled, stopping loop")
				return
			case <-ticker.C:
				w.processBatch(ctx)
			case <-w.trigger:
				w.processBatch(ctx)
			}
		}
	}()
}

// Stop waits for the worker to finish current tasks
func (w *Worker) Stop() {
	log.Println("Worker: waiting for active jobs to finish...")
	w.wg.Wait()
	log.Println("Worker: stopped")
}

// TriggerSignal wakes up the worker to process pending deletions immediately
func (w *Worker) TriggerSignal() {
	select {
	case w.trigger <- struct{}{}:
	default:
		// already triggered
	}
}

// processBatch drains the queue until it is empty or the context ends.
func (w *Worker) processBatch(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		pending, err := w.repo.ListPendingMediaDeletions(ctx, MaxAttempts, batchSize)
		if err != nil {
			log.Printf("Worker error checking queue: %v", err)
			return
		}
		if len(pending) == 0 {
			return
		}

		for _, d := range pending {
			if ctx.Err() != nil {
				return
			}
			w.processDeletion(ctx, d)
		}
	}
}

func (w *Worker) processDeletion(ctx context.Context, d repository.MediaDeletion) {
	if err := w.media.Delete(ctx, d.PublicID); err != nil {
		log.Printf("Worker: delete %s failed (attempt %d): %v", d.PublicID, d.Attempts+1, err)
		if err := w.repo.RecordMediaDeletionFailure(ctx, d.ID); err != nil {
			log.Printf("Worker: record failure for %s: %v", d.PublicID, err)
		}
		return
	}

	if err := w.repo.CompleteMediaDeletion(ctx, d.ID); err != nil {
		log.Printf("Worker: complete deletion %d: %v", d.ID, err)
		return
	}
	log.Printf("Worker: deleted media %s", d.PublicID)
}
