// Package janitor handles periodic cleanup of expired data.
package janitor

import (
	"context"
	"log"
	"time"

	"pantree/internal/repository"
)

// Janitor runs scheduled cleanup: expired sessions, old activity events,
// and media deletions that exhausted their retries.
type Janitor struct {
	repo           *repository.Repository
	interval       time.Duration
	eventRetention time.Duration
	maxAttempts    int
	stopChan       chan struct{}
	doneChan       chan struct{}
}

// Config holds janitor configuration
type Config struct {
	Repo           *repository.Repository
	Interval       time.Duration
	EventRetention time.Duration
	MaxAttempts    int
}

// New creates a new Janitor instance
func New(cfg Config) *Janitor {
	if cfg.Interval == 0 {
		cfg.Interval = 6 * time.Hour
	}
	if cfg.EventRetention == 0 {
		cfg.EventRetention = 90 * 24 * time.Hour
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}

	return &Janitor{
		repo:           cfg.Repo,
		interval:       cfg.Interval,
		eventRetention: cfg.EventRetention,
		maxAttempts:    cfg.MaxAttempts,
		stopChan:       make(chan struct{}),
		doneChan:       make(chan struct{}),
	}
}

// Start begins the cleanup scheduler in a goroutine
func (j *Janitor) Start(ctx context.Context) {
	go j.run(ctx)
}

// Stop gracefully stops the janitor
func (j *Janitor) Stop() {
	close(j.stopChan)
	<-j.doneChan // wait for cleanup to finish
}

func (j *Janitor) run(ctx context.Context) {
	defer close(j.doneChan)

	// Run cleanup immediately on startup
	j.RunCleanup(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.RunCleanup(ctx)
		case <-j.stopChan:
			log.Println("Janitor: received stop signal, shutting down...")
			return
		case <-ctx.Done():
			log.Println("Janitor: context cancelled, shutting down...")
			return
		}
	}
}

// RunCleanup executes all cleanup tasks once.
func (j *Janitor) RunCleanup(ctx context.Context) {
	log.Println("Janitor: starting cleanup cycle...")
	start := time.Now().UTC()

	j.deleteExpiredSessions(ctx)
	j.purgeOldEvents(ctx)
	j.purgeExhaustedDeletions(ctx)

	log.Printf("Janitor: cleanup cycle completed in %v", time.Since(start))
}

func (j *Janitor) deleteExpiredSessions(ctx context.Context) {
	n, err := j.repo.DeleteExpiredSessions(ctx)
	if err != nil {
		log.Printf("Janitor: failed to delete expired sessions: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Janitor: deleted %d expired sessions", n)
	}
}

func (j *Janitor) purgeOldEvents(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-j.eventRetention)
	n, err := j.repo.PurgeOldEvents(ctx, cutoff)
	if err != nil {
		log.Printf("Janitor: failed to purge old activity events: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Janitor: purged %d activity events older than %s", n, cutoff.Format(time.RFC3339))
	}
}

func (j *Janitor) purgeExhaustedDeletions(ctx context.Context) {
	n, err := j.repo.PurgeExhaustedMediaDeletions(ctx, j.maxAttempts)
	if err != nil {
		log.Printf("Janitor: failed to purge exhausted media deletions: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Janitor: dropped %d media deletions after %d attempts", n, j.maxAttempts)
	}
}
