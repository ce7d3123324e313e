// Package handler implements the JSON API.
package handler

import (
	"pantree/internal/config"
	"pantree/internal/media"
	"pantree/internal/metrics"
	"pantree/internal/pipeline"
	"pantree/internal/repository"
	"pantree/internal/storage"
)

type Handler struct {
	repo    *repository.Repository
	media   media.Store
	store   *storage.Storage
	metrics *metrics.Logger
	cfg     *config.Config

	// wakeWorker nudges the media-deletion worker after a new queue entry.
	// Nil is fine; the worker also polls.
	wakeWorker func()
}

func New(repo *repository.Repository, mediaStore media.Store, store *storage.Storage, cfg *config.Config) *Handler {
	return &Handler{
		repo:    repo,
		media:   mediaStore,
		store:   store,
		metrics: metrics.New(repo),
		cfg:     cfg,
	}
}

// SetWorkerTrigger wires the background worker's wake signal.
func (h *Handler) SetWorkerTrigger(fn func()) {
	h.wakeWorker = fn
}

func (h *Handler) optimizer() *pipeline.Optimizer {
	return pipeline.NewOptimizer()
}

func (h *Handler) directOptimizer() *pipeline.Optimizer {
	o := pipeline.NewOptimizer()
	o.MaxBytes = pipeline.DirectMaxBytes
	return o
}
