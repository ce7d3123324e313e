package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"pantree/internal/config"
	"pantree/internal/db"
	"pantree/internal/handler"
	"pantree/internal/janitor"
	"pantree/internal/media"
	"pantree/internal/middleware"
	"pantree/internal/repository"
	"pantree/internal/storage"
	"pantree/internal/worker"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return err
	}

	database, err := db.InitDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer database.Close()

	repo := repository.New(database)
	store := storage.New(cfg.DataDir)

	mediaStore, localStore, err := buildMediaStore(ctx, cfg, store)
	if err != nil {
		return err
	}

	counters := buildCounterStore(cfg)
	limiters := handler.Limiters{
		Auth: middleware.NewRateLimiter(middleware.RateLimitConfig{
			Store:       counters,
			MaxRequests: cfg.AuthRateLimit,
			Window:      cfg.AuthRateWindow,
			Message:     "Too many authentication attempts. Please try again later.",
		}),
		API: middleware.NewRateLimiter(middleware.RateLimitConfig{
			Store:       counters,
			MaxRequests: cfg.APIRateLimit,
			Window:      cfg.APIRateWindow,
		}),
		Upload: middleware.NewRateLimiter(middleware.RateLimitConfig{
			Store:       counters,
			MaxRequests: cfg.UploadRateLimit,
			Window:      cfg.UploadRateWindow,
			Message:     "Too many uploads. Please try again later.",
		}),
	}

	h := handler.New(repo, mediaStore, localStore, cfg)

	w := worker.NewWorker(repo, mediaStore)
	w.Start(ctx)
	h.SetWorkerTrigger(w.TriggerSignal)

	j := janitor.New(janitor.Config{
		Repo:        repo,
		MaxAttempts: worker.MaxAttempts,
	})
	j.Start(ctx)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	h.RegisterRoutes(r, limiters)

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting Pantree on %s", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}

	j.Stop()
	w.Stop()

	return nil
}

// buildMediaStore selects the configured backend. The local *storage.Storage
// is returned alongside so the router can serve local media; it is nil when
// the S3 backend is active.
func buildMediaStore(ctx context.Context, cfg *config.Config, store *storage.Storage) (media.Store, *storage.Storage, error) {
	if cfg.MediaBackend == "s3" {
		s3Store, err := media.NewS3Store(ctx, media.S3Config{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		return s3Store, nil, nil
	}
	return media.NewLocalStore(store, cfg.PublicBaseURL), store, nil
}

// buildCounterStore returns a Redis-backed counter store when REDIS_ADDR is
// set, so multiple instances share rate-limit windows. Otherwise counters
// are process-local.
func buildCounterStore(cfg *config.Config) middleware.CounterStore {
	if cfg.RedisAddr == "" {
		return middleware.NewMemoryStore(middleware.MemoryStoreConfig{
			CleanupInterval: 10 * time.Minute,
		})
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	log.Printf("Rate limiting: using Redis counter store at %s", cfg.RedisAddr)
	return middleware.NewRedisStore(client)
}
