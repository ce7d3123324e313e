package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"
)

// RateLimiter enforces a fixed-window request cap per identifier. The
// counter lives behind CounterStore so single-process deployments use the
// in-memory map while multi-process deployments can share a Redis store.
type RateLimiter struct {
	store   CounterStore
	max     int
	window  time.Duration
	message string
}

// RateLimitConfig configures a limiter.
type RateLimitConfig struct {
	Store       CounterStore
	MaxRequests int
	Window      time.Duration
	Message     string
}

// NewRateLimiter creates a fixed-window rate limiter.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore(MemoryStoreConfig{})
	}
	if cfg.Window == 0 {
		cfg.Window = time.Minute
	}
	if cfg.Message == "" {
		cfg.Message = "Too many requests. Please try again later."
	}
	return &RateLimiter{
		store:   cfg.Store,
		max:     cfg.MaxRequests,
		window:  cfg.Window,
		message: cfg.Message,
	}
}

// Allow records a request for identifier and reports whether it is within
// the window's cap, along with remaining requests and the window reset time.
func (rl *RateLimiter) Allow(r *http.Request, identifier string) (bool, int, time.Time) {
	count, resetAt, err := rl.store.Incr(r.Context(), identifier, rl.window)
	if err != nil {
		// A broken counter store should not take the API down.
		log.Printf("ratelimit: counter store error for %s: %v", identifier, err)
		return true, 0, time.Now().UTC().Add(rl.window)
	}

	remaining := rl.max - count
	if remaining < 0 {
		remaining = 0
	}
	return count <= rl.max, remaining, resetAt
}

// KeyFunc derives the rate-limit identifier for a request.
type KeyFunc func(r *http.Request) string

// Middleware returns an HTTP middleware enforcing the limit, keyed by keyFn.
func (rl *RateLimiter) Middleware(keyFn KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identifier := keyFn(r)

			allowed, remaining, resetAt := rl.Allow(r, identifier)

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.max))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
			w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))

			if !allowed {
				retryAfter := int(time.Until(resetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				log.Printf("ratelimit: limit exceeded for %s on %s", identifier, r.URL.Path)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]any{
					"error":      rl.message,
					"retryAfter": retryAfter,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
