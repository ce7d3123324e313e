package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CounterStore counts requests per identifier within a fixed window.
// Incr records one request and returns the in-window count (including this
// request) and the moment the window resets.
type CounterStore interface {
	Incr(ctx context.Context, identifier string, window time.Duration) (int, time.Time, error)
}

// MemoryStore is a single-process CounterStore backed by a map. Counters
// are not shared across processes and reset on restart.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*memoryRecord
}

type memoryRecord struct {
	count   int
	resetAt time.Time
}

// MemoryStoreConfig configures the in-memory store.
type MemoryStoreConfig struct {
	// CleanupInterval bounds the background sweep of expired records.
	// Zero disables the sweep (expired records are still replaced lazily).
	CleanupInterval time.Duration
}

// NewMemoryStore creates an in-memory counter store. When a cleanup
// interval is configured, a background goroutine periodically drops
// expired records to keep memory bounded.
func NewMemoryStore(cfg MemoryStoreConfig) *MemoryStore {
	s := &MemoryStore{records: make(map[string]*memoryRecord)}
	if cfg.CleanupInterval > 0 {
		go s.cleanupLoop(cfg.CleanupInterval)
	}
	return s
}

func (s *MemoryStore) Incr(_ context.Context, identifier string, window time.Duration) (int, time.Time, error) {
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[identifier]
	if !ok || now.After(rec.resetAt) {
		rec = &memoryRecord{count: 1, resetAt: now.Add(window)}
		s.records[identifier] = rec
		return 1, rec.resetAt, nil
	}

	rec.count++
	return rec.count, rec.resetAt, nil
}

// Cleanup removes expired records.
func (s *MemoryStore) Cleanup() {
	now := time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, rec := range s.records {
		if now.After(rec.resetAt) {
			delete(s.records, id)
		}
	}
}

func (s *MemoryStore) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		s.Cleanup()
	}
}

// RedisStore is a CounterStore backed by Redis, for deployments where the
// limit must hold across multiple server processes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed counter store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "ratelimit:"}
}

// incrScript counts a request and guarantees the key carries an expiry.
// Repairing a missing TTL here keeps an identifier from being limited
// forever if the expiry was ever lost.
var incrScript = redis.NewScript(`
local count = redis.call("INCR", KEYS[1])
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}`)

func (s *RedisStore) Incr(ctx context.Context, identifier string, window time.Duration) (int, time.Time, error) {
	res, err := incrScript.Run(ctx, s.client, []string{s.prefix + identifier}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return 0, time.Time{}, err
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("ratelimit: unexpected reply of length %d", len(res))
	}
	return int(res[0]), time.Now().UTC().Add(time.Duration(res[1]) * time.Millisecond), nil
}
