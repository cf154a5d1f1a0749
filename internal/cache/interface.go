// Package cache implements the hot cache of serialized per-viewer
// snapshots (spec.md §6's "Serialized snapshot"): a Redis-backed store
// keyed by viewer id, invalidated across game-singleton instances via NATS
// pub/sub whenever the snapshot a key names goes stale.
package cache

import (
	"context"
	"time"
)

// Repo is the hot cache a game singleton consults before recomputing a
// viewer's serialized snapshot.
type Repo interface {
	// Get returns the cached bytes for key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL (0 = the cache's
	// default TTL).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Invalidate removes key locally and publishes the invalidation to
	// every other node sharing this cache.
	Invalidate(ctx context.Context, key string) error

	// Close releases the underlying connection.
	Close() error

	// Metrics returns a snapshot of hit/miss counters.
	Metrics() Metrics
}

// Invalidator distributes cache-invalidation notices between game
// singleton instances.
type Invalidator interface {
	PublishInvalidation(ctx context.Context, key string) error
	SubscribeInvalidations(ctx context.Context, handler InvalidationHandler) error
	Close() error
}

// InvalidationHandler reacts to a key invalidated by another node.
type InvalidationHandler func(key string) error

// Metrics is a point-in-time read of cache performance counters.
type Metrics struct {
	Hits   int64
	Misses int64
}

// HitRatio returns Hits / (Hits+Misses), or 0 if there have been no
// requests yet.
func (m Metrics) HitRatio() float64 {
	total := m.Hits + m.Misses
	if total == 0 {
		return 0
	}
	return float64(m.Hits) / float64(total)
}

// Error is a cache-specific sentinel error.
type Error struct{ Message string }

func (e *Error) Error() string { return e.Message }

// ErrCacheMiss is returned by Get when key is absent.
var ErrCacheMiss = &Error{Message: "cache miss"}

// IsCacheMiss reports whether err is ErrCacheMiss.
func IsCacheMiss(err error) bool { return err == ErrCacheMiss }
