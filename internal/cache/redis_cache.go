package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/and0p/chaos-core/internal/logging"
	"github.com/go-redis/redis/v8"
)

// RedisCache implements Repo on top of Redis, with an optional Invalidator
// for cross-node invalidation and simple hit/miss counters.
type RedisCache struct {
	client      *redis.Client
	invalidator Invalidator
	defaultTTL  time.Duration

	hits   int64
	misses int64
}

// NewRedisCache dials addr and wires an optional invalidator (nil skips
// cross-node invalidation, e.g. single-instance local runs).
func NewRedisCache(addr, password string, db int, defaultTTL time.Duration, invalidator Invalidator) *RedisCache {
	if defaultTTL == 0 {
		defaultTTL = 30 * time.Second
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisCache{client: client, invalidator: invalidator, defaultTTL: defaultTTL}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	atomic.AddInt64(&c.hits, 1)
	return data, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// Invalidate deletes key locally then, if an Invalidator is wired, tells
// every other node sharing this cache to do the same.
func (c *RedisCache) Invalidate(ctx context.Context, key string) error {
	if err := c.Delete(ctx, key); err != nil {
		return err
	}
	if c.invalidator == nil {
		return nil
	}
	if err := c.invalidator.PublishInvalidation(ctx, key); err != nil {
		logging.LogError("cache: publish invalidation for %s: %v", key, err)
		return err
	}
	return nil
}

// SubscribeInvalidations wires up the invalidator, if any, to delete keys
// this node still has cached when another node invalidates them.
func (c *RedisCache) SubscribeInvalidations(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}
	return c.invalidator.SubscribeInvalidations(ctx, func(key string) error {
		return c.Delete(context.Background(), key)
	})
}

func (c *RedisCache) Close() error {
	if c.invalidator != nil {
		_ = c.invalidator.Close()
	}
	return c.client.Close()
}

func (c *RedisCache) Metrics() Metrics {
	return Metrics{Hits: atomic.LoadInt64(&c.hits), Misses: atomic.LoadInt64(&c.misses)}
}
