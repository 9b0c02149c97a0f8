// Package readcache is a read-through cache over the store. The cache is
// never authoritative: every cache failure falls back to the store.
package readcache

import (
	"context"
	"time"

	"github.com/livebingo/backend/internal/common"
	"github.com/livebingo/backend/pkg/xcontext"
	"github.com/livebingo/backend/pkg/xredis"
)

type Cache struct {
	redisClient xredis.Client
	ttl         time.Duration
}

func New(redisClient xredis.Client, ttl time.Duration) *Cache {
	return &Cache{redisClient: redisClient, ttl: ttl}
}

// Load returns the cached value of key. On a miss, it calls loader and caches
// the result.
func Load[T any](ctx context.Context, c *Cache, key string, loader func(context.Context) (T, error)) (T, error) {
	if c != nil {
		var cached T
		err := c.redisClient.GetObj(ctx, key, &cached)
		switch {
		case err == nil:
			count("hit")
			return cached, nil
		case xredis.IsNil(err):
			count("miss")
		default:
			count("error")
			xcontext.Logger(ctx).Warnf("Cannot get cache %s: %v", key, err)
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}

	if c != nil {
		c.Set(ctx, key, value)
	}

	return value, nil
}

// Set writes value to key. A failure is only logged. A nil cache is a no-op.
func (c *Cache) Set(ctx context.Context, key string, value any) {
	if c == nil {
		return
	}

	if err := c.redisClient.SetObj(ctx, key, value, c.ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set cache %s: %v", key, err)
	}
}

// Invalidate deletes keys and every key matching one of patterns.
func (c *Cache) Invalidate(ctx context.Context, keys []string, patterns ...string) {
	if c == nil {
		return
	}

	if err := c.redisClient.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete cache %v: %v", keys, err)
	}

	for _, pattern := range patterns {
		if _, err := c.redisClient.DelPattern(ctx, pattern); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot delete cache pattern %s: %v", pattern, err)
		}
	}
}

func count(result string) {
	common.PromCounters[common.CacheRequestTotal].WithLabelValues(result).Inc()
}
