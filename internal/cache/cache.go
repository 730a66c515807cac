// Package cache provides a Redis-backed read-through cache for optimization
// runs. A run is fully determined by its partition and parameters, so cached
// entries never go stale until a warehouse refresh bumps the epoch.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prak-gup/SANTOOR/internal/domain"
	"github.com/prak-gup/SANTOOR/internal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "santoor:optrun:"

// RunCache caches optimization runs in Redis. Failures degrade to cache
// misses; the service recomputes and the dashboard never sees an error.
type RunCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a run cache on the given Redis client.
func New(client *redis.Client, ttl time.Duration) *RunCache {
	return &RunCache{client: client, ttl: ttl}
}

// GetRun implements insights.RunCache.
func (c *RunCache) GetRun(ctx context.Context, key string) (*domain.OptimizationRun, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Warn("run cache get failed", "key", key, "error", err)
		return nil, false
	}

	var run domain.OptimizationRun
	if err := json.Unmarshal(raw, &run); err != nil {
		logger.Warn("run cache entry corrupt", "key", key, "error", err)
		return nil, false
	}
	return &run, true
}

// PutRun implements insights.RunCache.
func (c *RunCache) PutRun(ctx context.Context, key string, run *domain.OptimizationRun) {
	raw, err := json.Marshal(run)
	if err != nil {
		logger.Warn("run cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, c.ttl).Err(); err != nil {
		logger.Warn("run cache put failed", "key", key, "error", err)
	}
}

// Flush drops every cached run. Called after a warehouse refresh swaps
// records so stale recommendations don't outlive their inputs.
func (c *RunCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("deleting %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}
