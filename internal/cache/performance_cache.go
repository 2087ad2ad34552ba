package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cardwise/coach_api/internal/models"
)

// PerformanceSnapshot is the cached network-wide card performance view.
// It is recomputed by the snapshot worker and read by the card endpoints
// so hot queries avoid hitting the sales table.
type PerformanceSnapshot struct {
	Cards    []models.CardPerformance `json:"cards"`
	Network  models.NetworkStats      `json:"network"`
	CachedAt time.Time                `json:"cachedAt"`
}

// PerformanceCache provides snapshot caching operations.
type PerformanceCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewPerformanceCache creates a new PerformanceCache. TTL bounds staleness
// if the snapshot worker stops refreshing.
func NewPerformanceCache(redis *RedisClient, ttl time.Duration) *PerformanceCache {
	return &PerformanceCache{
		redis: redis,
		ttl:   ttl,
	}
}

func (c *PerformanceCache) key() string {
	return "perf:cards:network"
}

// Set stores the snapshot under perf:cards:network with the configured TTL.
func (c *PerformanceCache) Set(ctx context.Context, snap *PerformanceSnapshot) error {
	snap.CachedAt = time.Now()

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal performance snapshot: %w", err)
	}

	if err := c.redis.Set(ctx, c.key(), string(jsonData), c.ttl); err != nil {
		return fmt.Errorf("failed to set snapshot key: %w", err)
	}
	return nil
}

// Get retrieves the current snapshot. Returns (nil, nil) on cache miss so
// callers can fall through to a live computation.
func (c *PerformanceCache) Get(ctx context.Context) (*PerformanceSnapshot, error) {
	jsonData, err := c.redis.Get(ctx, c.key())
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var snap PerformanceSnapshot
	if err := json.Unmarshal([]byte(jsonData), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal performance snapshot: %w", err)
	}
	return &snap, nil
}

// Invalidate drops the snapshot, forcing the next read to recompute.
func (c *PerformanceCache) Invalidate(ctx context.Context) error {
	return c.redis.Delete(ctx, c.key())
}
