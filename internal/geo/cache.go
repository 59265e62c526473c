// Package geo resolves free-text locations to coordinates through a cached
// external provider, and implements the great-circle distance filter.
package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/richrz/JobScout-sub000/internal/model"
)

// CacheTTL is the fixed lifetime of a cached geocode result. Redis expiry
// enforces the invariant that a read past expiry behaves as a miss.
const CacheTTL = 30 * 24 * time.Hour

const cacheKeyPrefix = "geocode:"

// Cache stores resolved coordinates by normalised location string. The
// geocoder is the sole writer.
type Cache interface {
	// Get returns the cached coordinates and whether the key was present
	// and unexpired.
	Get(ctx context.Context, key string) (*model.Coordinates, bool, error)

	// Set stores coordinates under key with the fixed TTL.
	Set(ctx context.Context, key string, coords model.Coordinates) error
}

// RedisCache is the durable Cache used in production.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache returns a RedisCache with the standard TTL.
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: CacheTTL}
}

func (c *RedisCache) Get(ctx context.Context, key string) (*model.Coordinates, bool, error) {
	val, err := c.rdb.Get(ctx, cacheKeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %q: %w", key, err)
	}

	var coords model.Coordinates
	if err := json.Unmarshal([]byte(val), &coords); err != nil {
		// A corrupt entry is treated as a miss so the next resolve rewrites it.
		return nil, false, nil
	}
	return &coords, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, coords model.Coordinates) error {
	payload, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("cache marshal: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}
	return nil
}

// NormalizeLocation produces the cache key for a free-text location:
// lower-cased with collapsed whitespace.
func NormalizeLocation(location string) string {
	return strings.Join(strings.Fields(strings.ToLower(location)), " ")
}
