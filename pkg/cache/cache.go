// Package cache is a thin Redis wrapper used as a read-through cache for the
// public listing endpoints. Every helper degrades to a no-op when Redis is
// unavailable, so the site keeps working without it.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/themelissanyc/melissa/config"
	"github.com/themelissanyc/melissa/pkg/metrics"
)

var (
	rdb *redis.Client
	ctx = context.Background()
)

// Connect initialises the Redis client and verifies it with a ping.
// On error the cache stays disabled and all helpers no-op.
func Connect() error {
	rdb = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
		DB:       0,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb = nil
		return fmt.Errorf("cache: redis ping: %w", err)
	}
	return nil
}

// Disconnect closes the Redis client if one is open.
func Disconnect() {
	if rdb != nil {
		_ = rdb.Close()
		rdb = nil
	}
}

// Enabled reports whether a Redis connection is live.
func Enabled() bool { return rdb != nil }

// Get retrieves a cached value by key and unmarshals into dest.
// Returns true on a cache hit, false on miss, error, or disabled cache.
func Get(key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}

	val, err := rdb.Get(ctx, key).Result()
	if err != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	if json.Unmarshal([]byte(val), dest) != nil {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return false
	}

	metrics.CacheHits.WithLabelValues(key).Inc()
	return true
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if rdb == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return rdb.Set(ctx, key, data, ttl).Err()
}

// Forget removes keys matching the given pattern (e.g. "gallery:active:*").
// Plain keys work too; an absent key is not an error.
func Forget(pattern string) {
	if rdb == nil {
		return
	}

	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}
