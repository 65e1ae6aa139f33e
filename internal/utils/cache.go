package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache keys for the read-path caches invalidated on enrollment writes
const (
	CacheKeyEnrollmentList = "enrollment:list" // Denormalized child record list
	CacheKeyDashboard      = "dashboard:stats" // Dashboard summary
)

// CacheTTL is how long read-path caches live before a forced refresh
const CacheTTL = 60 * time.Second

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if err == redis.Nil {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// InvalidateEnrollmentCaches drops the caches that become stale when an
// enrollment row is written
func InvalidateEnrollmentCaches(ctx context.Context, rdb *redis.Client) {
	_ = rdb.Del(ctx, CacheKeyEnrollmentList, CacheKeyDashboard).Err()
}
