package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vidyadaan/scholarhub/internal/pkg/logger"
)

// ErrMiss is returned when a key is absent.
var ErrMiss = errors.New("cache miss")

// OpenRedis connects to Redis and verifies the connection.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Cache is a JSON read-through cache over Redis. A nil Cache (or one built
// from a nil client) is a no-op, so callers never branch on whether caching
// is enabled.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Cache. client may be nil to disable caching.
func New(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// GetJSON loads key into dest. Returns ErrMiss when absent or disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, dest interface{}) error {
	if c == nil || c.client == nil {
		return ErrMiss
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal(raw, dest)
}

// SetJSON stores value under key with the configured TTL. Failures are logged
// and swallowed; the cache is never authoritative.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to marshal cache value")
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Failed to write cache entry")
	}
}

// Delete removes keys, typically on catalog writes.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Warn().Err(err).Strs("keys", keys).Msg("Failed to invalidate cache entries")
	}
}
