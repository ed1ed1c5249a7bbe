package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/praxis-intel/argus/internal/metrics"
)

// envelope wraps a cached value with its write time so freshness can be
// checked independently of the Redis TTL.
type envelope struct {
	StoredAt time.Time       `json:"stored_at"`
	Value    json.RawMessage `json:"value"`
}

// Cache is a content-hash keyed Redis cache. Entries are immutable once
// written; concurrent writers for the same key carry identical values, so
// last-writer-wins needs no locking.
type Cache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// New wires the cache onto an existing Redis client. ttl bounds how long
// entries live regardless of the freshness window callers ask for.
func New(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// ContentKey derives a stable cache key from the given parts.
func ContentKey(parts ...string) string {
	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return "argus:cache:" + hex.EncodeToString(h[:])
}

// Get returns the cached value if it exists and was written within the
// freshness window.
func (c *Cache) Get(ctx context.Context, key string, freshness time.Duration) (json.RawMessage, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		c.logger.Warn("Corrupt cache entry", zap.String("key", key), zap.Error(err))
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if time.Since(env.StoredAt) > freshness {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	metrics.CacheHits.Inc()
	return env.Value, true
}

// Put stores the value under key. Values must be JSON-serializable.
func (c *Cache) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope{StoredAt: time.Now(), Value: raw})
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, c.ttl).Err()
}
