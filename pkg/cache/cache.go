// Package cache implements the fingerprint-keyed classification result
// cache. It is a performance optimization, never a system of record: every
// backend failure degrades to a miss or a no-op, and the engine operates
// correctly with no backend at all.
package cache

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/datashield-ai/classify-engine/pkg/config"
	"github.com/datashield-ai/classify-engine/pkg/models"
)

// ErrMiss is returned by backends when a key is absent.
var ErrMiss = errors.New("cache miss")

// Backend is the narrow key-value contract the cache needs. Satisfied by
// redisBackend in production and by function-field mocks in tests.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) (int64, error)
	TTL(ctx context.Context, key string) (time.Duration, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
	Ping(ctx context.Context) error
}

// Stats holds cache operation counters.
type Stats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Sets    int64 `json:"sets"`
	Deletes int64 `json:"deletes"`
	Errors  int64 `json:"errors"`
}

// Cache is the fingerprint-keyed result store.
type Cache struct {
	backend   Backend
	keyPrefix string
	resultTTL time.Duration
	statsTTL  time.Duration
	logger    *zap.Logger

	hits    atomic.Int64
	misses  atomic.Int64
	sets    atomic.Int64
	deletes atomic.Int64
	errs    atomic.Int64
}

// New creates a cache over the given backend. A nil backend disables
// caching entirely: every Get is a miss and every Set a no-op.
func New(backend Backend, cfg *config.CacheConfig, logger *zap.Logger) *Cache {
	return &Cache{
		backend:   backend,
		keyPrefix: cfg.KeyPrefix,
		resultTTL: cfg.ResultTTL(),
		statsTTL:  cfg.StatsTTL(),
		logger:    logger.Named("cache"),
	}
}

// NewFromConfig creates a cache with a redis backend when one is
// configured, and a disabled cache otherwise. Connection failures are
// logged, not fatal: a missing cache only makes classification slower.
func NewFromConfig(cfg *config.CacheConfig, logger *zap.Logger) *Cache {
	if !cfg.IsAvailable() {
		return New(nil, cfg, logger)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Named("cache").Error("redis unreachable, caching disabled", zap.Error(err))
		return New(nil, cfg, logger)
	}

	return New(&redisBackend{client: client}, cfg, logger)
}

// GetResult looks up a classification result by fingerprint. Any backend or
// decode failure is a miss.
func (c *Cache) GetResult(ctx context.Context, fingerprint string) (*models.Result, bool) {
	if c.backend == nil {
		c.misses.Add(1)
		return nil, false
	}

	data, err := c.backend.Get(ctx, c.formatKey(fingerprint))
	if err != nil {
		if errors.Is(err, ErrMiss) {
			c.misses.Add(1)
		} else {
			c.errs.Add(1)
			c.logger.Error("cache get failed, treating as miss",
				zap.String("key", fingerprint), zap.Error(err))
		}
		return nil, false
	}

	result, err := decodeResult(data)
	if err != nil {
		c.errs.Add(1)
		c.logger.Error("cache entry undecodable, treating as miss",
			zap.String("key", fingerprint), zap.Error(err))
		return nil, false
	}

	c.hits.Add(1)
	// Return a copy so the cached value is never aliased by a caller.
	return result.Clone(), true
}

// SetResult stores a classification result under its fingerprint. A zero
// ttl uses the configured result TTL. Returns false (never an error) on any
// backend failure.
func (c *Cache) SetResult(ctx context.Context, fingerprint string, result *models.Result, ttl time.Duration) bool {
	if c.backend == nil || result == nil {
		return false
	}
	if ttl <= 0 {
		ttl = c.resultTTL
	}

	data, err := encodeResult(result)
	if err != nil {
		c.errs.Add(1)
		c.logger.Error("cache encode failed, skipping set",
			zap.String("key", fingerprint), zap.Error(err))
		return false
	}

	if err := c.backend.Set(ctx, c.formatKey(fingerprint), data, ttl); err != nil {
		c.errs.Add(1)
		c.logger.Error("cache set failed",
			zap.String("key", fingerprint), zap.Error(err))
		return false
	}

	c.sets.Add(1)
	return true
}

// Delete removes one entry. Returns true if a key was removed.
func (c *Cache) Delete(ctx context.Context, fingerprint string) bool {
	if c.backend == nil {
		return false
	}
	n, err := c.backend.Del(ctx, c.formatKey(fingerprint))
	if err != nil {
		c.errs.Add(1)
		c.logger.Error("cache delete failed",
			zap.String("key", fingerprint), zap.Error(err))
		return false
	}
	c.deletes.Add(n)
	return n > 0
}

// DeletePattern removes all entries matching a glob pattern, e.g.
// "classification:*" after a rule-set change invalidates prior results.
// Returns the number of entries removed.
func (c *Cache) DeletePattern(ctx context.Context, pattern string) int64 {
	if c.backend == nil {
		return 0
	}

	keys, err := c.backend.Keys(ctx, c.formatKey(pattern))
	if err != nil {
		c.errs.Add(1)
		c.logger.Error("cache pattern scan failed",
			zap.String("pattern", pattern), zap.Error(err))
		return 0
	}
	if len(keys) == 0 {
		return 0
	}

	n, err := c.backend.Del(ctx, keys...)
	if err != nil {
		c.errs.Add(1)
		c.logger.Error("cache pattern delete failed",
			zap.String("pattern", pattern), zap.Error(err))
		return 0
	}
	c.deletes.Add(n)
	return n
}

// TTL reports the remaining lifetime of an entry, or -1 when unknown.
func (c *Cache) TTL(ctx context.Context, fingerprint string) time.Duration {
	if c.backend == nil {
		return -1
	}
	ttl, err := c.backend.TTL(ctx, c.formatKey(fingerprint))
	if err != nil {
		c.errs.Add(1)
		return -1
	}
	return ttl
}

// StatsTTL returns the configured TTL for derived aggregate statistics.
func (c *Cache) StatsTTL() time.Duration { return c.statsTTL }

// Enabled reports whether a backend is attached.
func (c *Cache) Enabled() bool { return c.backend != nil }

// Stats returns a snapshot of the operation counters.
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Sets:    c.sets.Load(),
		Deletes: c.deletes.Load(),
		Errors:  c.errs.Load(),
	}
}

// Health pings the backend. A disabled cache reports healthy: operating
// without a cache is a supported mode, not a failure.
func (c *Cache) Health(ctx context.Context) error {
	if c.backend == nil {
		return nil
	}
	return c.backend.Ping(ctx)
}

func (c *Cache) formatKey(key string) string {
	if c.keyPrefix == "" {
		return key
	}
	return c.keyPrefix + ":" + key
}

// redisBackend adapts a go-redis client to the Backend contract.
type redisBackend struct {
	client *redis.Client
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	return data, err
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *redisBackend) Del(ctx context.Context, keys ...string) (int64, error) {
	return b.client.Del(ctx, keys...).Result()
}

func (b *redisBackend) TTL(ctx context.Context, key string) (time.Duration, error) {
	return b.client.TTL(ctx, key).Result()
}

func (b *redisBackend) Keys(ctx context.Context, pattern string) ([]string, error) {
	return b.client.Keys(ctx, pattern).Result()
}

func (b *redisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

var _ Backend = (*redisBackend)(nil)
