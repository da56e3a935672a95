package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"recipe-search-platform/internal/logger"

	"github.com/redis/go-redis/v9"
)

// CachedEmbedder caches query embeddings in Redis. Cache failures are
// fail-open: a Redis outage degrades to direct upstream calls.
// Only the search path should use this; backfill always embeds fresh.
type CachedEmbedder struct {
	inner Embedder
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedEmbedder(inner Embedder, rdb *redis.Client, ttl time.Duration) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedEmbedder) Dimensions() int { return c.inner.Dimensions() }

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	trimmed, err := validateInput(text)
	if err != nil {
		return nil, err
	}

	key := cacheKey(trimmed)
	if c.rdb != nil {
		if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
			var vec []float32
			if err := json.Unmarshal(raw, &vec); err == nil && len(vec) == c.inner.Dimensions() {
				return vec, nil
			}
			// Stale or corrupt entry; drop it and re-embed
			c.rdb.Del(ctx, key)
		}
	}

	vec, err := c.inner.Embed(ctx, trimmed)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		if raw, err := json.Marshal(vec); err == nil {
			if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				logger.Debug("embedding cache write failed", "error", err)
			}
		}
	}
	return vec, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "embed:" + hex.EncodeToString(sum[:])
}
