package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/qrforge/qrforge/internal/model"
)

const (
	previewKeyPrefix = "preview:"

	// DefaultPreviewTTL is the TTL for cached preview artifacts.
	// Encoding is deterministic, so entries never go stale; the TTL
	// only bounds memory spent on one-off previews.
	DefaultPreviewTTL = 1 * time.Hour
)

// ErrCacheMiss is returned when a key is not present in the cache.
var ErrCacheMiss = errors.New("cache miss")

// PreviewKey derives a cache key from the full set of encoding inputs.
// Identical inputs always map to the same key.
func PreviewKey(content string, size int, level model.ECLevel, format model.Format) string {
	h := sha256.New()
	fmt.Fprintf(h, "%d|%s|%s|%s", size, level, format, content)
	return previewKeyPrefix + hex.EncodeToString(h.Sum(nil))
}

// GetPreview retrieves a cached preview artifact.
// Returns ErrCacheMiss if not found.
func (c *Cache) GetPreview(ctx context.Context, key string) (string, error) {
	artifact, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return artifact, nil
}

// SetPreview stores a preview artifact with the default TTL.
func (c *Cache) SetPreview(ctx context.Context, key, artifact string) error {
	if err := c.client.Set(ctx, key, artifact, DefaultPreviewTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
