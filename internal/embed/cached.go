package embed

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/grimoire/internal/cache"
)

// CachedEncoder wraps an Encoder with a cache store. Keys are derived from
// the provider name and the text so switching providers never serves stale
// vectors.
type CachedEncoder struct {
	inner Encoder
	store cache.Store
	ttl   time.Duration
}

// NewCachedEncoder wraps inner with the given store.
func NewCachedEncoder(inner Encoder, store cache.Store, ttl time.Duration) *CachedEncoder {
	return &CachedEncoder{inner: inner, store: store, ttl: ttl}
}

func (c *CachedEncoder) Name() string {
	return c.inner.Name()
}

func (c *CachedEncoder) Dims() int {
	return c.inner.Dims()
}

func (c *CachedEncoder) IsAvailable(ctx context.Context) bool {
	return c.inner.IsAvailable(ctx)
}

func (c *CachedEncoder) Encode(ctx context.Context, text string) ([]float32, error) {
	key := cacheKey(c.inner.Name(), text)

	if raw, found := c.store.Get(key); found {
		var vec []float32
		if err := json.Unmarshal(raw, &vec); err == nil {
			return vec, nil
		}
		// Corrupt entry, drop it and re-encode.
		_ = c.store.Delete(key)
	}

	vec, err := c.inner.Encode(ctx, text)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(vec)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding: %w", err)
	}
	_ = c.store.Set(key, raw, c.ttl)

	return vec, nil
}

func cacheKey(provider, text string) string {
	sum := sha256.Sum256([]byte(provider + "\x00" + text))
	return hex.EncodeToString(sum[:])
}
