package embedding

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// Cached wraps an Embedder with an in-process ristretto cache keyed by the
// input text. Repeated queries (the common case for recall) skip the
// network round trip.
type Cached struct {
	inner Embedder
	cache *ristretto.Cache
}

// NewCached wraps inner with a cache holding up to maxBytes of vectors.
func NewCached(inner Embedder, maxBytes int64) (*Cached, error) {
	if maxBytes <= 0 {
		maxBytes = 16 << 20
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Embed(ctx context.Context, text string) (Vector, error) {
	if v, ok := c.cache.Get(text); ok {
		if vec, ok := v.(Vector); ok {
			return vec, nil
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, vec, int64(4*len(vec)))
	return vec, nil
}

func (c *Cached) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	return embedSequentially(ctx, c, texts)
}

func (c *Cached) Dims() int { return c.inner.Dims() }
