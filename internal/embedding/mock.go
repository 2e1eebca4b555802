package embedding

import (
	"context"
	"hash/fnv"
	"math"
)

// MockEmbedder generates deterministic unit vectors from a text hash.
// It is the offline fallback and the test double: similar inputs do not
// produce similar vectors, but identical inputs always produce identical
// ones.
type MockEmbedder struct {
	dims int

	failing bool
}

// NewMockEmbedder creates a deterministic offline embedder.
func NewMockEmbedder(dims int) *MockEmbedder {
	if dims <= 0 {
		dims = 384
	}
	return &MockEmbedder{dims: dims}
}

// NewFailingEmbedder returns a mock whose Embed always errors, for
// exercising the degrade path.
func NewFailingEmbedder(dims int) *MockEmbedder {
	m := NewMockEmbedder(dims)
	m.failing = true
	return m
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	if m.failing {
		return nil, context.DeadlineExceeded
	}

	h := fnv.New64a()
	h.Write([]byte(text))
	seed := h.Sum64()

	v := make(Vector, m.dims)
	for i := 0; i < m.dims; i++ {
		// LCG keeps the sequence deterministic per input.
		seed = seed*6364136223846793005 + 1442695040888963407
		v[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}
	return normalize(v), nil
}

func (m *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([]Vector, error) {
	return embedSequentially(ctx, m, texts)
}

func (m *MockEmbedder) Dims() int { return m.dims }

func normalize(v Vector) Vector {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	n := float32(math.Sqrt(norm))
	for i := range v {
		v[i] /= n
	}
	return v
}
