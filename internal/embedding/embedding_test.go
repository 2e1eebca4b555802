package embedding

import (
	"context"
	"math"
	"testing"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder(384)
	ctx := context.Background()

	a, err := m.Embed(ctx, "i live in oslo")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := m.Embed(ctx, "i live in oslo")

	if len(a) != 384 {
		t.Fatalf("dims = %d, want 384", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embedding not deterministic at %d: %f vs %f", i, a[i], b[i])
		}
	}

	c, _ := m.Embed(ctx, "something else entirely")
	if CosineSimilarity(a, c) > 0.99 {
		t.Error("distinct inputs produced near-identical vectors")
	}
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	m := NewMockEmbedder(64)
	v, _ := m.Embed(context.Background(), "anything")

	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(norm)-1.0) > 1e-4 {
		t.Errorf("norm = %f, want 1.0", math.Sqrt(norm))
	}
}

func TestFailingEmbedder(t *testing.T) {
	m := NewFailingEmbedder(8)
	if _, err := m.Embed(context.Background(), "x"); err == nil {
		t.Fatal("expected an error")
	}
}

func TestZeroVector(t *testing.T) {
	z := ZeroVector(16)
	if len(z) != 16 || !IsZero(z) {
		t.Fatalf("bad zero vector: %v", z)
	}
	if IsZero(Vector{0, 0.01, 0}) {
		t.Error("non-zero vector reported as zero")
	}
}

func TestCosineSimilarity(t *testing.T) {
	a := Vector{1, 0, 0}
	if got := CosineSimilarity(a, a); math.Abs(got-1) > 1e-9 {
		t.Errorf("self cosine = %f", got)
	}
	if got := CosineSimilarity(a, Vector{0, 1, 0}); got != 0 {
		t.Errorf("orthogonal cosine = %f", got)
	}
	if got := CosineSimilarity(a, Vector{1, 0}); got != 0 {
		t.Errorf("mismatched dims cosine = %f", got)
	}
	if got := CosineSimilarity(a, ZeroVector(3)); got != 0 {
		t.Errorf("zero vector cosine = %f", got)
	}
}

func TestCached_ServesFromCache(t *testing.T) {
	inner := NewMockEmbedder(32)
	c, err := NewCached(inner, 1<<20)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	a, err := c.Embed(ctx, "repeat me")
	if err != nil {
		t.Fatal(err)
	}
	b, err := c.Embed(ctx, "repeat me")
	if err != nil {
		t.Fatal(err)
	}
	if CosineSimilarity(a, b) < 0.999 {
		t.Error("cached vector differs from original")
	}
	if c.Dims() != 32 {
		t.Errorf("dims = %d", c.Dims())
	}
}
