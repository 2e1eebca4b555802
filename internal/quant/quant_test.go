package quant

import (
	"math"
	"math/rand"
	"testing"
)

func floatCosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func randVector(r *rand.Rand, dim int, sign int) []float32 {
	v := make([]float32, dim)
	for i := range v {
		x := r.Float32()*2 - 1
		switch sign {
		case 1:
			x = r.Float32() + 0.01
		case -1:
			x = -r.Float32() - 0.01
		}
		v[i] = x
	}
	return v
}

func TestQuantize_RoundTripSelfSimilarity(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for _, dim := range []int{8, 256, 768} {
		for _, sign := range []int{1, -1, 0} {
			v := randVector(r, dim, sign)
			q, scale := Quantize(v)
			if len(q) != dim {
				t.Fatalf("dim %d: quantized length %d", dim, len(q))
			}
			d := Dequantize(q, scale)
			cos := floatCosine(d, d)
			if math.Abs(cos-1.0) > 1e-6 {
				t.Errorf("dim %d sign %d: self cosine %f, want 1.0", dim, sign, cos)
			}
		}
	}
}

func TestCosine_MatchesFloatSpace(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	const epsilon = 0.02
	for _, dim := range []int{8, 256, 768} {
		for _, sign := range []int{1, -1, 0} {
			a := randVector(r, dim, sign)
			b := randVector(r, dim, sign)
			qa, sa := Quantize(a)
			qb, sb := Quantize(b)

			got := Cosine(qa, sa, qb, sb)
			want := floatCosine(a, b)
			if math.Abs(got-want) > epsilon {
				t.Errorf("dim %d sign %d: quantized cosine %f, float cosine %f", dim, sign, got, want)
			}
		}
	}
}

func TestQuantize_ZeroVector(t *testing.T) {
	v := make([]float32, 16)
	q, scale := Quantize(v)
	if scale != 1.0 {
		t.Errorf("zero vector scale = %f, want 1.0", scale)
	}
	for i, b := range q {
		if b != 0 {
			t.Fatalf("q[%d] = %d, want 0", i, int8(b))
		}
	}

	other := randVector(rand.New(rand.NewSource(1)), 16, 0)
	qo, so := Quantize(other)
	if got := Cosine(q, scale, qo, so); got != 0 {
		t.Errorf("cosine against zero vector = %f, want 0", got)
	}
}

func TestCosine_MismatchedLengths(t *testing.T) {
	a := randVector(rand.New(rand.NewSource(2)), 8, 0)
	b := randVector(rand.New(rand.NewSource(3)), 16, 0)
	qa, sa := Quantize(a)
	qb, sb := Quantize(b)
	if got := Cosine(qa, sa, qb, sb); got != 0 {
		t.Errorf("mismatched lengths cosine = %f, want 0", got)
	}
	if got := Dot(qa, sa, qb, sb); got != 0 {
		t.Errorf("mismatched lengths dot = %f, want 0", got)
	}
}

func TestDot_MatchesFloatSpace(t *testing.T) {
	a := []float32{1, 2, 3, 4}
	b := []float32{-1, 0.5, 2, -3}
	qa, sa := Quantize(a)
	qb, sb := Quantize(b)

	var want float64
	for i := range a {
		want += float64(a[i]) * float64(b[i])
	}
	got := Dot(qa, sa, qb, sb)
	if math.Abs(got-want) > math.Abs(want)*0.05 {
		t.Errorf("dot = %f, want ~%f", got, want)
	}
}

func TestQuantize_ClampsToByteRange(t *testing.T) {
	// A vector whose max element maps exactly to 127; nothing may overflow.
	v := []float32{127, -128, 50, -50}
	q, _ := Quantize(v)
	for i, b := range q {
		x := int8(b)
		if x > 127 || x < -128 {
			t.Fatalf("q[%d] = %d out of int8 range", i, x)
		}
	}
}
