package common

import "math"

// CosineSimilarity calculates the cosine similarity between two vectors
// and returns the score along with a boolean indicating if the calculation was successful.
func CosineSimilarity(a, b []float64) (float64, bool) {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0, false
	}

	var dotProduct float64
	var normA float64
	var normB float64

	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, false
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), true
}

// Cosine is CosineSimilarity with degenerate inputs collapsed to zero.
// An empty or zero vector carries no signal, so it is orthogonal to everything.
func Cosine(a, b []float64) float64 {
	score, _ := CosineSimilarity(a, b)
	return score
}

// MeanVector returns the component-wise mean of the given vectors,
// skipping vectors whose length disagrees with the first one.
func MeanVector(vectors [][]float64) []float64 {
	if len(vectors) == 0 {
		return nil
	}

	dims := len(vectors[0])
	sum := make([]float64, dims)
	count := 0
	for _, vec := range vectors {
		if len(vec) != dims {
			continue
		}
		for i := range vec {
			sum[i] += vec[i]
		}
		count++
	}
	if count == 0 {
		return sum
	}
	for i := range sum {
		sum[i] /= float64(count)
	}
	return sum
}

// NormalizeVector scales the vector to unit L2 norm. A zero vector is
// returned unchanged.
func NormalizeVector(vector []float64) []float64 {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += v * v
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		norm = 1
	}

	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = v / norm
	}
	return out
}

// AddScaled returns a + scale*b, truncated to the shorter length.
func AddScaled(a, b []float64, scale float64) []float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = a[i] + scale*b[i]
	}
	return out
}

// ScaleVector returns vector * scale.
func ScaleVector(vector []float64, scale float64) []float64 {
	out := make([]float64, len(vector))
	for i, v := range vector {
		out[i] = v * scale
	}
	return out
}

// Softmax3 converts three raw scores into a probability triplet using a
// temperature-scaled softmax. Temperatures below 1 sharpen the distribution.
func Softmax3(a, b, c, temperature float64) (float64, float64, float64) {
	if temperature < 1e-8 {
		temperature = 1e-8
	}
	a, b, c = a/temperature, b/temperature, c/temperature

	m := math.Max(a, math.Max(b, c))
	ea := math.Exp(a - m)
	eb := math.Exp(b - m)
	ec := math.Exp(c - m)
	z := ea + eb + ec
	if z == 0 {
		z = 1
	}
	return ea / z, eb / z, ec / z
}

// SoftmaxWeights converts raw scores into normalized weights with a
// sharpening factor beta. Higher beta lets the best score dominate.
func SoftmaxWeights(scores []float64, beta float64) []float64 {
	if len(scores) == 0 {
		return nil
	}
	m := scores[0]
	for _, s := range scores[1:] {
		if s > m {
			m = s
		}
	}
	out := make([]float64, len(scores))
	var z float64
	for i, s := range scores {
		out[i] = math.Exp(beta * (s - m))
		z += out[i]
	}
	if z == 0 {
		z = 1
	}
	for i := range out {
		out[i] /= z
	}
	return out
}

// MinMaxNormalize01 rescales values into [0,1]. When all values are
// effectively equal, every element maps to 0.5.
func MinMaxNormalize01(values []float64) []float64 {
	if len(values) == 0 {
		return nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	out := make([]float64, len(values))
	if hi-lo < 1e-9 {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, v := range values {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

// Clamp01 clamps a value into [0,1].
func Clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// ArgMax returns the index of the largest value, preferring the first
// occurrence on ties. Returns -1 for empty input.
func ArgMax(values []float64) int {
	best := -1
	bestScore := math.Inf(-1)
	for i, v := range values {
		if v > bestScore {
			bestScore = v
			best = i
		}
	}
	return best
}

// Round2 rounds to two decimal places, the precision reported to API
// consumers for scores and weights.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
