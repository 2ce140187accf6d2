package vector

import "math"

// CosineDistance returns 1 - cos(a, b), clamped to [0, 2].
// Vectors of different length or with zero norm have distance 1.
func CosineDistance(a, b []float32) float32 {
	if len(a) != len(b) {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	d := 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
	switch {
	case math.IsNaN(d):
		return 1
	case d < 0:
		return 0
	case d > 2:
		return 2
	}
	return float32(d)
}
