// Package semantic provides embedding-similarity fallbacks for intent
// and place-type matching. Template vectors are computed once at
// construction and shared read-only afterwards.
package semantic

import (
	"context"
	"math"
)

// Embedder turns text into a dense vector. Implementations live in the
// ollama and mock subpackages.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Cosine returns the cosine similarity of two vectors, or 0 when either
// is empty or they differ in length.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
