// Package mock provides a deterministic embedder for testing and for
// running the pipeline without an embedding service. Vectors are
// bag-of-words projections, so texts sharing tokens score high on
// cosine similarity and identical texts score 1.0.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const dimension = 64

// Embedder implements semantic.Embedder with hashed token counts.
type Embedder struct{}

// New creates a mock embedder.
func New() *Embedder {
	return &Embedder{}
}

// Embed maps each whitespace token into a fixed-size vector slot and
// L2-normalizes the result. Never fails.
func (e *Embedder) Embed(_ context.Context, text string) ([]float64, error) {
	vec := make([]float64, dimension)
	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%dimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}
