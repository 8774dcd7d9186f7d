package semantic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"emergency-call-analysis/internal/models"
)

// placeThreshold gates the place-type fallback; below it the text is
// considered to carry no location signal.
const placeThreshold = 0.55

// placeTemplates is the fixed vocabulary of coarse place categories.
var placeTemplates = []string{
	"shopping mall",
	"street",
	"road",
	"college campus",
	"hospital",
	"apartment building",
	"pg hostel",
	"metro station",
	"market area",
	"residential area",
	"office building",
}

// PlaceMatcher maps free text to a coarse place-type label. Callers use
// it as an alternative location source when the extraction cascade
// finds nothing.
type PlaceMatcher struct {
	embedder Embedder
	vectors  [][]float64
}

// NewPlaceMatcher embeds the place vocabulary up front.
func NewPlaceMatcher(ctx context.Context, embedder Embedder) (*PlaceMatcher, error) {
	vectors := make([][]float64, 0, len(placeTemplates))
	for _, tpl := range placeTemplates {
		vec, err := embedder.Embed(ctx, tpl)
		if err != nil {
			return nil, fmt.Errorf("embed place template %q: %w", tpl, err)
		}
		vectors = append(vectors, vec)
	}
	return &PlaceMatcher{embedder: embedder, vectors: vectors}, nil
}

// Match returns a semantically derived hint for the best place
// category, or nil when the best similarity does not clear the
// threshold or embedding fails.
func (m *PlaceMatcher) Match(ctx context.Context, text string) *models.LocationHint {
	emb, err := m.embedder.Embed(ctx, text)
	if err != nil {
		log.Debug().Err(err).Msg("place embedding failed")
		return nil
	}

	bestIdx, bestScore := -1, 0.0
	for i, vec := range m.vectors {
		if score := Cosine(emb, vec); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 || bestScore <= placeThreshold {
		return nil
	}

	return &models.LocationHint{
		Text:       placeTemplates[bestIdx],
		Confidence: round2(bestScore),
		Semantic:   true,
	}
}
