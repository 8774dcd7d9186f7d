package semantic

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"emergency-call-analysis/internal/models"
)

// intentTemplates are the canonical example sentences per emergency
// type. Order is the deterministic enumeration order.
var intentTemplates = []struct {
	Intent   string
	Examples []string
}{
	{models.TypeAmbulance, []string{
		"person is injured",
		"someone is bleeding",
		"accident happened",
		"person collapsed",
		"not breathing",
	}},
	{models.TypePolice, []string{
		"crime happened",
		"someone attacked",
		"theft occurred",
		"person murdered",
		"assault took place",
	}},
	{models.TypeFire, []string{
		"fire broke out",
		"building is burning",
		"smoke everywhere",
	}},
}

type intentGroup struct {
	intent  string
	vectors [][]float64
}

// IntentMatcher scores free text against the intent templates. The
// template vectors are embedded once in NewIntentMatcher and never
// mutated, so a single matcher is safe to share across calls.
type IntentMatcher struct {
	embedder Embedder
	groups   []intentGroup
}

// NewIntentMatcher embeds every intent template up front.
func NewIntentMatcher(ctx context.Context, embedder Embedder) (*IntentMatcher, error) {
	groups := make([]intentGroup, 0, len(intentTemplates))
	for _, tpl := range intentTemplates {
		g := intentGroup{intent: tpl.Intent, vectors: make([][]float64, 0, len(tpl.Examples))}
		for _, ex := range tpl.Examples {
			vec, err := embedder.Embed(ctx, ex)
			if err != nil {
				return nil, fmt.Errorf("embed intent template %q: %w", ex, err)
			}
			g.vectors = append(g.vectors, vec)
		}
		groups = append(groups, g)
	}
	return &IntentMatcher{embedder: embedder, groups: groups}, nil
}

// Best returns the intent whose templates are most similar to the text,
// along with the similarity score. An embedding failure degrades to
// ("unknown", 0) rather than propagating.
func (m *IntentMatcher) Best(ctx context.Context, text string) (string, float64) {
	emb, err := m.embedder.Embed(ctx, text)
	if err != nil {
		log.Debug().Err(err).Msg("intent embedding failed")
		return models.TypeUnknown, 0
	}

	bestIntent, bestScore := models.TypeUnknown, 0.0
	for _, g := range m.groups {
		for _, vec := range g.vectors {
			if score := Cosine(emb, vec); score > bestScore {
				bestIntent, bestScore = g.intent, score
			}
		}
	}
	return bestIntent, bestScore
}
