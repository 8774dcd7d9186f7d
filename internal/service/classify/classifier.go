// Package classify turns a call transcript into an emergency
// classification: type, priority, confidence, matched keywords, and a
// location hint extracted from the text.
package classify

import (
	"context"
	"math"
	"strings"

	"emergency-call-analysis/internal/models"
)

const (
	strongWeight = 3
	weakWeight   = 1

	// Keyword-path confidence: 0.5 floor plus 0.1 per score point,
	// capped at 0.95.
	confidenceFloor   = 0.5
	confidencePerHit  = 0.1
	confidenceCeiling = 0.95

	// Minimum similarity for the semantic fallback to claim an intent.
	semanticThreshold = 0.6
)

// IntentFallback scores free text against intent templates when no
// keyword matched. Implementations return the best intent and its
// similarity score.
type IntentFallback interface {
	Best(ctx context.Context, text string) (intent string, score float64)
}

// Classifier is a pure function over its keyword tables; the optional
// fallback is the only collaborator.
type Classifier struct {
	fallback IntentFallback
}

// New creates a classifier. fallback may be nil, in which case texts
// with no keyword hit classify as unknown.
func New(fallback IntentFallback) *Classifier {
	return &Classifier{fallback: fallback}
}

// Classify analyzes the text and returns an immutable classification.
// Empty input yields the sentinel empty result, never an error.
//
// When two types accumulate the same score the winner is the first in
// the fixed order ambulance, fire, police.
func (c *Classifier) Classify(ctx context.Context, text string) models.Classification {
	if strings.TrimSpace(text) == "" {
		return emptyResult(nil)
	}

	lower := strings.ToLower(text)

	scores := make(map[string]int, len(emergencyTypeOrder))
	var matched []string
	for _, etype := range emergencyTypeOrder {
		set := emergencyKeywords[etype]
		for _, kw := range set.Strong {
			if strings.Contains(lower, kw) {
				scores[etype] += strongWeight
				matched = append(matched, kw)
			}
		}
		for _, kw := range set.Weak {
			if strings.Contains(lower, kw) {
				scores[etype] += weakWeight
				matched = append(matched, kw)
			}
		}
	}

	// Extraction runs regardless of scoring outcome.
	location := ExtractLocation(lower)

	if len(scores) == 0 {
		if c.fallback != nil {
			intent, score := c.fallback.Best(ctx, lower)
			if score > semanticThreshold {
				return models.Classification{
					Type:       intent,
					Priority:   models.PriorityMedium,
					Confidence: round2(score),
					Keywords:   []string{},
					Location:   location,
				}
			}
		}
		// The hint was already computed; keep it even though the
		// classification itself came up empty.
		return emptyResult(location)
	}

	winner := emergencyTypeOrder[0]
	best := -1
	for _, etype := range emergencyTypeOrder {
		if s, ok := scores[etype]; ok && s > best {
			winner = etype
			best = s
		}
	}

	priority := models.PriorityLow
	for _, tier := range priorityTiers {
		if containsAny(lower, tier.Keywords) {
			priority = tier.Level
			break
		}
	}

	confidence := math.Min(confidenceFloor+confidencePerHit*float64(best), confidenceCeiling)

	return models.Classification{
		Type:       winner,
		Priority:   priority,
		Confidence: round2(confidence),
		Keywords:   dedupe(matched),
		Location:   location,
	}
}

func emptyResult(location *models.LocationHint) models.Classification {
	return models.Classification{
		Type:       models.TypeUnknown,
		Priority:   models.PriorityLow,
		Confidence: 0.0,
		Keywords:   []string{},
		Location:   location,
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func dedupe(terms []string) []string {
	seen := make(map[string]struct{}, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
