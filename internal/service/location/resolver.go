// Package location fuses speech-derived location hints with caller
// network metadata and enriches free-text locations via geocoding.
package location

import "emergency-call-analysis/internal/models"

// Fixed confidences per resolution tier. The approx tier deliberately
// discards the hint's own confidence.
const (
	preciseDefaultConfidence = 0.8
	approxConfidence         = 0.6
	regionConfidence         = 0.4
)

// Resolve combines a speech hint with caller metadata into a single
// ranked resolution. A strict three-way decision tree:
//
//  1. hint carries a postal code: precise
//  2. hint carries free text: approx, anchored to the metadata city
//  3. no usable hint: region fallback from metadata
func Resolve(hint *models.LocationHint, md models.CallerMetadata) models.ResolvedLocation {
	if hint != nil && hint.Pincode != "" {
		confidence := hint.Confidence
		if confidence == 0 {
			confidence = preciseDefaultConfidence
		}
		return models.ResolvedLocation{
			Level:      models.LevelPrecise,
			Pincode:    hint.Pincode,
			Text:       hint.Text,
			Confidence: confidence,
		}
	}

	if hint != nil && hint.Text != "" {
		return models.ResolvedLocation{
			Level:      models.LevelApprox,
			Area:       hint.Text,
			City:       md.City,
			Confidence: approxConfidence,
		}
	}

	return models.ResolvedLocation{
		Level:      models.LevelRegion,
		Region:     md.Region,
		City:       md.City,
		Confidence: regionConfidence,
	}
}
