// Package pipeline orchestrates call analysis: the batch processor for
// whole recordings and the streamer for chunked near-live analysis.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"emergency-call-analysis/internal/events"
	"emergency-call-analysis/internal/models"
	"emergency-call-analysis/internal/observability/logging"
	"emergency-call-analysis/internal/observability/metrics"
	"emergency-call-analysis/internal/service/classify"
	"emergency-call-analysis/internal/service/location"
	"emergency-call-analysis/internal/service/normalize"
	"emergency-call-analysis/internal/service/stt"
)

// RecordStore persists final incident records. Implemented by the
// SQLite store; nil disables persistence.
type RecordStore interface {
	Save(ctx context.Context, rec models.IncidentRecord) error
}

// Call identifies one incoming call to analyze.
type Call struct {
	CallID      string
	AudioPath   string
	PhoneNumber string
}

// BatchResult is the batch pipeline output.
type BatchResult struct {
	Analysis models.CallAnalysis   `json:"analysis"`
	Record   models.IncidentRecord `json:"record"`
}

// Processor analyzes a whole recording in one pass.
type Processor struct {
	Transcriber stt.Transcriber
	Classifier  *classify.Classifier
	Geocoder    *location.Geocoder
	Publisher   *events.Publisher
	Store       RecordStore

	// RegionQualifier is appended to extracted location text before
	// geocoding, e.g. "Bangalore, India".
	RegionQualifier string

	metrics *metrics.Metrics
}

// NewProcessor wires a batch processor. Geocoder and Store may be nil.
func NewProcessor(transcriber stt.Transcriber, classifier *classify.Classifier,
	geocoder *location.Geocoder, publisher *events.Publisher, store RecordStore,
	regionQualifier string) *Processor {
	return &Processor{
		Transcriber:     transcriber,
		Classifier:      classifier,
		Geocoder:        geocoder,
		Publisher:       publisher,
		Store:           store,
		RegionQualifier: regionQualifier,
		metrics:         metrics.DefaultMetrics,
	}
}

// Process transcribes, classifies, and enriches the recording, then
// persists and publishes the resulting incident record. Transcription
// failures abort the call; persistence and publish failures are logged
// and do not fail the analysis.
func (p *Processor) Process(ctx context.Context, call Call) (BatchResult, error) {
	logger := logging.WithCall(call.CallID)
	start := time.Now()
	p.metrics.RecordCallStart()

	res, err := p.Transcriber.Transcribe(ctx, call.AudioPath)
	if err != nil {
		p.metrics.RecordCallEnd(false, time.Since(start).Seconds())
		return BatchResult{}, fmt.Errorf("transcribe call %s: %w", call.CallID, err)
	}

	transcript := normalize.Text(res.Text)
	cls := p.Classifier.Classify(ctx, transcript)
	p.metrics.RecordClassification(cls.Type, cls.Priority)

	geo := p.geocodeHint(ctx, cls.Location)

	analysis := models.CallAnalysis{
		CallID:     call.CallID,
		Language:   res.Language,
		Transcript: transcript,
		Analysis:   cls,
		Geo:        geo,
	}
	record := p.buildRecord(call, analysis)

	if p.Store != nil {
		if err := p.Store.Save(ctx, record); err != nil {
			logger.Error().Err(err).Msg("failed to persist incident")
		}
	}
	if p.Publisher != nil {
		final := models.IncidentFinal{
			EventType: "incident.final",
			CallID:    call.CallID,
			Timestamp: record.Timestamp,
			Record:    record,
		}
		if err := p.Publisher.PublishRecord(ctx, call.CallID, final); err != nil {
			logger.Error().Err(err).Msg("failed to publish incident record")
		}
	}

	logger.Info().
		Str("type", cls.Type).
		Str("priority", cls.Priority).
		Float64("confidence", cls.Confidence).
		Msg("call analyzed")
	p.metrics.RecordCallEnd(true, time.Since(start).Seconds())
	return BatchResult{Analysis: analysis, Record: record}, nil
}

func (p *Processor) geocodeHint(ctx context.Context, hint *models.LocationHint) *models.GeoPoint {
	if p.Geocoder == nil || hint == nil || hint.Text == "" {
		return nil
	}
	address := hint.Text
	if p.RegionQualifier != "" {
		address += ", " + p.RegionQualifier
	}
	return p.Geocoder.Geocode(ctx, address)
}

func (p *Processor) buildRecord(call Call, analysis models.CallAnalysis) models.IncidentRecord {
	rec := models.IncidentRecord{
		CallID:        call.CallID,
		Timestamp:     time.Now().Unix(),
		PhoneNumber:   call.PhoneNumber,
		AudioPath:     call.AudioPath,
		Language:      analysis.Language,
		Transcript:    analysis.Transcript,
		EmergencyType: analysis.Analysis.Type,
		Priority:      analysis.Analysis.Priority,
		Confidence:    analysis.Analysis.Confidence,
		Keywords:      analysis.Analysis.Keywords,
		Status:        models.StatusNew,
	}
	if hint := analysis.Analysis.Location; hint != nil {
		rec.LocationText = hint.Text
		if rec.LocationText == "" {
			rec.LocationText = hint.Pincode
		}
	}
	if analysis.Geo != nil {
		lat, lng := analysis.Geo.Lat, analysis.Geo.Lng
		rec.Latitude, rec.Longitude = &lat, &lng
	}
	return rec
}
