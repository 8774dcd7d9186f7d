package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"emergency-call-analysis/internal/events"
	"emergency-call-analysis/internal/models"
	"emergency-call-analysis/internal/observability/logging"
	"emergency-call-analysis/internal/observability/metrics"
	"emergency-call-analysis/internal/service/audio"
	"emergency-call-analysis/internal/service/callstate"
	"emergency-call-analysis/internal/service/classify"
	"emergency-call-analysis/internal/service/location"
	"emergency-call-analysis/internal/service/normalize"
	"emergency-call-analysis/internal/service/semantic"
	"emergency-call-analysis/internal/service/stt"
)

// Streamer replays a recording as overlapping chunks and analyzes each
// one against a rolling transcript window, emitting a snapshot event
// per chunk and a final incident record at the end.
type Streamer struct {
	Transcriber  stt.Transcriber
	Classifier   *classify.Classifier
	PlaceMatcher *semantic.PlaceMatcher
	Metadata     location.MetadataProvider
	Geocoder     *location.Geocoder
	Publisher    *events.Publisher
	Store        RecordStore
	Segmenter    *audio.Segmenter

	// RegionQualifier is appended to the final location text before
	// geocoding.
	RegionQualifier string

	// BufferMaxChars bounds the rolling classification window.
	BufferMaxChars int

	// ChunkDelay paces chunk processing to simulate live audio. Zero
	// disables pacing.
	ChunkDelay time.Duration

	// SampleRateHz is the target rate for transcoded recordings.
	SampleRateHz int

	// WorkDir receives chunk files; empty means a temp directory.
	WorkDir string

	metrics *metrics.Metrics
}

// NewStreamer wires a streamer. PlaceMatcher, Geocoder, and Store may
// be nil.
func NewStreamer(transcriber stt.Transcriber, classifier *classify.Classifier,
	placeMatcher *semantic.PlaceMatcher, metadata location.MetadataProvider,
	geocoder *location.Geocoder, publisher *events.Publisher, store RecordStore,
	segmenter *audio.Segmenter) *Streamer {
	return &Streamer{
		Transcriber:    transcriber,
		Classifier:     classifier,
		PlaceMatcher:   placeMatcher,
		Metadata:       metadata,
		Geocoder:       geocoder,
		Publisher:      publisher,
		Store:          store,
		Segmenter:      segmenter,
		BufferMaxChars: callstate.DefaultBufferSize,
		SampleRateHz:   16000,
		metrics:        metrics.DefaultMetrics,
	}
}

// Run processes the call end to end and returns the final snapshot.
// A transcription failure stops the stream; everything downstream of
// transcription degrades instead of failing the call.
func (s *Streamer) Run(ctx context.Context, call Call) (models.IncidentSnapshot, error) {
	logger := logging.WithCall(call.CallID)
	start := time.Now()
	s.metrics.RecordCallStart()

	snapshot, err := s.run(ctx, call)
	s.metrics.RecordCallEnd(err == nil, time.Since(start).Seconds())
	if err != nil {
		logger.Error().Err(err).Msg("stream analysis failed")
		return snapshot, err
	}

	logger.Info().
		Str("type", snapshot.Type).
		Str("priority", snapshot.Priority).
		Bool("locationLocked", snapshot.LocationLocked).
		Msg("stream analysis complete")
	return snapshot, nil
}

func (s *Streamer) run(ctx context.Context, call Call) (models.IncidentSnapshot, error) {
	wavPath, err := audio.EnsurePCMWAV(ctx, call.AudioPath, s.SampleRateHz)
	if err != nil {
		return models.IncidentSnapshot{}, err
	}

	outDir := s.WorkDir
	if outDir == "" {
		dir, err := os.MkdirTemp("", "call-chunks-")
		if err != nil {
			return models.IncidentSnapshot{}, fmt.Errorf("create chunk dir: %w", err)
		}
		defer os.RemoveAll(dir)
		outDir = dir
	}

	chunks, err := s.Segmenter.Segment(wavPath, filepath.Join(outDir, call.CallID))
	if err != nil {
		return models.IncidentSnapshot{}, err
	}

	md := s.Metadata.Lookup(call.PhoneNumber)
	buffer := callstate.NewBuffer(s.BufferMaxChars)
	state := callstate.New()
	language := ""

	for i, chunkPath := range chunks {
		if err := ctx.Err(); err != nil {
			return state.Snapshot(), err
		}

		logger := logging.WithChunk(call.CallID, i)

		res, err := s.Transcriber.Transcribe(ctx, chunkPath)
		if err != nil {
			return state.Snapshot(), fmt.Errorf("transcribe chunk %d: %w", i, err)
		}
		if res.Language != "" {
			language = res.Language
		}
		s.metrics.RecordChunk()

		chunkText := normalize.Text(res.Text)
		window := buffer.Add(chunkText)

		cls := s.Classifier.Classify(ctx, window)
		s.metrics.RecordClassification(cls.Type, cls.Priority)

		if cls.Location == nil && s.PlaceMatcher != nil {
			cls.Location = s.PlaceMatcher.Match(ctx, window)
		}
		if cls.Location != nil {
			source := "extract"
			if cls.Location.Semantic {
				source = "semantic"
			}
			s.metrics.RecordLocationHint(source)
		}

		resolved := location.Resolve(cls.Location, md)
		s.metrics.RecordResolution(resolved.Level)

		wasLocked := state.Locked()
		state = state.Apply(callstate.Observation{
			Text:           chunkText,
			Classification: cls,
			Resolved:       &resolved,
		})
		if state.Locked() && !wasLocked {
			s.metrics.RecordLocationLock()
			logger.Info().Str("location", cls.Location.Text).Msg("location locked")
		}

		snap := state.Snapshot()
		if s.Publisher != nil {
			partial := models.IncidentPartial{
				EventType:  "incident.partial",
				CallID:     call.CallID,
				ChunkIndex: i,
				Timestamp:  time.Now().Unix(),
				Snapshot:   snap,
			}
			if err := s.Publisher.PublishSnapshot(ctx, call.CallID, partial); err != nil {
				logger.Error().Err(err).Msg("failed to publish snapshot")
			}
		}

		logger.Debug().
			Str("type", snap.Type).
			Str("priority", snap.Priority).
			Str("resolution", resolved.Level).
			Msg("chunk analyzed")

		if s.ChunkDelay > 0 && i < len(chunks)-1 {
			select {
			case <-time.After(s.ChunkDelay):
			case <-ctx.Done():
				return state.Snapshot(), ctx.Err()
			}
		}
	}

	final := state.Snapshot()
	record := s.buildRecord(ctx, call, final, language)

	if s.Store != nil {
		if err := s.Store.Save(ctx, record); err != nil {
			l := logging.WithCall(call.CallID)
			l.Error().Err(err).Msg("failed to persist incident")
		}
	}
	if s.Publisher != nil {
		event := models.IncidentFinal{
			EventType: "incident.final",
			CallID:    call.CallID,
			Timestamp: record.Timestamp,
			Record:    record,
		}
		if err := s.Publisher.PublishRecord(ctx, call.CallID, event); err != nil {
			l := logging.WithCall(call.CallID)
			l.Error().Err(err).Msg("failed to publish incident record")
		}
	}

	return final, nil
}

func (s *Streamer) buildRecord(ctx context.Context, call Call, snap models.IncidentSnapshot, language string) models.IncidentRecord {
	rec := models.IncidentRecord{
		CallID:        call.CallID,
		Timestamp:     time.Now().Unix(),
		PhoneNumber:   call.PhoneNumber,
		AudioPath:     call.AudioPath,
		Language:      language,
		Transcript:    snap.Transcript,
		EmergencyType: snap.Type,
		Priority:      snap.Priority,
		Confidence:    snap.Confidence,
		Keywords:      snap.Keywords,
		Status:        models.StatusNew,
	}

	var locationText string
	if snap.Location != nil {
		locationText = snap.Location.Text
		if locationText == "" {
			locationText = snap.Location.Pincode
		}
	}
	rec.LocationText = locationText

	if s.Geocoder != nil && locationText != "" && snap.Location != nil && !snap.Location.Semantic {
		address := locationText
		if s.RegionQualifier != "" {
			address += ", " + s.RegionQualifier
		}
		if geo := s.Geocoder.Geocode(ctx, address); geo != nil {
			lat, lng := geo.Lat, geo.Lng
			rec.Latitude, rec.Longitude = &lat, &lng
		}
	}
	return rec
}
