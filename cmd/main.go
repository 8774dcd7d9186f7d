package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"emergency-call-analysis/internal/app"
	"emergency-call-analysis/internal/config"
	"emergency-call-analysis/internal/events"
	"emergency-call-analysis/internal/observability"
	"emergency-call-analysis/internal/observability/logging"
	"emergency-call-analysis/internal/pipeline"
	"emergency-call-analysis/internal/service/audio"
	"emergency-call-analysis/internal/service/classify"
	"emergency-call-analysis/internal/service/location"
	"emergency-call-analysis/internal/service/semantic"
	semanticmock "emergency-call-analysis/internal/service/semantic/mock"
	"emergency-call-analysis/internal/service/semantic/ollama"
	"emergency-call-analysis/internal/service/stt"
	"emergency-call-analysis/internal/service/stt/google"
	sttmock "emergency-call-analysis/internal/service/stt/mock"
	"emergency-call-analysis/internal/service/stt/whisper"
	"emergency-call-analysis/internal/store"
)

func main() {
	var (
		audioPath = flag.String("audio", "", "path to the call recording")
		mode      = flag.String("mode", "stream", "analysis mode: batch or stream")
		callID    = flag.String("call", "", "call id (generated when empty)")
		phone     = flag.String("phone", "", "caller phone number")
	)
	flag.Parse()

	if *audioPath == "" {
		fmt.Fprintln(os.Stderr, "usage: call-analysis -audio <file> [-mode batch|stream] [-call id] [-phone number]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("application start failed")
	}
	defer application.Shutdown()

	logging.Init(logging.Config{
		Level:      cfg.Observability.LogLevel,
		Format:     cfg.Observability.LogFormat,
		TimeFormat: time.RFC3339,
	})

	obs := observability.NewServer(cfg.Observability.MetricsAddr)
	obs.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(ctx)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	publisher := events.New(&events.Config{
		Enabled:       cfg.Kafka.Enabled,
		Brokers:       cfg.Kafka.Brokers,
		TopicSnapshot: cfg.Kafka.TopicPartial,
		TopicRecord:   cfg.Kafka.TopicFinal,
		Principal:     cfg.Kafka.Principal,
	})
	defer publisher.Close()

	var recordStore pipeline.RecordStore
	if cfg.Store.Enabled {
		db, err := store.Open(cfg.Store.Path)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open incident store")
		}
		defer db.Close()
		recordStore = db
	}

	transcriber, err := newTranscriber(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create transcriber")
	}
	defer transcriber.Close()

	embedder := newEmbedder(cfg)
	intents, err := semantic.NewIntentMatcher(ctx, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build intent matcher")
	}
	places, err := semantic.NewPlaceMatcher(ctx, embedder)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build place matcher")
	}

	classifier := classify.New(intents)
	geocoder := location.NewGeocoder(cfg.Location.GeocoderAPIKey,
		time.Duration(cfg.Location.GeocoderTimeoutSec)*time.Second)
	metadata := location.NewStaticProvider(cfg.Location.City, cfg.Location.Region,
		cfg.Location.Country, cfg.Location.Network)

	call := pipeline.Call{
		CallID:      *callID,
		AudioPath:   *audioPath,
		PhoneNumber: *phone,
	}
	if call.CallID == "" {
		call.CallID = uuid.NewString()
	}

	var output any
	switch *mode {
	case "batch":
		p := pipeline.NewProcessor(transcriber, classifier, geocoder, publisher,
			recordStore, cfg.Location.RegionQualifier)
		output, err = p.Process(ctx, call)
	case "stream":
		s := pipeline.NewStreamer(transcriber, classifier, places, metadata,
			geocoder, publisher, recordStore,
			audio.NewSegmenter(secondsToDuration(cfg.Pipeline.ChunkSeconds),
				secondsToDuration(cfg.Pipeline.HopSeconds)))
		s.RegionQualifier = cfg.Location.RegionQualifier
		s.BufferMaxChars = cfg.Pipeline.BufferMaxChars
		s.ChunkDelay = secondsToDuration(cfg.Pipeline.ChunkDelaySeconds)
		s.SampleRateHz = cfg.STT.SampleRateHz
		s.WorkDir = cfg.Pipeline.WorkDir
		output, err = s.Run(ctx, call)
	default:
		log.Fatal().Str("mode", *mode).Msg("unknown mode, expected batch or stream")
	}
	if err != nil {
		log.Fatal().Err(err).Str("callId", call.CallID).Msg("call analysis failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(output); err != nil {
		log.Fatal().Err(err).Msg("failed to encode result")
	}
}

func newTranscriber(ctx context.Context, cfg *config.Config) (stt.Transcriber, error) {
	switch cfg.STT.Provider {
	case "google":
		return google.New(ctx, google.Config{
			LanguageCode:  cfg.STT.LanguageCode,
			SampleRateHz:  cfg.STT.SampleRateHz,
			AudioEncoding: "LINEAR16",
		})
	case "whisper":
		// Whisper expects a bare ISO 639-1 code, not a full BCP-47 tag.
		language, _, _ := strings.Cut(cfg.STT.LanguageCode, "-")
		return whisper.New(cfg.STT.WhisperURL, cfg.STT.WhisperKey,
			cfg.STT.WhisperModel, language,
			time.Duration(cfg.STT.TimeoutSec)*time.Second), nil
	case "mock":
		return sttmock.New(cfg.STT.LanguageCode), nil
	default:
		return nil, fmt.Errorf("unknown stt provider %q", cfg.STT.Provider)
	}
}

func newEmbedder(cfg *config.Config) semantic.Embedder {
	if cfg.Semantic.Provider == "ollama" {
		return ollama.New(cfg.Semantic.OllamaURL, cfg.Semantic.Model,
			time.Duration(cfg.Semantic.TimeoutSec)*time.Second)
	}
	return semanticmock.New()
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
