// Package google provides a Transcriber backed by Google Cloud
// Speech-to-Text synchronous recognition.
package google

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"

	"emergency-call-analysis/internal/observability/metrics"
	"emergency-call-analysis/internal/service/stt"
)

// Config holds recognition parameters.
type Config struct {
	LanguageCode  string
	SampleRateHz  int
	AudioEncoding string
}

// DefaultConfig returns settings matching the pipeline's chunk format.
func DefaultConfig() Config {
	return Config{
		LanguageCode:  "en-US",
		SampleRateHz:  16000,
		AudioEncoding: "LINEAR16",
	}
}

// parseAudioEncoding maps an encoding name to the API enum, falling
// back to LINEAR16 for unknown values.
func parseAudioEncoding(s string) speechpb.RecognitionConfig_AudioEncoding {
	switch s {
	case "LINEAR16":
		return speechpb.RecognitionConfig_LINEAR16
	case "MULAW":
		return speechpb.RecognitionConfig_MULAW
	case "FLAC":
		return speechpb.RecognitionConfig_FLAC
	case "AMR":
		return speechpb.RecognitionConfig_AMR
	case "AMR_WB":
		return speechpb.RecognitionConfig_AMR_WB
	case "OGG_OPUS":
		return speechpb.RecognitionConfig_OGG_OPUS
	case "SPEEX_WITH_HEADER_BYTE":
		return speechpb.RecognitionConfig_SPEEX_WITH_HEADER_BYTE
	case "WEBM_OPUS":
		return speechpb.RecognitionConfig_WEBM_OPUS
	default:
		return speechpb.RecognitionConfig_LINEAR16
	}
}

// Adapter recognizes whole audio files. Requires the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
type Adapter struct {
	client  *speech.Client
	cfg     Config
	metrics *metrics.Metrics
}

// New creates the adapter and its underlying API client.
func New(ctx context.Context, cfg Config) (*Adapter, error) {
	c, err := speech.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create speech client: %w", err)
	}
	return &Adapter{
		client:  c,
		cfg:     cfg,
		metrics: metrics.DefaultMetrics,
	}, nil
}

// Transcribe sends the file content through synchronous recognition
// and joins all result alternatives into one transcript.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string) (stt.Result, error) {
	start := time.Now()
	res, err := a.transcribe(ctx, audioPath)
	a.metrics.RecordSTT("google", err, time.Since(start).Seconds())
	return res, err
}

func (a *Adapter) transcribe(ctx context.Context, audioPath string) (stt.Result, error) {
	content, err := os.ReadFile(audioPath)
	if err != nil {
		return stt.Result{}, fmt.Errorf("read audio: %w", err)
	}

	resp, err := a.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:        parseAudioEncoding(a.cfg.AudioEncoding),
			SampleRateHertz: int32(a.cfg.SampleRateHz),
			LanguageCode:    a.cfg.LanguageCode,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: content},
		},
	})
	if err != nil {
		return stt.Result{}, fmt.Errorf("recognize %s: %w", audioPath, err)
	}

	var parts []string
	for _, r := range resp.Results {
		if len(r.Alternatives) == 0 {
			continue
		}
		parts = append(parts, r.Alternatives[0].Transcript)
	}
	return stt.Result{
		Text:     strings.Join(parts, " "),
		Language: a.cfg.LanguageCode,
	}, nil
}

// Close releases the API client.
func (a *Adapter) Close() error {
	return a.client.Close()
}
