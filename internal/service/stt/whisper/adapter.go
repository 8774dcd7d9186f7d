// Package whisper provides a Transcriber for OpenAI-compatible Whisper
// servers (openai.com, faster-whisper-server, speaches, LocalAI).
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"emergency-call-analysis/internal/observability/metrics"
	"emergency-call-analysis/internal/service/stt"
)

// Adapter posts audio files to the /v1/audio/transcriptions endpoint.
type Adapter struct {
	baseURL  string
	apiKey   string
	model    string
	language string
	client   *http.Client
	metrics  *metrics.Metrics
}

// New creates an adapter for the given server. language may be empty
// to let the model detect it.
func New(baseURL, apiKey, model, language string, timeout time.Duration) *Adapter {
	return &Adapter{
		baseURL:  baseURL,
		apiKey:   apiKey,
		model:    model,
		language: language,
		client:   &http.Client{Timeout: timeout},
		metrics:  metrics.DefaultMetrics,
	}
}

type transcriptionResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Transcribe uploads the file and returns the recognized text along
// with the language the model detected.
func (a *Adapter) Transcribe(ctx context.Context, audioPath string) (stt.Result, error) {
	start := time.Now()
	res, err := a.transcribe(ctx, audioPath)
	a.metrics.RecordSTT("whisper", err, time.Since(start).Seconds())
	return res, err
}

func (a *Adapter) transcribe(ctx context.Context, audioPath string) (stt.Result, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return stt.Result{}, fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return stt.Result{}, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return stt.Result{}, fmt.Errorf("read audio: %w", err)
	}

	fields := map[string]string{
		"model":           a.model,
		"response_format": "verbose_json",
	}
	if a.language != "" {
		fields["language"] = a.language
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return stt.Result{}, err
		}
	}
	if err := mw.Close(); err != nil {
		return stt.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/audio/transcriptions", &body)
	if err != nil {
		return stt.Result{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return stt.Result{}, fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return stt.Result{}, fmt.Errorf("transcription http %d: %s", resp.StatusCode, string(msg))
	}

	var out transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return stt.Result{}, fmt.Errorf("decode transcription response: %w", err)
	}

	language := out.Language
	if language == "" {
		language = a.language
	}
	return stt.Result{Text: out.Text, Language: language}, nil
}

// Close is a no-op; the adapter holds no persistent connections.
func (a *Adapter) Close() error {
	return nil
}
