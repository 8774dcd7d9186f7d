package config

import (
	"os"
	"path/filepath"
	"testing"
)

var knownEnvVars = []string{
	"CONFIG_FILE", "SERVICE_NAME", "ENV", "SERVICE_PRINCIPAL",
	"STT_PROVIDER", "STT_LANGUAGE_CODE", "STT_SAMPLE_RATE_HZ",
	"STT_WHISPER_URL", "STT_WHISPER_MODEL", "STT_TIMEOUT_SEC",
	"SEMANTIC_PROVIDER", "SEMANTIC_OLLAMA_URL", "SEMANTIC_MODEL", "SEMANTIC_TIMEOUT_SEC",
	"PIPELINE_BUFFER_MAX_CHARS", "PIPELINE_CHUNK_SECONDS", "PIPELINE_HOP_SECONDS",
	"PIPELINE_CHUNK_DELAY_SECONDS", "PIPELINE_WORK_DIR",
	"LOCATION_REGION_QUALIFIER", "GOOGLE_MAPS_API_KEY", "GEOCODER_TIMEOUT_SEC",
	"CALLER_CITY", "CALLER_REGION", "CALLER_COUNTRY", "CALLER_NETWORK",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_PARTIAL", "KAFKA_TOPIC_FINAL", "KAFKA_PRINCIPAL",
	"STORE_ENABLED", "STORE_PATH",
	"LOG_LEVEL", "LOG_FORMAT", "METRICS_ADDR",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range knownEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Service.Principal != "svc-call-analysis" {
		t.Errorf("expected default principal 'svc-call-analysis', got %s", cfg.Service.Principal)
	}
	if cfg.STT.Provider != "mock" {
		t.Errorf("expected default STT provider 'mock', got %s", cfg.STT.Provider)
	}
	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected default sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.Pipeline.BufferMaxChars != 500 {
		t.Errorf("expected default buffer max chars 500, got %d", cfg.Pipeline.BufferMaxChars)
	}
	if cfg.Pipeline.ChunkSeconds != 3.0 {
		t.Errorf("expected default chunk seconds 3.0, got %v", cfg.Pipeline.ChunkSeconds)
	}
	if cfg.Pipeline.HopSeconds != 1.5 {
		t.Errorf("expected default hop seconds 1.5, got %v", cfg.Pipeline.HopSeconds)
	}
	if cfg.Location.RegionQualifier != "Bangalore, India" {
		t.Errorf("expected default region qualifier 'Bangalore, India', got %s", cfg.Location.RegionQualifier)
	}
	if cfg.Location.GeocoderTimeoutSec != 5 {
		t.Errorf("expected default geocoder timeout 5, got %d", cfg.Location.GeocoderTimeoutSec)
	}
	if cfg.Kafka.Enabled {
		t.Error("expected kafka disabled by default")
	}
	if cfg.Kafka.TopicPartial != "call.incident.partial" {
		t.Errorf("expected default partial topic 'call.incident.partial', got %s", cfg.Kafka.TopicPartial)
	}
	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_PROVIDER", "whisper")
	t.Setenv("STT_WHISPER_URL", "http://whisper:9000")
	t.Setenv("PIPELINE_BUFFER_MAX_CHARS", "250")
	t.Setenv("PIPELINE_CHUNK_SECONDS", "2.5")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("CALLER_CITY", "Mysore")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.STT.Provider != "whisper" {
		t.Errorf("expected provider 'whisper', got %s", cfg.STT.Provider)
	}
	if cfg.STT.WhisperURL != "http://whisper:9000" {
		t.Errorf("expected whisper url override, got %s", cfg.STT.WhisperURL)
	}
	if cfg.Pipeline.BufferMaxChars != 250 {
		t.Errorf("expected buffer max chars 250, got %d", cfg.Pipeline.BufferMaxChars)
	}
	if cfg.Pipeline.ChunkSeconds != 2.5 {
		t.Errorf("expected chunk seconds 2.5, got %v", cfg.Pipeline.ChunkSeconds)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "kafka-1:9092" || cfg.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("expected two trimmed brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Location.City != "Mysore" {
		t.Errorf("expected caller city 'Mysore', got %s", cfg.Location.City)
	}
}

func TestLoad_InvalidNumericEnvFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("STT_SAMPLE_RATE_HZ", "not-a-number")
	t.Setenv("PIPELINE_HOP_SECONDS", "fast")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.STT.SampleRateHz != 16000 {
		t.Errorf("expected fallback sample rate 16000, got %d", cfg.STT.SampleRateHz)
	}
	if cfg.Pipeline.HopSeconds != 1.5 {
		t.Errorf("expected fallback hop seconds 1.5, got %v", cfg.Pipeline.HopSeconds)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
stt:
  provider: google
  language_code: en-IN
pipeline:
  buffer_max_chars: 800
location:
  region_qualifier: "Mysore, India"
store:
  enabled: true
  path: /tmp/calls.db
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.STT.Provider != "google" {
		t.Errorf("expected provider 'google', got %s", cfg.STT.Provider)
	}
	if cfg.STT.LanguageCode != "en-IN" {
		t.Errorf("expected language 'en-IN', got %s", cfg.STT.LanguageCode)
	}
	if cfg.Pipeline.BufferMaxChars != 800 {
		t.Errorf("expected buffer max chars 800, got %d", cfg.Pipeline.BufferMaxChars)
	}
	if cfg.Location.RegionQualifier != "Mysore, India" {
		t.Errorf("expected region qualifier from file, got %s", cfg.Location.RegionQualifier)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "/tmp/calls.db" {
		t.Errorf("expected store settings from file, got %+v", cfg.Store)
	}
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("stt:\n  provider: google\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("STT_PROVIDER", "mock")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.STT.Provider != "mock" {
		t.Errorf("expected env override 'mock', got %s", cfg.STT.Provider)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", "/nonexistent/config.yaml")

	if _, err := Load(); err == nil {
		t.Error("expected error for missing config file")
	}
}
