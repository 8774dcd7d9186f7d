// Package config loads service configuration from an optional YAML file
// with environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the full service configuration.
type Config struct {
	Service       ServiceConfig       `yaml:"service"`
	STT           STTConfig           `yaml:"stt"`
	Semantic      SemanticConfig      `yaml:"semantic"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Location      LocationConfig      `yaml:"location"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type ServiceConfig struct {
	Name      string `yaml:"name"`
	Env       string `yaml:"env"`
	Principal string `yaml:"principal"`
}

type STTConfig struct {
	Provider     string `yaml:"provider"` // mock, google, whisper
	LanguageCode string `yaml:"language_code"`
	SampleRateHz int    `yaml:"sample_rate_hz"`
	WhisperURL   string `yaml:"whisper_url"`
	WhisperModel string `yaml:"whisper_model"`
	WhisperKey   string `yaml:"whisper_key"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

type SemanticConfig struct {
	Provider   string `yaml:"provider"` // mock, ollama
	OllamaURL  string `yaml:"ollama_url"`
	Model      string `yaml:"model"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

type PipelineConfig struct {
	BufferMaxChars    int     `yaml:"buffer_max_chars"`
	ChunkSeconds      float64 `yaml:"chunk_seconds"`
	HopSeconds        float64 `yaml:"hop_seconds"`
	ChunkDelaySeconds float64 `yaml:"chunk_delay_seconds"`
	WorkDir           string  `yaml:"work_dir"`
}

type LocationConfig struct {
	RegionQualifier    string `yaml:"region_qualifier"`
	GeocoderAPIKey     string `yaml:"geocoder_api_key"`
	GeocoderTimeoutSec int    `yaml:"geocoder_timeout_sec"`
	City               string `yaml:"city"`
	Region             string `yaml:"region"`
	Country            string `yaml:"country"`
	Network            string `yaml:"network"`
}

type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	TopicPartial string   `yaml:"topic_partial"`
	TopicFinal   string   `yaml:"topic_final"`
	Principal    string   `yaml:"principal"`
}

type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // json, console
	MetricsAddr string `yaml:"metrics_addr"`
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment overrides.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open config file: %w", err)
		}
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config file: %w", err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "emergency-call-analysis-service",
			Env:       "prod",
			Principal: "svc-call-analysis",
		},
		STT: STTConfig{
			Provider:     "mock",
			LanguageCode: "en-US",
			SampleRateHz: 16000,
			WhisperURL:   "http://localhost:9000",
			WhisperModel: "whisper-1",
			TimeoutSec:   120,
		},
		Semantic: SemanticConfig{
			Provider:   "mock",
			OllamaURL:  "http://localhost:11434",
			Model:      "all-minilm",
			TimeoutSec: 30,
		},
		Pipeline: PipelineConfig{
			BufferMaxChars:    500,
			ChunkSeconds:      3.0,
			HopSeconds:        1.5,
			ChunkDelaySeconds: 1.5,
		},
		Location: LocationConfig{
			RegionQualifier:    "Bangalore, India",
			GeocoderTimeoutSec: 5,
			City:               "Bangalore",
			Region:             "Bangalore South",
			Country:            "India",
			Network:            "Airtel",
		},
		Kafka: KafkaConfig{
			Enabled:      false,
			TopicPartial: "call.incident.partial",
			TopicFinal:   "call.incident.final",
			Principal:    "svc-call-analysis",
		},
		Store: StoreConfig{
			Enabled: false,
			Path:    "incidents.db",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "json",
			MetricsAddr: ":9090",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Service.Name = envOrDefault("SERVICE_NAME", cfg.Service.Name)
	cfg.Service.Env = envOrDefault("ENV", cfg.Service.Env)
	cfg.Service.Principal = envOrDefault("SERVICE_PRINCIPAL", cfg.Service.Principal)

	cfg.STT.Provider = envOrDefault("STT_PROVIDER", cfg.STT.Provider)
	cfg.STT.LanguageCode = envOrDefault("STT_LANGUAGE_CODE", cfg.STT.LanguageCode)
	cfg.STT.SampleRateHz = envInt("STT_SAMPLE_RATE_HZ", cfg.STT.SampleRateHz)
	cfg.STT.WhisperURL = envOrDefault("STT_WHISPER_URL", cfg.STT.WhisperURL)
	cfg.STT.WhisperModel = envOrDefault("STT_WHISPER_MODEL", cfg.STT.WhisperModel)
	cfg.STT.WhisperKey = envOrDefault("STT_WHISPER_KEY", cfg.STT.WhisperKey)
	cfg.STT.TimeoutSec = envInt("STT_TIMEOUT_SEC", cfg.STT.TimeoutSec)

	cfg.Semantic.Provider = envOrDefault("SEMANTIC_PROVIDER", cfg.Semantic.Provider)
	cfg.Semantic.OllamaURL = envOrDefault("SEMANTIC_OLLAMA_URL", cfg.Semantic.OllamaURL)
	cfg.Semantic.Model = envOrDefault("SEMANTIC_MODEL", cfg.Semantic.Model)
	cfg.Semantic.TimeoutSec = envInt("SEMANTIC_TIMEOUT_SEC", cfg.Semantic.TimeoutSec)

	cfg.Pipeline.BufferMaxChars = envInt("PIPELINE_BUFFER_MAX_CHARS", cfg.Pipeline.BufferMaxChars)
	cfg.Pipeline.ChunkSeconds = envFloat("PIPELINE_CHUNK_SECONDS", cfg.Pipeline.ChunkSeconds)
	cfg.Pipeline.HopSeconds = envFloat("PIPELINE_HOP_SECONDS", cfg.Pipeline.HopSeconds)
	cfg.Pipeline.ChunkDelaySeconds = envFloat("PIPELINE_CHUNK_DELAY_SECONDS", cfg.Pipeline.ChunkDelaySeconds)
	cfg.Pipeline.WorkDir = envOrDefault("PIPELINE_WORK_DIR", cfg.Pipeline.WorkDir)

	cfg.Location.RegionQualifier = envOrDefault("LOCATION_REGION_QUALIFIER", cfg.Location.RegionQualifier)
	cfg.Location.GeocoderAPIKey = envOrDefault("GOOGLE_MAPS_API_KEY", cfg.Location.GeocoderAPIKey)
	cfg.Location.GeocoderTimeoutSec = envInt("GEOCODER_TIMEOUT_SEC", cfg.Location.GeocoderTimeoutSec)
	cfg.Location.City = envOrDefault("CALLER_CITY", cfg.Location.City)
	cfg.Location.Region = envOrDefault("CALLER_REGION", cfg.Location.Region)
	cfg.Location.Country = envOrDefault("CALLER_COUNTRY", cfg.Location.Country)
	cfg.Location.Network = envOrDefault("CALLER_NETWORK", cfg.Location.Network)

	cfg.Kafka.Enabled = envBool("KAFKA_ENABLED", cfg.Kafka.Enabled)
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = splitAndTrim(v)
	}
	cfg.Kafka.TopicPartial = envOrDefault("KAFKA_TOPIC_PARTIAL", cfg.Kafka.TopicPartial)
	cfg.Kafka.TopicFinal = envOrDefault("KAFKA_TOPIC_FINAL", cfg.Kafka.TopicFinal)
	cfg.Kafka.Principal = envOrDefault("KAFKA_PRINCIPAL", cfg.Kafka.Principal)

	cfg.Store.Enabled = envBool("STORE_ENABLED", cfg.Store.Enabled)
	cfg.Store.Path = envOrDefault("STORE_PATH", cfg.Store.Path)

	cfg.Observability.LogLevel = envOrDefault("LOG_LEVEL", cfg.Observability.LogLevel)
	cfg.Observability.LogFormat = envOrDefault("LOG_FORMAT", cfg.Observability.LogFormat)
	cfg.Observability.MetricsAddr = envOrDefault("METRICS_ADDR", cfg.Observability.MetricsAddr)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
