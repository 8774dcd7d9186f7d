// Package metrics provides Prometheus metrics for observability.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "call_analysis"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Call metrics
	CallsTotal   prometheus.Counter
	CallsFailed  prometheus.Counter
	CallDuration prometheus.Histogram

	// Chunk metrics
	ChunksProcessed prometheus.Counter

	// Classification metrics
	ClassificationsTotal *prometheus.CounterVec

	// Location metrics
	LocationHints    *prometheus.CounterVec
	LocationLocks    prometheus.Counter
	ResolutionLevels *prometheus.CounterVec

	// STT metrics
	STTLatency *prometheus.HistogramVec
	STTErrors  *prometheus.CounterVec

	// Geocoder metrics
	GeocodeRequests prometheus.Counter
	GeocodeMisses   prometheus.Counter
	GeocodeLatency  prometheus.Histogram

	// Embedding metrics
	EmbedLatency prometheus.Histogram
	EmbedErrors  prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		CallsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_total",
			Help:      "Total number of calls processed",
		}),
		CallsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls_failed_total",
			Help:      "Total number of calls that failed processing",
		}),
		CallDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "End-to-end processing duration per call in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		}),

		ChunksProcessed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_processed_total",
			Help:      "Total number of streaming chunks processed",
		}),

		ClassificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Total classifications by emergency type and priority",
		}, []string{"type", "priority"}),

		LocationHints: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_hints_total",
			Help:      "Total location hints by extraction source",
		}, []string{"source"}),
		LocationLocks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_locks_total",
			Help:      "Total number of location locks",
		}),
		ResolutionLevels: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_levels_total",
			Help:      "Total resolved locations by resolution level",
		}, []string{"level"}),

		STTLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stt_latency_seconds",
			Help:      "Speech-to-text latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 15, 60},
		}, []string{"provider"}),
		STTErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stt_errors_total",
			Help:      "Total number of STT errors",
		}, []string{"provider"}),

		GeocodeRequests: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Total number of geocoding requests",
		}),
		GeocodeMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_misses_total",
			Help:      "Total geocoding requests that yielded no result",
		}),
		GeocodeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_latency_seconds",
			Help:      "Geocoding request latency in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}),

		EmbedLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "embed_latency_seconds",
			Help:      "Embedding request latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
		EmbedErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embed_errors_total",
			Help:      "Total number of embedding errors",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),
	}
}

// RecordCallStart records a call entering the pipeline.
func (m *Metrics) RecordCallStart() {
	m.CallsTotal.Inc()
}

// RecordCallEnd records a call leaving the pipeline.
func (m *Metrics) RecordCallEnd(success bool, durationSeconds float64) {
	m.CallDuration.Observe(durationSeconds)
	if !success {
		m.CallsFailed.Inc()
	}
}

// RecordChunk records one streaming chunk processed.
func (m *Metrics) RecordChunk() {
	m.ChunksProcessed.Inc()
}

// RecordClassification records a classification outcome.
func (m *Metrics) RecordClassification(emergencyType, priority string) {
	m.ClassificationsTotal.WithLabelValues(emergencyType, priority).Inc()
}

// RecordLocationHint records a location hint by source (rule name or "semantic").
func (m *Metrics) RecordLocationHint(source string) {
	m.LocationHints.WithLabelValues(source).Inc()
}

// RecordLocationLock records a location lock event.
func (m *Metrics) RecordLocationLock() {
	m.LocationLocks.Inc()
}

// RecordResolution records a resolved location by level.
func (m *Metrics) RecordResolution(level string) {
	m.ResolutionLevels.WithLabelValues(level).Inc()
}

// RecordSTT records a transcription attempt.
func (m *Metrics) RecordSTT(provider string, err error, latencySeconds float64) {
	m.STTLatency.WithLabelValues(provider).Observe(latencySeconds)
	if err != nil {
		m.STTErrors.WithLabelValues(provider).Inc()
	}
}

// RecordGeocode records a geocoding attempt.
func (m *Metrics) RecordGeocode(hit bool, latencySeconds float64) {
	m.GeocodeRequests.Inc()
	m.GeocodeLatency.Observe(latencySeconds)
	if !hit {
		m.GeocodeMisses.Inc()
	}
}

// RecordEmbed records an embedding attempt.
func (m *Metrics) RecordEmbed(err error, latencySeconds float64) {
	m.EmbedLatency.Observe(latencySeconds)
	if err != nil {
		m.EmbedErrors.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}
