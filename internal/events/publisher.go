// Package events publishes incident events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"emergency-call-analysis/internal/observability/metrics"
)

// Publisher publishes incident events to separate Kafka topics: one for
// in-progress snapshots, one for final incident records. When disabled
// it degrades to log-only mode so the pipeline can run without a broker.
type Publisher struct {
	writerSnapshot *kafka.Writer
	writerRecord   *kafka.Writer
	principal      string
	topicSnapshot  string
	topicRecord    string
	enabled        bool
	metrics        *metrics.Metrics
}

// Config holds Kafka publisher configuration.
type Config struct {
	Brokers       []string
	TopicSnapshot string
	TopicRecord   string
	Principal     string
	Enabled       bool
}

// New creates a new Kafka event publisher.
func New(cfg *Config) *Publisher {
	m := metrics.DefaultMetrics

	if cfg == nil {
		log.Info().Msg("Kafka disabled (nil config), using log-only mode")
		return &Publisher{
			enabled: false,
			metrics: m,
		}
	}

	if !cfg.Enabled || len(cfg.Brokers) == 0 {
		log.Info().Msg("Kafka disabled, using log-only mode")
		return &Publisher{
			principal:     cfg.Principal,
			topicSnapshot: cfg.TopicSnapshot,
			topicRecord:   cfg.TopicRecord,
			enabled:       false,
			metrics:       m,
		}
	}

	// Longer dial timeouts for DNS resolution in Kubernetes
	dialer := &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}

	transport := &kafka.Transport{
		Dial: dialer.DialFunc,
	}

	writerSnapshot := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicSnapshot,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	writerRecord := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.TopicRecord,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
		Transport:    transport,
	}

	log.Info().
		Strs("brokers", cfg.Brokers).
		Str("topicSnapshot", cfg.TopicSnapshot).
		Str("topicRecord", cfg.TopicRecord).
		Str("principal", cfg.Principal).
		Msg("Kafka publisher initialized")

	return &Publisher{
		writerSnapshot: writerSnapshot,
		writerRecord:   writerRecord,
		principal:      cfg.Principal,
		topicSnapshot:  cfg.TopicSnapshot,
		topicRecord:    cfg.TopicRecord,
		enabled:        true,
		metrics:        m,
	}
}

// PublishSnapshot publishes a per-chunk incident snapshot event.
func (p *Publisher) PublishSnapshot(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerSnapshot, p.topicSnapshot, "snapshot", key, event)
}

// PublishRecord publishes a final incident record event.
func (p *Publisher) PublishRecord(ctx context.Context, key string, event any) error {
	return p.publish(ctx, p.writerRecord, p.topicRecord, "record", key, event)
}

func (p *Publisher) publish(ctx context.Context, writer *kafka.Writer, topic, eventType, key string, event any) error {
	start := time.Now()

	payload, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to marshal event")
		return err
	}

	log.Debug().
		Str("principal", p.principal).
		Str("topic", topic).
		Str("key", key).
		RawJSON("payload", payload).
		Msg("Publishing event")

	// If Kafka is disabled, just log
	if !p.enabled || writer == nil {
		p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
		return nil
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "eventType", Value: []byte(topic)},
			{Key: "principal", Value: []byte(p.principal)},
		},
	}

	if err := writer.WriteMessages(ctx, msg); err != nil {
		log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Msg("Failed to write to Kafka")
		p.metrics.RecordKafkaPublish(topic, eventType, err, time.Since(start).Seconds())
		return err
	}

	p.metrics.RecordKafkaPublish(topic, eventType, nil, time.Since(start).Seconds())
	return nil
}

// Close closes both Kafka writers.
func (p *Publisher) Close() error {
	var err error
	if p.writerSnapshot != nil {
		if e := p.writerSnapshot.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing snapshot writer")
			err = e
		}
	}
	if p.writerRecord != nil {
		if e := p.writerRecord.Close(); e != nil {
			log.Error().Err(e).Msg("Error closing record writer")
			err = e
		}
	}
	return err
}
