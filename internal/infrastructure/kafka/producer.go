package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/IBM/sarama"
	"github.com/rs/zerolog"
)

// Publisher sends JSON events to Kafka topics
type Publisher interface {
	SendToTopic(ctx context.Context, topic string, key string, event any) error
	Close() error
}

// KafkaProducer publishes events through a sarama SyncProducer
type KafkaProducer struct {
	producer     sarama.SyncProducer
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	successCount atomic.Uint64
	errorCount   atomic.Uint64
}

// NewKafkaProducer dials the brokers and returns a ready producer
func NewKafkaProducer(brokers []string, m *metrics.Metrics, logger zerolog.Logger) (*KafkaProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 5
	config.Producer.Retry.Backoff = 500 * time.Millisecond
	config.Producer.Timeout = 10 * time.Second
	config.Producer.RequiredAcks = sarama.WaitForAll

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create Kafka SyncProducer")
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	logger.Info().Strs("brokers", brokers).Msg("Kafka SyncProducer successfully initialized")

	return NewProducer(producer, m, logger), nil
}

// NewProducer wraps an existing sarama producer
func NewProducer(producer sarama.SyncProducer, m *metrics.Metrics, logger zerolog.Logger) *KafkaProducer {
	return &KafkaProducer{
		producer: producer,
		logger:   logger,
		metrics:  m,
	}
}

// SendToTopic marshals event to JSON and sends it to topic
func (p *KafkaProducer) SendToTopic(ctx context.Context, topic string, key string, event any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		p.recordError()
		p.logger.Error().
			Err(err).
			Str("topic", topic).
			Msg("failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(bytes),
	}

	start := time.Now()
	partition, offset, err := p.producer.SendMessage(msg)
	latency := time.Since(start)

	if err != nil {
		p.recordError()
		p.logger.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Dur("latency", latency).
			Uint64("error_count", p.errorCount.Load()).
			Msg("failed to send event to kafka")
		return fmt.Errorf("failed to send event to %s: %w", topic, err)
	}

	p.successCount.Add(1)
	p.metrics.RecordKafkaMessage()

	p.logger.Debug().
		Str("topic", topic).
		Str("key", key).
		Int32("partition", partition).
		Int64("offset", offset).
		Dur("latency", latency).
		Uint64("success_count", p.successCount.Load()).
		Msg("event sent to kafka")

	return nil
}

// Close closes the underlying producer
func (p *KafkaProducer) Close() error {
	if p.producer == nil {
		return nil
	}

	if err := p.producer.Close(); err != nil {
		p.logger.Error().Err(err).Msg("failed to close Kafka producer")
		return err
	}

	p.logger.Info().Msg("Kafka producer successfully closed")
	return nil
}

func (p *KafkaProducer) recordError() {
	p.errorCount.Add(1)
	p.metrics.RecordKafkaError()
}

// NoopProducer drops every event; used when Kafka is disabled
type NoopProducer struct {
	logger zerolog.Logger
}

// NewNoopProducer creates a producer that publishes nothing
func NewNoopProducer(logger zerolog.Logger) *NoopProducer {
	return &NoopProducer{logger: logger}
}

func (p *NoopProducer) SendToTopic(_ context.Context, topic string, key string, _ any) error {
	p.logger.Trace().Str("topic", topic).Str("key", key).Msg("kafka disabled, event dropped")
	return nil
}

func (p *NoopProducer) Close() error {
	return nil
}
