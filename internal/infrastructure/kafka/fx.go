package kafka

import (
	"context"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"kafka",
	fx.Provide(NewPublisher),
)

// NewPublisher returns a Kafka producer, or a no-op one when Kafka is disabled
func NewPublisher(lc fx.Lifecycle, cfg *config.KafkaConfig, m *metrics.Metrics, log zerolog.Logger) (Publisher, error) {
	if !cfg.Enabled {
		log.Info().Msg("kafka disabled, events will not be published")
		return NewNoopProducer(log), nil
	}

	producer, err := NewKafkaProducer(cfg.Brokers, m, log)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("closing kafka producer...")
			return producer.Close()
		},
	})

	return producer, nil
}
