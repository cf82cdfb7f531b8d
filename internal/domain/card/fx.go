package card

import (
	"context"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	cardhttp "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/delivery/http"
	cardkafka "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/delivery/kafka"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/repository/postgres"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/usecase/business"
	scheduledeps "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/http/server"
	kafkaInfra "github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module(
	"card",
	fx.Provide(
		NewRepository,
		NewUseCase,
		NewScheduleCanceller,
		cardhttp.NewHandler,
		cardkafka.NewCommandHandler,
	),
	fx.Invoke(
		reconcileTemplatesOnStart,
		registerRoutes,
		registerKafkaConsumer,
	),
)

func NewRepository(db *gorm.DB) deps.CardRepository {
	return postgres.NewRepository(db)
}

func NewUseCase(repo deps.CardRepository, m *metrics.Metrics, logger zerolog.Logger) deps.CardUseCase {
	return business.NewUseCase(repo, m, logger)
}

func NewScheduleCanceller(schedules scheduledeps.ScheduleUseCase) deps.ScheduleCanceller {
	return schedules
}

// reconcileTemplatesOnStart keeps the template rows in shape; a failure is
// logged and does not stop the service
func reconcileTemplatesOnStart(lc fx.Lifecycle, uc deps.CardUseCase, log zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := uc.ReconcileTemplates(ctx, entities.DefaultTemplates()); err != nil {
				log.Error().Err(err).Msg("template reconciliation failed, continuing with existing templates")
				return nil
			}
			log.Info().Msg("template cards reconciled")
			return nil
		},
	})
}

func registerRoutes(srv *server.Server, h *cardhttp.Handler) {
	h.Register(srv.API())
}

func registerKafkaConsumer(
	lc fx.Lifecycle,
	cfg *config.KafkaConfig,
	handler *cardkafka.CommandHandler,
	log zerolog.Logger,
) error {
	if !cfg.Enabled {
		return nil
	}

	consumer, err := kafkaInfra.NewKafkaConsumer(
		cfg.Brokers,
		cfg.GroupID,
		[]string{cfg.CommandsTopic},
		handler,
		log,
	)
	if err != nil {
		return err
	}

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			consumer.Start(consumerCtx)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("stopping kafka consumer...")
			cancelConsumer()
			return consumer.Close()
		},
	})

	return nil
}
