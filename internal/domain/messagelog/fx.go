package messagelog

import (
	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	carddeps "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/deps"
	messagehttp "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/delivery/http"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/repository/postgres"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/usecase/business"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/http/server"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/kafka"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/thirdparty"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module(
	"messagelog",
	fx.Provide(
		NewRepository,
		NewUseCase,
		NewCardLookup,
		NewStyleLookup,
		messagehttp.NewHandler,
	),
	fx.Invoke(registerRoutes),
)

func NewRepository(db *gorm.DB) deps.MessageLogRepository {
	return postgres.NewRepository(db)
}

func NewUseCase(
	repo deps.MessageLogRepository,
	publisher kafka.Publisher,
	cfg *config.KafkaConfig,
	logger zerolog.Logger,
) deps.MessageLogUseCase {
	return business.NewUseCase(repo, publisher, cfg.MessagesTopic, logger)
}

func NewCardLookup(cards carddeps.CardUseCase) deps.CardLookup {
	return cards
}

func NewStyleLookup(api *thirdparty.MockAPI) deps.StyleLookup {
	return api
}

func registerRoutes(srv *server.Server, h *messagehttp.Handler) {
	h.Register(srv.API())
}
