package schedule

import (
	schedulehttp "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/delivery/http"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/repository/postgres"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/usecase/business"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/http/server"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module(
	"schedule",
	fx.Provide(
		NewRepository,
		NewUseCase,
		schedulehttp.NewHandler,
	),
	fx.Invoke(registerRoutes),
)

func NewRepository(db *gorm.DB) deps.ScheduleRepository {
	return postgres.NewRepository(db)
}

func NewUseCase(repo deps.ScheduleRepository, m *metrics.Metrics, logger zerolog.Logger) deps.ScheduleUseCase {
	return business.NewUseCase(repo, m, logger)
}

func registerRoutes(srv *server.Server, h *schedulehttp.Handler) {
	h.Register(srv.API())
}
