package scheduler

import (
	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	carddeps "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/deps"
	messagedeps "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/deps"
	scheduledeps "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/dedup"
	schedulerhttp "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/delivery/http"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/deps"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/locker"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/usecase/business"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/workers"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/http/server"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/metrics"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/thirdparty"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

var Module = fx.Module(
	"scheduler",
	fx.Provide(
		NewSources,
		NewFireGuard,
		NewTickLocker,
		NewEngine,
		schedulerhttp.NewHandler,
	),
	fx.Invoke(registerRoutes),
	workers.Module,
)

func NewSources(
	schedules scheduledeps.ScheduleUseCase,
	cards carddeps.CardUseCase,
	api *thirdparty.MockAPI,
	messages messagedeps.MessageLogUseCase,
) business.Sources {
	return business.Sources{
		Schedules: schedules,
		Cards:     cards,
		Content:   api,
		Groups:    api,
		Sink:      messages,
	}
}

// NewFireGuard picks the de-duplication backend. A nil client means Redis
// is not configured.
func NewFireGuard(cfg *config.SchedulerConfig, client *goredis.Client, log zerolog.Logger) deps.FireGuard {
	switch {
	case !cfg.DedupEnabled:
		log.Warn().Msg("fire de-duplication disabled")
		return dedup.NoopGuard{}
	case client != nil:
		log.Info().Dur("ttl", cfg.DedupTTL).Msg("using redis fire de-duplication")
		return dedup.NewRedisGuard(client, cfg.DedupTTL)
	default:
		log.Info().Dur("ttl", cfg.DedupTTL).Msg("using in-memory fire de-duplication")
		return dedup.NewMemoryGuard(cfg.DedupTTL)
	}
}

func NewTickLocker(cfg *config.SchedulerConfig, client *goredis.Client) deps.TickLocker {
	if client == nil {
		return nil
	}
	return locker.NewRedisLocker(client, cfg.LockTTL)
}

func NewEngine(
	src business.Sources,
	guard deps.FireGuard,
	tickLocker deps.TickLocker,
	cfg *config.SchedulerConfig,
	m *metrics.Metrics,
	log zerolog.Logger,
) (deps.TickRunner, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	settings, err := business.NewSettings(loc, cfg.FallbackTime, cfg.ProjectCodes)
	if err != nil {
		return nil, err
	}

	return business.NewEngine(src, guard, tickLocker, settings, m, log), nil
}

func registerRoutes(srv *server.Server, h *schedulerhttp.Handler) {
	h.Register(srv.API())
}
