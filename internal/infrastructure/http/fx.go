package http

import (
	"context"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure/http/server"
	apperrors "github.com/Conte777/NewsFlow/services/cardpush-service/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(
		NewServerFx,
		apperrors.NewMapper,
	),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(
	lc fx.Lifecycle,
	serviceCfg *config.ServiceConfig,
	kafkaCfg *config.KafkaConfig,
	redisCfg *config.RedisConfig,
	db *gorm.DB,
	logger zerolog.Logger,
) *server.Server {
	srv := server.NewServer(serviceCfg.Name, serviceCfg.Port, logger)

	srv.RegisterMetrics()
	srv.RegisterHealth(server.NewHealthHandler(db, []server.OptionalComponent{
		{Name: "kafka", Enabled: kafkaCfg.Enabled},
		{Name: "redis", Enabled: redisCfg.Enabled()},
	}, logger))

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
