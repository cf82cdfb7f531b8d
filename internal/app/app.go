package app

import (
	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/infrastructure"
	"go.uber.org/fx"
)

func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),

		infrastructure.Module,

		domain.Module,
	)
}
