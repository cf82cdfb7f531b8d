package workers

import (
	"context"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/deps"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Module runs the scheduler cron worker when the scheduler is enabled
var Module = fx.Module("scheduler-workers",
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, runner deps.TickRunner, cfg *config.SchedulerConfig, log zerolog.Logger) error {
	if !cfg.Enabled {
		log.Info().Msg("scheduler disabled, ticks run only on demand")
		return nil
	}

	w, err := NewCronWorker(runner, cfg, log)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			w.Stop()
			return nil
		},
	})

	return nil
}
