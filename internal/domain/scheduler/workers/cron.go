package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/deps"
	schedulererrors "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/scheduler/errors"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CronWorker fires a scheduler tick on every cron boundary
type CronWorker struct {
	runner    deps.TickRunner
	cron      *cron.Cron
	spec      string
	warnAfter time.Duration
	logger    zerolog.Logger
}

// NewCronWorker creates a worker for cfg.CronSpec evaluated in cfg's timezone
func NewCronWorker(runner deps.TickRunner, cfg *config.SchedulerConfig, logger zerolog.Logger) (*CronWorker, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	cronLog := cronLogger{logger: logger}
	w := &CronWorker{
		runner:    runner,
		spec:      cfg.CronSpec,
		warnAfter: cfg.TickWarnAfter,
		logger:    logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(cronLog),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
		),
	}

	if _, err := w.cron.AddFunc(cfg.CronSpec, w.tick); err != nil {
		return nil, fmt.Errorf("invalid SCHEDULER_CRON_SPEC %q: %w", cfg.CronSpec, err)
	}

	return w, nil
}

// Start starts the cron scheduler
func (w *CronWorker) Start() {
	w.logger.Info().Str("spec", w.spec).Dur("warn_after", w.warnAfter).Msg("Starting scheduler cron worker")
	w.cron.Start()
}

// Stop stops the cron scheduler and waits for a running tick to finish
func (w *CronWorker) Stop() {
	w.logger.Info().Msg("Stopping scheduler cron worker")
	<-w.cron.Stop().Done()
	w.logger.Info().Msg("Scheduler cron worker stopped")
}

// tick runs without a deadline; a slow tick is reported, never cut short
func (w *CronWorker) tick() {
	report, err := w.runner.RunTick(context.Background(), time.Now())
	switch {
	case err == nil:
		if w.warnAfter > 0 && report != nil && report.Duration > w.warnAfter {
			w.logger.Warn().
				Str("tick_id", report.TickID).
				Dur("duration", report.Duration).
				Dur("warn_after", w.warnAfter).
				Msg("scheduler tick overran")
		}
	case errors.Is(err, schedulererrors.ErrTickInProgress), errors.Is(err, schedulererrors.ErrLockHeld):
		w.logger.Debug().Err(err).Msg("scheduler tick skipped")
	default:
		w.logger.Error().Err(err).Msg("scheduler tick failed")
	}
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
