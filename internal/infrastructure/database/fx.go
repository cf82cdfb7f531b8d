package database

import (
	"context"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module provides database components for fx dependency injection
var Module = fx.Module("database",
	fx.Provide(NewDBFx),
)

// NewDBFx opens the database, brings the schema up to date and closes the
// pool on shutdown
func NewDBFx(
	lc fx.Lifecycle,
	cfg *config.DatabaseConfig,
	logger zerolog.Logger,
) (*gorm.DB, error) {
	db, err := NewDB(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		if err := AutoMigrate(db); err != nil {
			return nil, err
		}
		logger.Info().Str("path", cfg.SQLitePath).Msg("sqlite schema migrated")
	} else {
		if err := RunMigrations(db, cfg, logger); err != nil {
			return nil, err
		}
		logger.Info().
			Str("host", cfg.Host).
			Str("port", cfg.Port).
			Str("database", cfg.DBName).
			Msg("database connected and migrations completed")
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("closing database connection...")
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}
