package database

import (
	"errors"
	"fmt"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// migrationsTable keeps this service's schema version apart from other
// services sharing the database
const migrationsTable = "cardpush_schema_migrations"

// RunMigrations brings the postgres schema to the latest version. A dirty
// schema is reported instead of being forced.
func RunMigrations(db *gorm.DB, cfg *config.DatabaseConfig, logger zerolog.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{MigrationsTable: migrationsTable})
	if err != nil {
		return fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, cfg.DBName, driver)
	if err != nil {
		return fmt.Errorf("failed to init migrate from %s: %w", cfg.MigrationsPath, err)
	}

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("schema version %d is dirty, fix it manually", from)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug().Uint("version", from).Msg("schema is up to date")
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	to, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	logger.Info().Uint("from", from).Uint("to", to).Msg("schema migrated")

	return nil
}
