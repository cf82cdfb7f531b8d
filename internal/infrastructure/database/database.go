package database

import (
	"fmt"
	"strings"

	"github.com/Conte777/NewsFlow/services/cardpush-service/config"
	cardentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/card/entities"
	logentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/messagelog/entities"
	scheduleentities "github.com/Conte777/NewsFlow/services/cardpush-service/internal/domain/schedule/entities"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Models lists every table owned by the service
func Models() []any {
	return []any{
		&cardentities.CardSubscription{},
		&scheduleentities.PushSchedule{},
		&scheduleentities.TimeSlot{},
		&logentities.DeliveryRecord{},
	}
}

// NewDB opens a connection for the configured driver
func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	switch cfg.Driver {
	case "postgres", "postgresql":
		return NewPostgresDB(cfg)
	case "sqlite":
		return NewSQLiteDB(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}
}

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// NewSQLiteDB opens a SQLite database. ":memory:" yields a private
// in-memory database pinned to a single connection.
func NewSQLiteDB(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// sqlite allows a single writer
	sqlDB.SetMaxOpenConns(1)
	if strings.Contains(path, ":memory:") {
		sqlDB.SetConnMaxLifetime(0)
		sqlDB.SetMaxIdleConns(1)
	}

	return db, nil
}

// AutoMigrate creates the schema from the entity definitions
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to auto migrate: %w", err)
	}
	return nil
}

// NewTestDB returns a migrated in-memory database
func NewTestDB() (*gorm.DB, error) {
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		return nil, err
	}
	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
