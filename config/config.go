package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the card push service
type Config struct {
	Database  DatabaseConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	Logging   LoggingConfig
	Service   ServiceConfig
	Scheduler SchedulerConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver         string // postgres or sqlite
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	SQLitePath     string
	MigrationsPath string
}

// KafkaConfig holds Kafka configuration
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	GroupID       string
	CommandsTopic string
	MessagesTopic string
}

// RedisConfig holds Redis configuration. Redis is optional: an empty Addr
// keeps de-duplication and tick locking in-process.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a Redis address is configured
func (c *RedisConfig) Enabled() bool {
	return c.Addr != ""
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // console or json
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// SchedulerConfig holds push scheduler configuration
type SchedulerConfig struct {
	Enabled       bool
	CronSpec      string
	Timezone      string
	FallbackTime  string // HH:MM of the daily template broadcast
	ProjectCodes  []string
	DedupEnabled  bool
	DedupTTL      time.Duration
	LockTTL       time.Duration
	TickWarnAfter time.Duration // ticks running longer are logged as overrun
}

// Location resolves the configured timezone
func (c *SchedulerConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Database  *DatabaseConfig
	Kafka     *KafkaConfig
	Redis     *RedisConfig
	Logging   *LoggingConfig
	Service   *ServiceConfig
	Scheduler *SchedulerConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Database:  &cfg.Database,
		Kafka:     &cfg.Kafka,
		Redis:     &cfg.Redis,
		Logging:   &cfg.Logging,
		Service:   &cfg.Service,
		Scheduler: &cfg.Scheduler,
	}, nil
}

// Load loads configuration from .env and environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	dedupTTL, err := getEnvAsDuration("SCHEDULER_DEDUP_TTL", 2*time.Minute)
	if err != nil {
		return nil, err
	}

	lockTTL, err := getEnvAsDuration("SCHEDULER_LOCK_TTL", 55*time.Second)
	if err != nil {
		return nil, err
	}

	tickWarnAfter, err := getEnvAsDuration("SCHEDULER_TICK_WARN_AFTER", 50*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Driver:         strings.ToLower(getEnv("DATABASE_DRIVER", "postgres")),
			Host:           getEnv("DATABASE_HOST", "localhost"),
			Port:           getEnv("DATABASE_PORT", "5432"),
			User:           getEnv("DATABASE_USER", "cardpush_user"),
			Password:       getEnv("DATABASE_PASSWORD", "cardpush_pass"),
			DBName:         getEnv("DATABASE_NAME", "cardpush_db"),
			SSLMode:        getEnv("DATABASE_SSLMODE", "disable"),
			SQLitePath:     getEnv("DATABASE_SQLITE_PATH", "cardpush.db"),
			MigrationsPath: getEnv("DATABASE_MIGRATIONS_PATH", "file://migrations"),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvAsBool("KAFKA_ENABLED", false),
			Brokers:       splitList(getEnv("KAFKA_BROKERS", "localhost:9093")),
			GroupID:       getEnv("KAFKA_GROUP_ID", "cardpush-service-group"),
			CommandsTopic: getEnv("KAFKA_COMMANDS_TOPIC", "card.subscription.commands"),
			MessagesTopic: getEnv("KAFKA_MESSAGES_TOPIC", "card.message.logged"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: strings.ToLower(getEnv("LOG_FORMAT", "console")),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "cardpush-service"),
			Port: getEnv("SERVICE_PORT", "8085"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       getEnvAsBool("SCHEDULER_ENABLED", true),
			CronSpec:      getEnv("SCHEDULER_CRON_SPEC", "* * * * *"),
			Timezone:      getEnv("SCHEDULER_TIMEZONE", ""),
			FallbackTime:  getEnv("SCHEDULER_FALLBACK_TIME", "08:00"),
			ProjectCodes:  splitList(getEnv("SCHEDULER_PROJECT_CODES", "PROJ001,PROJ002,PROJ003")),
			DedupEnabled:  getEnvAsBool("SCHEDULER_DEDUP_ENABLED", true),
			DedupTTL:      dedupTTL,
			LockTTL:       lockTTL,
			TickWarnAfter: tickWarnAfter,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "postgresql":
		if c.Database.Host == "" {
			return fmt.Errorf("DATABASE_HOST is required")
		}
		if c.Database.User == "" {
			return fmt.Errorf("DATABASE_USER is required")
		}
		if c.Database.DBName == "" {
			return fmt.Errorf("DATABASE_NAME is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DATABASE_SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER: %s", c.Database.Driver)
	}

	if c.Logging.Format != "console" && c.Logging.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT: %s", c.Logging.Format)
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}

	if _, err := time.Parse("15:04", c.Scheduler.FallbackTime); err != nil {
		return fmt.Errorf("invalid SCHEDULER_FALLBACK_TIME %q: expected HH:MM", c.Scheduler.FallbackTime)
	}

	if _, err := c.Scheduler.Location(); err != nil {
		return fmt.Errorf("invalid SCHEDULER_TIMEZONE: %w", err)
	}

	return nil
}

// GetDSN returns database connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
