package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("SCHEDULER_PROJECT_CODES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "08:00", cfg.Scheduler.FallbackTime)
	assert.Equal(t, []string{"PROJ001", "PROJ002", "PROJ003"}, cfg.Scheduler.ProjectCodes)
	assert.True(t, cfg.Scheduler.DedupEnabled)
	assert.Equal(t, "* * * * *", cfg.Scheduler.CronSpec)
	assert.False(t, cfg.Kafka.Enabled)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("DATABASE_SQLITE_PATH", "/tmp/cards.db")
	t.Setenv("SCHEDULER_PROJECT_CODES", " P1, ,P2 ")
	t.Setenv("SCHEDULER_DEDUP_ENABLED", "false")
	t.Setenv("SCHEDULER_DEDUP_TTL", "90s")
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, []string{"P1", "P2"}, cfg.Scheduler.ProjectCodes)
	assert.False(t, cfg.Scheduler.DedupEnabled)
	assert.Equal(t, 90*time.Second, cfg.Scheduler.DedupTTL)
	assert.True(t, cfg.Redis.Enabled())

	loc, err := cfg.Scheduler.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{name: "unknown driver", key: "DATABASE_DRIVER", val: "oracle"},
		{name: "bad fallback time", key: "SCHEDULER_FALLBACK_TIME", val: "8am"},
		{name: "bad timezone", key: "SCHEDULER_TIMEZONE", val: "Mars/Olympus"},
		{name: "unknown log format", key: "LOG_FORMAT", val: "xml"},
		{name: "bad duration", key: "SCHEDULER_LOCK_TTL", val: "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseConfig_GetDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		User:     "u",
		Password: "p",
		DBName:   "cards",
		SSLMode:  "disable",
	}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cards sslmode=disable", cfg.GetDSN())
}
