package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/app?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 25, cfg.DBMaxOpen)
	assert.Equal(t, 25, cfg.DBMaxIdle)
	assert.Equal(t, 300*time.Second, cfg.DBMaxLifetime)
	assert.True(t, cfg.DBMigrate)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.AccessSecret)
	assert.Zero(t, cfg.RateLimitRPS)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "posts", cfg.KafkaTopic)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/app")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_MAX_LIFETIME", "60")
	t.Setenv("DB_MIGRATE", "false")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("SHUTDOWN_TIMEOUT", "1m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, time.Minute, cfg.DBMaxLifetime)
	assert.False(t, cfg.DBMigrate)
	assert.Equal(t, 2.5, cfg.RateLimitRPS)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingDatabaseURL)
}

func TestLoadToken(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "s3cret")

	cfg, err := LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.AccessSecret)
	assert.Equal(t, "15m", cfg.AccessTTL)

	t.Setenv("ACCESS_TTL", "2h")
	cfg, err = LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "2h", cfg.AccessTTL)
}

func TestLoadTokenRequiresSecret(t *testing.T) {
	t.Setenv("ACCESS_SECRET", "")

	_, err := LoadToken()
	assert.ErrorIs(t, err, ErrMissingAccessSecret)
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 2*time.Second, parseDuration("2s", time.Hour))
	assert.Equal(t, 30*time.Second, parseDuration("30", time.Hour))
	assert.Equal(t, time.Hour, parseDuration("soon", time.Hour))
}
