package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("GO_ENV", "")
	t.Setenv("PORT", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("POSTGRES_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "dev", cfg.GoEnv)
	assert.False(t, cfg.IsProd())
	assert.Equal(t, 14*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "zajil.orders.placed", cfg.KafkaOrderTopic)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_SecretKeyRequired(t *testing.T) {
	t.Setenv("SECRET_KEY", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_ParsesLists(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("GO_ENV", "prod")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProd())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_BadPort(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("POSTGRES_PORT", "abc")

	_, err := Load()
	assert.Error(t, err)
}
