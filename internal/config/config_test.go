package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "nimo_pos.db", cfg.Database.Path)
	assert.Equal(t, "", cfg.Database.Isolation)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, "nimo.pos", cfg.RabbitMQ.Exchange)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_ISOLATION", "serializable")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("RABBITMQ_URL", "amqp://guest:guest@mq:5672/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "serializable", cfg.Database.Isolation)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr())
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQ.URL)
}

func TestLoad_RejectsUnknownIsolation(t *testing.T) {
	t.Setenv("DB_ISOLATION", "chaos")

	_, err := Load()
	assert.ErrorContains(t, err, "isolation")
}

func TestValidate_Driver(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Driver: "oracle"}}
	assert.ErrorContains(t, cfg.Validate(), "oracle")

	cfg.Database.Driver = "mysql"
	assert.NoError(t, cfg.Validate())
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("NIMO_POS_TEST_VALUE", "set")
	assert.Equal(t, "set", GetEnvOrDefault("NIMO_POS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnvOrDefault("NIMO_POS_TEST_MISSING", "fallback"))
}
