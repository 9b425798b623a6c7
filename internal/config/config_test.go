package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "5432", cfg.DB.Port)
	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 15, cfg.App.ShutdownTimeoutSeconds)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 300, cfg.Redis.CacheTTL)
	assert.False(t, cfg.RateLimit.Enabled)
	assert.Equal(t, "user-crud-service", cfg.Logger.ServiceName)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := LoadConfig(t.TempDir())
		require.NoError(t, err)
		return cfg
	}

	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("unknown driver", func(t *testing.T) {
		cfg := valid()
		cfg.DB.Driver = "oracle"
		assert.Error(t, cfg.Validate())
	})

	t.Run("sqlite driver is accepted", func(t *testing.T) {
		cfg := valid()
		cfg.DB.Driver = "sqlite"
		assert.NoError(t, cfg.Validate())
	})

	t.Run("empty http port", func(t *testing.T) {
		cfg := valid()
		cfg.App.HTTPPort = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("idle conns exceeding open conns", func(t *testing.T) {
		cfg := valid()
		cfg.DB.MaxOpenConns = 1
		cfg.DB.MaxIdleConns = 5
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero cache ttl with redis enabled", func(t *testing.T) {
		cfg := valid()
		cfg.Redis.CacheTTL = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("rate limit enabled without limits", func(t *testing.T) {
		cfg := valid()
		cfg.RateLimit.Enabled = true
		cfg.RateLimit.RequestsPerSecond = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "svc",
		Password: "secret",
		Name:     "users",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "dbname=users")
	assert.Contains(t, dsn, "sslmode=require")
}

func TestDatabaseConfig_SQLitePath(t *testing.T) {
	assert.Equal(t, "user_crud_service.db", (&DatabaseConfig{}).SQLitePath())
	assert.Equal(t, ":memory:", (&DatabaseConfig{Name: ":memory:"}).SQLitePath())
}
