package infrastructure

import (
	"fmt"

	"user-crud-service/internal/config"
	redisclient "user-crud-service/pkg/redis"

	"go.uber.org/zap"
)

// NewRedisClient creates a Redis client from config. Returns nil when Redis
// is disabled, which turns off caching and rate limiting downstream.
func NewRedisClient(cfg *config.Config, l *zap.Logger) (*redisclient.Client, error) {
	if !cfg.Redis.Enabled {
		l.Info("Redis disabled, running without cache")
		return nil, nil
	}

	rdb, err := redisclient.NewClient(redisclient.Config{
		Host:        cfg.Redis.Host,
		Port:        cfg.Redis.Port,
		Password:    cfg.Redis.Password,
		DB:          cfg.Redis.DB,
		MaxRetries:  cfg.Redis.MaxRetries,
		PoolSize:    cfg.Redis.PoolSize,
		MinIdleConn: cfg.Redis.MinIdleConn,
	}, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return rdb, nil
}
