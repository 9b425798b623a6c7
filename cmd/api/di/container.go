package di

import (
	"fmt"
	"time"

	"user-crud-service/cmd/api/infrastructure"
	"user-crud-service/internal/adapter/cache"
	"user-crud-service/internal/adapter/db/postgres"
	ginhandler "user-crud-service/internal/adapter/gin/handler"
	"user-crud-service/internal/adapter/gin/middleware"
	"user-crud-service/internal/adapter/repository/cached"
	"user-crud-service/internal/config"
	"user-crud-service/internal/usecase/user"
	"user-crud-service/pkg/metrics"
	redisclient "user-crud-service/pkg/redis"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *zap.Logger
	DB           *gorm.DB
	RedisClient  *redisclient.Client
	UserUC       user.Usecase
	UserHandler  *ginhandler.UserHandler
	Metrics      *metrics.Metrics
	RateLimitCfg middleware.RateLimiterConfig
}

// NewContainer creates and initializes all application dependencies
func NewContainer(cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	db, err := infrastructure.NewDatabase(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis: %w", err)
	}

	dbRepo := postgres.NewUserRepoPG(db, l)

	// Caching is optional; a nil cache leaves the repository uncached
	var userCache cache.UserCache
	if rdb != nil {
		userCache = cache.NewRedisUserCache(
			rdb.Client,
			time.Duration(cfg.Redis.CacheTTL)*time.Second,
			l,
		)
	}
	repo := cached.NewUserRepository(dbRepo, userCache, l)

	userUC := user.New(repo, l)

	userHandler := ginhandler.NewUserHandler(userUC, l)

	return &Container{
		Config:      cfg,
		Logger:      l,
		DB:          db,
		RedisClient: rdb,
		UserUC:      userUC,
		UserHandler: userHandler,
		Metrics:     metrics.New(),
		RateLimitCfg: middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		},
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("container close errors: %v", errs)
	}

	return nil
}
