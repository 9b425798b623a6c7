package server

import (
	"net/http"
	"time"

	"user-crud-service/cmd/api/di"
	ginrouter "user-crud-service/internal/adapter/gin/router"
	"user-crud-service/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Server holds the HTTP server and its dependencies.
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	HTTP   *http.Server
}

// New creates a new server instance with the router wired from the container.
func New(cfg *config.Config, l *zap.Logger, c *di.Container) *Server {
	// Rate limiting needs the raw client; nil disables it
	var rdb *redis.Client
	if c.RedisClient != nil {
		rdb = c.RedisClient.Client
	}

	router := ginrouter.SetupRouter(
		c.UserHandler,
		rdb,
		c.RateLimitCfg,
		c.Metrics,
		l,
	)

	return &Server{
		Config: cfg,
		Logger: l,
		HTTP: &http.Server{
			Addr:              ":" + cfg.App.HTTPPort,
			Handler:           router,
			ReadHeaderTimeout: 2 * time.Second,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.Logger.Info("HTTP server running", zap.String("address", s.HTTP.Addr))
	return s.HTTP.ListenAndServe()
}
