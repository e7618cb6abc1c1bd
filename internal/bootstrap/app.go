package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/apexcrm/crm-console/config"
)

// AppConfig contains everything needed to run the console.
type AppConfig struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// RunWithShutdown starts the HTTP server and blocks until a shutdown signal
// is received, then stops the server gracefully.
func RunWithShutdown(cfg *AppConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("app config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	services := NewServices(&ServiceDeps{
		Config:      cfg.Config,
		RedisClient: cfg.RedisClient,
		Logger:      logger,
	})

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: services,
		Logger:   logger,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	sig := <-quit
	logger.Info("shutdown signal received", "signal", sig.String())

	return ShutdownHTTPServer(context.Background(), server, logger)
}
