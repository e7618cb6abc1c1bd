package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/apexcrm/crm-console/config"
	"github.com/apexcrm/crm-console/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	redisClient, err := bootstrap.ConnectRedis(bootstrap.RedisDeps{
		RedisConfig: cfg.Redis,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	return bootstrap.RunWithShutdown(&bootstrap.AppConfig{
		Config:      &cfg,
		RedisClient: redisClient,
		Logger:      logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting crm console",
		"addr", cfg.HTTP.Addr,
		"backend", cfg.Backend.BaseURL,
		"dev", cfg.IsDev)
}
