package bootstrap

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/apexcrm/crm-console/config"
	redisstore "github.com/apexcrm/crm-console/internal/adapters/redis"
	"github.com/apexcrm/crm-console/internal/crmapi"
	httpx "github.com/apexcrm/crm-console/internal/http"
	"github.com/apexcrm/crm-console/internal/service"
)

// ServiceDeps contains dependencies for service construction.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// ServiceContainer holds the wired application services.
type ServiceContainer struct {
	API      *crmapi.Client
	Sessions *service.SessionService
}

// NewServices wires the backend client and session service together. The
// backend client's unauthorized hook tears down the calling request's
// session, so a credential the backend no longer accepts invalidates the
// console session no matter which call discovered it.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client := crmapi.NewClient(crmapi.Config{
		BaseURL: deps.Config.Backend.BaseURL,
		Timeout: deps.Config.Backend.Timeout,
	}, logger)

	store := redisstore.NewSessionStore(deps.RedisClient)

	sessions := service.NewSessionService(service.SessionServiceOptions{
		Auth:  client,
		Store: store,
		Config: service.SessionServiceConfig{
			TTL:    deps.Config.Session.TTL,
			Logger: logger,
		},
	})

	client.SetUnauthorizedHook(func(ctx context.Context) {
		sid, ok := httpx.SessionIDFromContext(ctx)
		if !ok {
			return
		}
		if err := sessions.Logout(ctx, sid); err != nil {
			logger.ErrorContext(ctx, "clear session after backend auth failure", "error", err)
		}
	})

	return ServiceContainer{
		API:      client,
		Sessions: sessions,
	}
}
