package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/apexcrm/crm-console/config"
)

// RedisDeps contains dependencies for Redis connection.
type RedisDeps struct {
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectRedis creates a Redis client for session storage and verifies the
// connection with a ping.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel support flexible.
func ConnectRedis(deps RedisDeps) (redis.UniversalClient, error) {
	var (
		client   redis.UniversalClient
		addrDesc string
		err      error
	)

	if deps.RedisConfig.UseSentinel {
		client, addrDesc, err = newSentinelClient(deps.RedisConfig)
	} else {
		client, addrDesc, err = newDirectClient(deps.RedisConfig)
	}
	if err != nil {
		return nil, err
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if deps.Logger != nil {
		// Log connection without credentials
		if u, parseErr := url.Parse(addrDesc); parseErr == nil && u.User != nil {
			u.User = url.User("*")
			addrDesc = u.Redacted()
		} else if i := strings.LastIndex(addrDesc, "@"); i > -1 {
			addrDesc = addrDesc[i+1:]
		}

		deps.Logger.Info("redis connected", "addr", addrDesc)
	}

	return client, nil
}

//nolint:ireturn // sentinel and direct clients share the UniversalClient surface.
func newSentinelClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	if len(cfg.SentinelNodes) == 0 {
		return nil, "", errors.New("redis sentinel configuration requires at least one sentinel node")
	}

	opts := &redis.FailoverOptions{
		MasterName:       cfg.SentinelMasterName,
		SentinelAddrs:    cfg.SentinelNodes,
		Password:         cfg.Password,
		SentinelPassword: cfg.SentinelPassword,
		DB:               cfg.DB,
	}
	client := redis.NewFailoverClient(opts)
	return client, "sentinel:" + cfg.SentinelMasterName, nil
}

//nolint:ireturn // sentinel and direct clients share the UniversalClient surface.
func newDirectClient(cfg config.RedisConfig) (redis.UniversalClient, string, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, "", errors.New("redis configuration requires a URI")
	}

	if isRedisURL(uri) {
		opt, err := redis.ParseURL(uri)
		if err != nil {
			return nil, "", fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), opt.Addr, nil
	}

	opts := &redis.Options{
		Addr:     uri,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	return redis.NewClient(opts), uri, nil
}

func isRedisURL(value string) bool {
	return strings.HasPrefix(value, "redis://") || strings.HasPrefix(value, "rediss://")
}
