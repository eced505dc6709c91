package app

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/passhash/config"
	"github.com/Alijeyrad/passhash/pkg/observability"
	redispkg "github.com/Alijeyrad/passhash/pkg/redis"
)

// InfraModule provides all infrastructure dependencies. Both are optional and
// provided as nil when disabled in config.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideOTel),
)

func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled() {
		slog.Info("redis not configured, rate limiter uses in-memory storage")
		return nil, nil
	}

	rdb, err := redispkg.NewRedisFromCentral(context.Background(), cfg.Redis)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}

	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
