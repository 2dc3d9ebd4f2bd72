// Package cache holds the short-lived dashboard statistics cache.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"carbonledger/config"
	"carbonledger/internal/domain/entity"
	"carbonledger/internal/domain/lifecycle"
	"carbonledger/internal/domain/service"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const dashboardKey = "carbonledger:stats:dashboard"

// Params holds dependencies for StatsCache, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// New returns a redis backed cache, or a no-op cache when no address is configured.
func New(params Params) service.StatsCache {
	cfg := params.Config.Cache
	if cfg == nil || cfg.RedisAddr == "" {
		params.Logger.Info("Stats cache not configured, dashboard is computed on every read")

		return noopCache{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
			defer cancel()

			// An unreachable redis only costs cache misses.
			if err := client.Ping(pingCtx).Err(); err != nil {
				params.Logger.Warn("Redis ping failed", slog.Any("error", err))
			}

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return NewRedisStatsCache(client, cfg.TTL, params.Logger)
}

type redisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisStatsCache stores the dashboard as JSON with the given TTL.
func NewRedisStatsCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) service.StatsCache {
	return &redisStatsCache{client: client, ttl: ttl, logger: logger}
}

func (c *redisStatsCache) GetDashboard(ctx context.Context) (*entity.DashboardStats, bool) {
	cached, err := c.client.Get(ctx, dashboardKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.WarnContext(ctx, "Redis GET failed", slog.Any("error", err))
		}

		return nil, false
	}

	stats := new(entity.DashboardStats)
	if err := json.Unmarshal(cached, stats); err != nil {
		c.logger.WarnContext(ctx, "Failed to unmarshal cached dashboard", slog.Any("error", err))

		return nil, false
	}

	return stats, true
}

func (c *redisStatsCache) SetDashboard(ctx context.Context, stats *entity.DashboardStats) {
	data, err := json.Marshal(stats)
	if err != nil {
		c.logger.WarnContext(ctx, "Failed to marshal dashboard", slog.Any("error", err))

		return
	}

	if err := c.client.Set(ctx, dashboardKey, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Redis SET failed", slog.Any("error", err))
	}
}

func (c *redisStatsCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, dashboardKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "Redis DEL failed", slog.Any("error", err))
	}
}

type noopCache struct{}

func (noopCache) GetDashboard(context.Context) (*entity.DashboardStats, bool) { return nil, false }
func (noopCache) SetDashboard(context.Context, *entity.DashboardStats) {}
func (noopCache) Invalidate(context.Context) {}
