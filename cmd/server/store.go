package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	filingmetrics "pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/store"
	"pscfiling/internal/platform/config"
	"pscfiling/internal/platform/database"
	"pscfiling/internal/platform/health"
	"pscfiling/internal/platform/redis"
)

const redisPoolStatsInterval = 15 * time.Second

type storeBackend struct {
	store store.Store
	close func(log *slog.Logger)
}

// openStore builds the configured filing store, registers its readiness check
// and wraps it with latency metrics.
func openStore(ctx context.Context, cfg *config.Config, m *filingmetrics.Metrics, reg prometheus.Registerer, h *health.Handler, g *errgroup.Group) (*storeBackend, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		pool, err := database.Open(ctx, cfg.Postgres, reg)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		if err := database.Migrate(ctx, pool.DB()); err != nil {
			_ = pool.Close()
			return nil, fmt.Errorf("migrate postgres: %w", err)
		}
		h.RegisterCheck("postgres", pool.Health)
		return &storeBackend{
			store: store.NewInstrumented(store.NewPostgres(pool.DB()), config.StorePostgres, m),
			close: func(log *slog.Logger) {
				if err := pool.Close(); err != nil {
					log.Error("failed to close postgres pool", "error", err)
				}
			},
		}, nil

	case config.StoreRedis:
		client, err := redis.New(ctx, cfg.Redis, reg)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		h.RegisterCheck("redis", client.Health)
		g.Go(func() error {
			return client.RunPoolStats(ctx, redisPoolStatsInterval)
		})
		return &storeBackend{
			store: store.NewInstrumented(store.NewRedis(client.Client), config.StoreRedis, m),
			close: func(log *slog.Logger) {
				if err := client.Close(); err != nil {
					log.Error("failed to close redis client", "error", err)
				}
			},
		}, nil

	default:
		return &storeBackend{
			store: store.NewInstrumented(store.NewInMemory(), config.StoreMemory, m),
			close: func(*slog.Logger) {},
		}, nil
	}
}
