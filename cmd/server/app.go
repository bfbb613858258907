package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"github.com/prometheus/client_golang/prometheus"

	addresscache "clientreg/internal/address/cache"
	addressmetrics "clientreg/internal/address/metrics"
	"clientreg/internal/address/providers"
	"clientreg/internal/address/providers/apicep"
	"clientreg/internal/address/providers/viacep"
	"clientreg/internal/address/resolver"
	clientmetrics "clientreg/internal/client/metrics"
	"clientreg/internal/client/service"
	addressstore "clientreg/internal/client/store/address"
	clientstore "clientreg/internal/client/store/client"
	"clientreg/internal/events"
	"clientreg/internal/platform/config"
	"clientreg/internal/platform/postgres"
	"clientreg/internal/platform/redis"
)

// healthCheck reports whether one backing dependency is reachable.
type healthCheck func(ctx context.Context) error

// app holds the wired service graph and everything that must be released on
// shutdown.
type app struct {
	service  *service.Service
	checks   map[string]healthCheck
	closers  []func() error
}

// buildApp selects Postgres, Redis and Kafka when configured and falls back
// to in-process implementations otherwise.
func buildApp(ctx context.Context, cfg config.Config, registry *prometheus.Registry, logger *slog.Logger) (_ *app, err error) {
	a := &app{checks: map[string]healthCheck{}}
	defer func() {
		if err != nil {
			_ = a.close()
		}
	}()

	clients, addresses, err := a.stores(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, err
	}
	addressMetrics := addressmetrics.New(registry)
	cache, err := a.cache(ctx, cfg.Redis, addressMetrics, logger)
	if err != nil {
		return nil, err
	}
	publisher, err := a.publisher(ctx, cfg.Kafka, logger)
	if err != nil {
		return nil, err
	}

	chain := []providers.Provider{
		viacep.New(cfg.Address.ViaCEPBaseURL, cfg.Address.ProviderTimeout),
		apicep.New(cfg.Address.ApiCEPBaseURL, cfg.Address.ProviderTimeout),
	}
	res := resolver.New(chain,
		resolver.WithLogger(logger),
		resolver.WithMetrics(addressMetrics),
		resolver.WithTimeout(cfg.Address.ProviderTimeout),
	)

	a.service, err = service.New(clients, addresses, cache, res,
		service.WithLogger(logger),
		service.WithMetrics(clientmetrics.New(registry)),
		service.WithEventPublisher(publisher),
		service.WithCacheTTL(cfg.Address.CacheTTL),
	)
	if err != nil {
		return nil, fmt.Errorf("build client service: %w", err)
	}
	return a, nil
}

func (a *app) stores(ctx context.Context, cfg config.Postgres, logger *slog.Logger) (service.ClientStore, service.AddressStore, error) {
	if cfg.URL == "" {
		logger.Warn("DATABASE_URL not set, using in-memory stores")
		return clientstore.NewInMemoryStore(), addressstore.NewInMemoryStore(), nil
	}
	if cfg.AutoMigrate {
		if err := postgres.MigrateUp(cfg.URL); err != nil {
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	db, err := postgres.Open(ctx, postgres.Config{
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, db.Close)
	a.checks["postgres"] = db.PingContext
	logger.Info("using postgres stores")
	return clientstore.NewPostgres(db), addressstore.NewPostgres(db), nil
}

func (a *app) cache(ctx context.Context, cfg config.Redis, m *addressmetrics.Metrics, logger *slog.Logger) (service.AddressCache, error) {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		logger.Warn("REDIS_URL not set, using in-memory address cache")
		mem := addresscache.NewMemoryCache(m)
		a.closers = append(a.closers, func() error {
			mem.Close()
			return nil
		})
		return mem, nil
	}
	a.closers = append(a.closers, client.Close)
	a.checks["redis"] = client.Health
	logger.Info("using redis address cache")
	return addresscache.NewRedisCache(client, m), nil
}

func (a *app) publisher(ctx context.Context, cfg config.Kafka, logger *slog.Logger) (service.EventPublisher, error) {
	if len(cfg.Brokers) == 0 {
		return events.NewLogPublisher(logger), nil
	}
	p, err := events.NewKafkaPublisher(events.KafkaConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partitions:  cfg.Partitions,
		Replication: cfg.Replication,
	}, events.WithKafkaLogger(logger))
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, p.Close)
	if err := p.EnsureTopic(ctx); err != nil {
		return nil, err
	}
	a.checks["kafka"] = p.Ping
	logger.Info("publishing events to kafka", "topic", cfg.Topic)
	return p, nil
}

// close releases resources in reverse acquisition order.
func (a *app) close() error {
	var result *multierror.Error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			result = multierror.Append(result, err)
		}
	}
	a.closers = nil
	return result.ErrorOrNil()
}
