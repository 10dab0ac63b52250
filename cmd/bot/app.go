package main

import (
	"context"
	"sync"
	"time"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/config"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/dashboard"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/logger"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/market"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/monitoring"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/orders"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/portfolio"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/precision"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/safety"
)

// rateLimited gateways expose their outbound limiter on /health
type rateLimited interface {
	RateLimiterStats() safety.RateLimiterStats
}

// app holds the wired components of one bot process
type app struct {
	cfg        *config.Config
	log        *logger.Logger
	health     *monitoring.HealthChecker
	aggregator *portfolio.Aggregator
	server     *dashboard.Server
}

func newApp(cfg *config.Config, gw exchange.Gateway, log *logger.Logger) (*app, error) {
	health := monitoring.NewHealthChecker(3 * cfg.History.PollInterval)

	if src, ok := gw.(rateLimited); ok {
		health.WatchRateLimiter(src.RateLimiterStats)
	}

	builder := market.NewBuilder(gw, cfg.Market.Category, log.Component("market"))
	builder.RecordPricesTo(health)
	resolver := precision.NewResolver(gw, log.Component("precision"))
	executor := orders.NewExecutor(gw, resolver, log.Component("orders"))
	aggregator := portfolio.NewAggregator(gw, cfg.Orders.Category, cfg.Trading.QuoteCurrency,
		cfg.History.PollInterval, log.Component("portfolio"), health)

	deps := dashboard.Deps{
		Market:   builder,
		Account:  aggregator,
		Executor: executor,
		Health:   health,
	}
	if cfg.Dashboard.MetricsEnabled {
		deps.Metrics = monitoring.NewMetricsHandler()
	}

	server, err := dashboard.New(dashboard.Config{
		Addr:          cfg.Dashboard.Addr,
		Pairs:         cfg.Pairs,
		Strategies:    cfg.Strategies,
		HistoryWindow: cfg.Market.HistoryWindow,
		OrderCategory: cfg.Orders.Category,
		MaxAttempts:   cfg.Orders.MaxAttempts,
	}, deps, log.Component("dashboard"))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:        cfg,
		log:        log,
		health:     health,
		aggregator: aggregator,
		server:     server,
	}, nil
}

// run starts the history updater and the dashboard and blocks until ctx is done
func (a *app) run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.aggregator.Run(ctx)
	}()

	err := a.server.Run(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		a.log.Warn("Timed out waiting for background workers")
	}
	return err
}
