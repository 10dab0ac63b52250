package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/ducminhle1904/bybit-spot-dashboard/cmd/common"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/config"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange/adapters"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/logger"
)

func main() {
	flags := common.RegisterCommonFlags()
	flag.Parse()
	flags.HandleVersion("bybit-spot-dashboard")

	cfg, err := config.Load(*flags.EnvFile)
	if err != nil {
		common.Fatalf("Failed to load configuration: %v", err)
	}
	if *flags.LogLevel != "" {
		cfg.Log.Level = *flags.LogLevel
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, OutputFile: cfg.Log.File})
	if err != nil {
		common.Fatalf("Failed to initialise logger: %v", err)
	}
	defer log.Close()

	gateway, err := adapters.NewFactory(log.Component("exchange")).CreateGateway(cfg.Exchange)
	if err != nil {
		log.WithError(err).Error("Failed to create exchange gateway")
		os.Exit(1)
	}

	log.WriteSessionHeader(logger.Banner{
		Environment:       cfg.Environment(),
		Pairs:             len(cfg.Pairs),
		TradeAmount:       cfg.Trading.TradeAmount,
		StopLossPercent:   cfg.Risk.StopLossPercent,
		TakeProfitPercent: cfg.Risk.TakeProfitPercent,
		TrailingStop:      cfg.Risk.TrailingStop,
		MaxDailyLoss:      cfg.Risk.MaxDailyLoss,
		RiskFactor:        cfg.Risk.RiskFactor,
		SleepInterval:     cfg.Trading.SleepInterval,
		TradesPerDay:      cfg.Trading.TradesPerDay,
		DashboardAddr:     cfg.Dashboard.Addr,
	})
	log.Infof("🔌 Using %s gateway (%s)", gateway.GetName(), gateway.GetEnvironment())

	a, err := newApp(cfg, gateway, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialise bot")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.run(ctx); err != nil {
		log.WithError(err).Error("Bot stopped with error")
		return
	}
	log.Info("Shutdown complete")
}
