package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ducminhle1904/bybit-spot-dashboard/cmd/common"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/config"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange/adapters"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/logger"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/market"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/portfolio"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/reporting"
)

func main() {
	flags := common.RegisterCommonFlags()
	tradesOut := flag.String("trades-xlsx", "", "Also export the order history to this xlsx file")
	timeout := flag.Duration("timeout", 60*time.Second, "Overall time limit for venue calls")
	flag.Parse()
	flags.HandleVersion("market-report")

	cfg, err := config.Load(*flags.EnvFile)
	if err != nil {
		common.Fatalf("Failed to load configuration: %v", err)
	}
	level := "warn"
	if *flags.LogLevel != "" {
		level = *flags.LogLevel
	}
	log, err := logger.New(logger.Config{Level: level})
	if err != nil {
		common.Fatalf("Failed to initialise logger: %v", err)
	}

	gateway, err := adapters.NewFactory(log.Component("exchange")).CreateGateway(cfg.Exchange)
	if err != nil {
		common.Fatalf("Failed to create exchange gateway: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	builder := market.NewBuilder(gateway, cfg.Market.Category, log.Component("market"))
	snapshots := builder.BuildAll(ctx, cfg.Pairs, cfg.Market.HistoryWindow)
	reporting.NewConsoleReporter(os.Stdout).PrintSnapshots(cfg.Pairs, snapshots)

	if *tradesOut == "" {
		return
	}

	agg := portfolio.NewAggregator(gateway, cfg.Orders.Category, cfg.Trading.QuoteCurrency,
		cfg.History.PollInterval, log.Component("portfolio"), nil)
	if err := agg.Refresh(ctx); err != nil {
		log.WithError(err).Warn("Exporting empty trade history")
	}
	if err := reporting.NewExcelReporter().WriteTradesXLSX(agg.TradeHistory(), *tradesOut); err != nil {
		common.Fatalf("Failed to write %s: %v", *tradesOut, err)
	}
	fmt.Printf("📁 Trade history exported to %s\n", *tradesOut)
}
