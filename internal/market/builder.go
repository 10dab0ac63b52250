// Package market turns raw venue responses into per-pair analytics snapshots.
package market

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/monitoring"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/safety"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

// Builder assembles MarketSnapshots. Every derived metric degrades to its
// neutral default on its own; Build never fails.
type Builder struct {
	gateway   exchange.Gateway
	category  string
	validator *safety.Validator
	prices    PriceRecorder
	log       logrus.FieldLogger
}

// PriceRecorder receives every last price the builder accepts
type PriceRecorder interface {
	UpdatePrice(symbol string, price float64)
}

// NewBuilder creates a builder reading tickers and klines from category (default linear)
func NewBuilder(gateway exchange.Gateway, category string, log logrus.FieldLogger) *Builder {
	if category == "" {
		category = exchange.CategoryLinear
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Builder{
		gateway:   gateway,
		category:  category,
		validator: safety.NewValidator(),
		log:       log.WithField("component", "market"),
	}
}

// RecordPricesTo forwards accepted last prices to r. Call before the first Build.
func (b *Builder) RecordPricesTo(r PriceRecorder) {
	b.prices = r
}

// Build returns the snapshot for pair. historyWindow > 0 attaches that many recent closes.
// A ticker without a positive last price is treated like a missing one.
func (b *Builder) Build(ctx context.Context, pair types.TradingPair, historyWindow int) types.MarketSnapshot {
	symbol := pair.Symbol()
	log := b.log.WithField("pair", pair.String())

	ticker, err := b.gateway.GetTicker(ctx, b.category, symbol)
	if err != nil {
		if errors.Is(err, exchange.ErrNoTickerData) {
			log.Warn("No ticker data available")
		} else {
			log.WithError(err).Error("Failed to fetch ticker")
			monitoring.RecordError("ticker")
		}
		return types.MarketSnapshot{}
	}

	if res := b.validator.ValidatePrice(ticker.LastPrice, symbol); !res.Valid {
		log.WithError(res.Err()).Warn("Ticker has no usable last price")
		monitoring.RecordError("ticker")
		return types.MarketSnapshot{}
	}

	current := ticker.LastPrice
	monitoring.UpdatePrice(symbol, current)
	if b.prices != nil {
		b.prices.UpdatePrice(symbol, current)
	}

	snap := types.MarketSnapshot{
		Pair:         pair,
		Current:      current,
		Previous1h:   valueOr(ticker.PrevPrice1h, current),
		Previous24h:  valueOr(ticker.PrevPrice24h, current),
		High24h:      valueOr(ticker.HighPrice24h, current),
		Low24h:       valueOr(ticker.LowPrice24h, current),
		Bid:          valueOr(ticker.Bid1Price, current),
		Ask:          valueOr(ticker.Ask1Price, current),
		OpenInterest: valueOr(ticker.OpenInterest, 0),
		Volume24h:    valueOr(ticker.Volume24h, 0),
	}
	if ticker.Price24hPcnt != nil {
		snap.Dip = *ticker.Price24hPcnt * 100
	}
	snap.Spread = snap.Ask - snap.Bid
	snap.Uptrend = snap.Dip > 0
	snap.PreviousTrend = types.TrendFrom(current, snap.Previous1h)
	snap.Momentum1h = b.Momentum1h(ticker)

	snap.Volatility = b.Volatility(ctx, symbol, current)
	snap.Momentum = b.Momentum(ctx, symbol)

	if historyWindow > 0 {
		snap.HistoricalPrices = b.History(ctx, symbol, historyWindow)
	}

	return snap
}

// BuildAll builds snapshots for every pair, keyed by BASE/QUOTE.
// Unavailable pairs map to an empty snapshot.
func (b *Builder) BuildAll(ctx context.Context, pairs []types.TradingPair, historyWindow int) map[string]types.MarketSnapshot {
	out := make(map[string]types.MarketSnapshot, len(pairs))
	for _, pair := range pairs {
		if ctx.Err() != nil {
			out[pair.String()] = types.MarketSnapshot{}
			continue
		}
		out[pair.String()] = b.Build(ctx, pair, historyWindow)
	}
	return out
}

// Volatility is the latest 5-minute candle's range relative to lastPrice, in percent
func (b *Builder) Volatility(ctx context.Context, symbol string, lastPrice float64) float64 {
	candles, err := b.candles(ctx, symbol, 1)
	if err != nil {
		b.log.WithField("symbol", symbol).WithError(err).Warn("Volatility unavailable, using 0")
		return 0
	}
	latest := candles[0]
	return b.percent(latest.High-latest.Low, lastPrice)
}

// Momentum is the change between the two most recent 5-minute closes, in percent
func (b *Builder) Momentum(ctx context.Context, symbol string) float64 {
	candles, err := b.candles(ctx, symbol, 2)
	if err != nil {
		b.log.WithField("symbol", symbol).WithError(err).Warn("Momentum unavailable, using 0")
		return 0
	}
	return b.percent(candles[0].Close-candles[1].Close, candles[1].Close)
}

// Momentum1h is the change from the price one hour ago, in percent; 0 when that price is absent
func (b *Builder) Momentum1h(ticker *exchange.Ticker) float64 {
	if ticker == nil || ticker.PrevPrice1h == nil {
		return 0
	}
	return b.percent(ticker.LastPrice-*ticker.PrevPrice1h, *ticker.PrevPrice1h)
}

// History returns up to window recent 5-minute closes in venue order; empty on failure
func (b *Builder) History(ctx context.Context, symbol string, window int) []float64 {
	candles, err := b.gateway.GetKlines(ctx, exchange.KlineParams{
		Category: b.category,
		Symbol:   symbol,
		Interval: exchange.Interval5m,
		Limit:    window,
	})
	if err != nil {
		b.log.WithField("symbol", symbol).WithError(err).Warn("Price history unavailable")
		return []float64{}
	}

	closes := make([]float64, 0, len(candles))
	for _, c := range candles {
		closes = append(closes, c.Close)
	}
	return closes
}

// candles fetches the n most recent 5-minute candles and insists on getting all n
func (b *Builder) candles(ctx context.Context, symbol string, n int) ([]exchange.Candle, error) {
	candles, err := b.gateway.GetKlines(ctx, exchange.KlineParams{
		Category: b.category,
		Symbol:   symbol,
		Interval: exchange.Interval5m,
		Limit:    n,
	})
	if err != nil {
		return nil, err
	}
	if len(candles) < n {
		return nil, fmt.Errorf("expected %d candles, got %d", n, len(candles))
	}
	return candles, nil
}

func (b *Builder) percent(delta, base float64) float64 {
	return b.validator.SafeRatio(delta, base) * 100
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
