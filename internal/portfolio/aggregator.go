// Package portfolio keeps the account-side view of the bot: the published trade history
// and on-demand quote balance.
package portfolio

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/monitoring"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

const (
	DefaultPollInterval = 10 * time.Second
	historyLimit        = 50
)

// ErrEmptyHistory is returned by Refresh when the venue answered with no orders
var ErrEmptyHistory = errors.New("no trade history returned")

// HealthReporter receives the outcome of every refresh cycle
type HealthReporter interface {
	MarkRefreshed()
	AddError(msg string)
	SetConnected(connected bool)
}

// Aggregator polls the order history in the background and serves the latest copy
// to readers without locking. It is the only writer of the collection.
type Aggregator struct {
	gateway  exchange.Gateway
	category string
	quote    string
	interval time.Duration
	log      logrus.FieldLogger
	health   HealthReporter

	history atomic.Pointer[[]types.TradeRecord]
}

// NewAggregator creates the aggregator. health may be nil.
func NewAggregator(gateway exchange.Gateway, category, quote string, interval time.Duration, log logrus.FieldLogger, health HealthReporter) *Aggregator {
	if category == "" {
		category = exchange.CategorySpot
	}
	if quote == "" {
		quote = "USDT"
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Aggregator{
		gateway:  gateway,
		category: category,
		quote:    quote,
		interval: interval,
		log:      log.WithField("component", "portfolio"),
		health:   health,
	}
	empty := []types.TradeRecord{}
	a.history.Store(&empty)
	return a
}

// Run refreshes the history every interval until ctx is done. The first fetch happens
// one interval after start.
func (a *Aggregator) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	a.log.WithField("interval", a.interval).Info("Trade history updater started")
	for {
		select {
		case <-ctx.Done():
			a.log.Info("Trade history updater stopped")
			return
		case <-ticker.C:
			_ = a.Refresh(ctx)
		}
	}
}

// Refresh runs one cycle. On failure or an empty answer the published collection is
// replaced by an empty one and the cause is returned.
func (a *Aggregator) Refresh(ctx context.Context) error {
	orders, err := a.gateway.GetOrderHistory(ctx, a.category, historyLimit)
	if err == nil && len(orders) == 0 {
		err = ErrEmptyHistory
	}
	if err != nil {
		if errors.Is(err, ErrEmptyHistory) {
			a.log.Warn("No trade history data received")
		} else {
			a.log.WithError(err).Error("Error updating trade history")
			monitoring.RecordError("trade_history")
		}
		a.publish([]types.TradeRecord{})
		monitoring.RecordHistoryRefresh(false, 0)
		if a.health != nil {
			a.health.SetConnected(errors.Is(err, ErrEmptyHistory))
			a.health.AddError(err.Error())
		}
		return err
	}

	records := make([]types.TradeRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, types.TradeRecord{
			Pair:   o.Symbol,
			Action: string(o.Side),
			Price:  o.AvgPrice,
			Amount: o.CumExecQty,
		})
	}
	a.publish(records)
	monitoring.RecordHistoryRefresh(true, len(records))
	if a.health != nil {
		a.health.MarkRefreshed()
	}
	a.log.WithField("trades", len(records)).Debug("Trade history updated")
	return nil
}

func (a *Aggregator) publish(records []types.TradeRecord) {
	a.history.Store(&records)
}

// TradeHistory returns the last published collection. Callers must not modify it.
func (a *Aggregator) TradeHistory() []types.TradeRecord {
	return *a.history.Load()
}

// AccountBalance reads the UNIFIED wallet and returns the quote currency balance.
// ok is false when the wallet cannot be read or holds no such coin.
func (a *Aggregator) AccountBalance(ctx context.Context) (float64, bool) {
	wallet, err := a.gateway.GetWalletBalance(ctx, exchange.AccountTypeUnified)
	if err != nil {
		a.log.WithError(err).Error("Error fetching account balance")
		return 0, false
	}
	coin, found := wallet.FindCoin(a.quote)
	if !found {
		a.log.WithField("coin", a.quote).Warn("Quote currency not found in wallet")
		return 0, false
	}
	balance, _ := coin.WalletBalance.Float64()
	return balance, true
}
