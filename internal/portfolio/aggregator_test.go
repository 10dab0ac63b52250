package portfolio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange/exchangetest"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/monitoring"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

func newTestAggregator(gw exchange.Gateway, interval time.Duration) (*Aggregator, *monitoring.HealthChecker) {
	logger, _ := test.NewNullLogger()
	health := monitoring.NewHealthChecker(0)
	return NewAggregator(gw, "", "", interval, logger, health), health
}

var sampleOrders = []exchange.OrderRecord{
	{OrderID: "1", Symbol: "BTCUSDT", Side: exchange.OrderSideBuy, AvgPrice: 65000, CumExecQty: 0.01},
	{OrderID: "2", Symbol: "ETHUSDT", Side: exchange.OrderSideSell, AvgPrice: 3000, CumExecQty: 1.5},
}

func TestAggregator_StartsEmpty(t *testing.T) {
	a, _ := newTestAggregator(exchangetest.New(), 0)

	h := a.TradeHistory()
	assert.NotNil(t, h)
	assert.Empty(t, h)
}

func TestAggregator_RefreshProjectsOrders(t *testing.T) {
	gw := exchangetest.New()
	gw.SetOrders(sampleOrders, nil)
	a, health := newTestAggregator(gw, 0)

	require.NoError(t, a.Refresh(context.Background()))

	assert.Equal(t, []types.TradeRecord{
		{Pair: "BTCUSDT", Action: "Buy", Price: 65000, Amount: 0.01},
		{Pair: "ETHUSDT", Action: "Sell", Price: 3000, Amount: 1.5},
	}, a.TradeHistory())
	assert.Equal(t, "healthy", health.Status().Status)
}

func TestAggregator_FailurePublishesEmpty(t *testing.T) {
	gw := exchangetest.New()
	gw.SetOrders(sampleOrders, nil)
	a, health := newTestAggregator(gw, 0)
	require.NoError(t, a.Refresh(context.Background()))
	require.Len(t, a.TradeHistory(), 2)

	gw.SetOrders(nil, errors.New("venue down"))
	err := a.Refresh(context.Background())

	assert.Error(t, err)
	assert.NotNil(t, a.TradeHistory())
	assert.Empty(t, a.TradeHistory(), "stale history is not kept")
	assert.Equal(t, "unhealthy", health.Status().Status)
}

func TestAggregator_EmptyAnswerPublishesEmpty(t *testing.T) {
	gw := exchangetest.New()
	gw.SetOrders(sampleOrders, nil)
	a, _ := newTestAggregator(gw, 0)
	require.NoError(t, a.Refresh(context.Background()))

	gw.SetOrders(nil, nil)
	err := a.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrEmptyHistory)
	assert.Empty(t, a.TradeHistory())
}

func TestAggregator_ReplacesWholesale(t *testing.T) {
	gw := exchangetest.New()
	gw.SetOrders(sampleOrders, nil)
	a, _ := newTestAggregator(gw, 0)
	require.NoError(t, a.Refresh(context.Background()))
	before := a.TradeHistory()

	gw.SetOrders(sampleOrders[1:], nil)
	require.NoError(t, a.Refresh(context.Background()))

	assert.Len(t, before, 2, "readers keep the collection they loaded")
	assert.Len(t, a.TradeHistory(), 1)
}

func TestAggregator_RunSleepsFirst(t *testing.T) {
	gw := exchangetest.New()
	gw.SetOrders(sampleOrders, nil)
	a, _ := newTestAggregator(gw, 20*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.Run(ctx)
		close(done)
	}()

	assert.Empty(t, a.TradeHistory())
	assert.Eventually(t, func() bool { return len(a.TradeHistory()) == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestAggregator_AccountBalance(t *testing.T) {
	gw := exchangetest.New()
	gw.Wallet = &exchange.WalletBalance{Accounts: []exchange.AccountBalance{
		{AccountType: "UNIFIED", Coins: []exchange.CoinBalance{{Coin: "BTC", WalletBalance: decimal.NewFromInt(1)}}},
		{AccountType: "FUND", Coins: []exchange.CoinBalance{{Coin: "USDT", WalletBalance: decimal.RequireFromString("250.5")}}},
	}}
	a, _ := newTestAggregator(gw, 0)

	balance, ok := a.AccountBalance(context.Background())
	assert.True(t, ok)
	assert.Equal(t, 250.5, balance)

	gw.Wallet = &exchange.WalletBalance{}
	_, ok = a.AccountBalance(context.Background())
	assert.False(t, ok)

	gw.WalletErr = errors.New("auth failed")
	_, ok = a.AccountBalance(context.Background())
	assert.False(t, ok)
}
