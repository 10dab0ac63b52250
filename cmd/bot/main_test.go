package main

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/config"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange/exchangetest"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/logger"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/safety"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := &config.Config{}
	cfg.Exchange = exchange.ExchangeConfig{Name: "bybit", Bybit: &exchange.BybitConfig{Testnet: true}}
	cfg.Trading.QuoteCurrency = "USDT"
	cfg.Market.Category = exchange.CategoryLinear
	cfg.Market.HistoryWindow = 5
	cfg.Orders.Category = exchange.CategorySpot
	cfg.Orders.MaxAttempts = 5
	cfg.History.PollInterval = 10 * time.Millisecond
	cfg.Dashboard.Addr = addr
	cfg.Dashboard.MetricsEnabled = true
	cfg.Pairs = []types.TradingPair{types.MustParsePair("BTC/USDT")}
	cfg.Strategies = map[string]string{"BTC/USDT": "scalping"}
	return cfg
}

func TestApp_RunUntilCancelled(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "error"})
	require.NoError(t, err)

	gw := exchangetest.New()
	gw.SetOrders([]exchange.OrderRecord{{Symbol: "BTCUSDT", Side: exchange.OrderSideBuy, AvgPrice: 1, CumExecQty: 2}}, nil)

	a, err := newApp(testConfig(t), gw, log)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.run(ctx) }()

	assert.Eventually(t, func() bool { return len(a.aggregator.TradeHistory()) == 1 }, time.Second, 5*time.Millisecond)
	assert.NotEqual(t, "unhealthy", a.health.Status().Status)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("app did not stop")
	}
}

type limitedGateway struct {
	*exchangetest.Gateway
	limiter *safety.RateLimiter
}

func (g limitedGateway) RateLimiterStats() safety.RateLimiterStats { return g.limiter.GetStats() }

func TestNewApp_HealthReportsLimiterAndPrices(t *testing.T) {
	log, err := logger.New(logger.Config{Level: "error"})
	require.NoError(t, err)

	gw := limitedGateway{Gateway: exchangetest.New(), limiter: safety.NewRateLimiter("bybit", 10, 10)}
	gw.Tickers["BTCUSDT"] = &exchange.Ticker{Symbol: "BTCUSDT", LastPrice: 65000}

	a, err := newApp(testConfig(t), gw, log)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	a.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/market-data", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	status := a.health.Status()
	assert.Equal(t, 65000.0, status.LastPrices["BTCUSDT"])
	require.Len(t, status.RateLimits, 1)
	assert.Equal(t, "bybit", status.RateLimits[0].Name)
	assert.Equal(t, 10, status.RateLimits[0].Capacity)
}
