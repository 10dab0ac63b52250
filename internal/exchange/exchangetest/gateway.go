// Package exchangetest provides a programmable in-memory exchange.Gateway for tests.
package exchangetest

import (
	"context"
	"strconv"
	"sync"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
)

// Gateway is a fake exchange.Gateway. Set the exported fields to script responses;
// the *Func hooks take precedence when set. Every call is recorded.
type Gateway struct {
	mu sync.Mutex

	Tickers     map[string]*exchange.Ticker // keyed by symbol; missing ⇒ ErrNoTickerData
	TickerErr   error
	Klines      map[string][]exchange.Candle // keyed by symbol
	KlinesErr   error
	Wallet      *exchange.WalletBalance
	WalletErr   error
	Orders      []exchange.OrderRecord
	OrdersErr   error
	Instruments []exchange.Instrument
	InstrErr    error

	// PlaceOrderFunc scripts order placement; when nil every order succeeds with "order-<n>".
	PlaceOrderFunc func(call int, params exchange.MarketOrderParams) (string, error)
	// WalletFunc scripts wallet reads per call, e.g. to change the balance between retries.
	WalletFunc func(call int) (*exchange.WalletBalance, error)

	OrderCalls      []exchange.MarketOrderParams
	WalletCalls     int
	InstrumentCalls int
	TickerCalls     int
	KlineCalls      []exchange.KlineParams
	HistoryCalls    int
}

var _ exchange.Gateway = (*Gateway)(nil)

// New returns an empty fake gateway.
func New() *Gateway {
	return &Gateway{
		Tickers: make(map[string]*exchange.Ticker),
		Klines:  make(map[string][]exchange.Candle),
	}
}

func (g *Gateway) GetTicker(ctx context.Context, category, symbol string) (*exchange.Ticker, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.TickerCalls++
	if g.TickerErr != nil {
		return nil, g.TickerErr
	}
	t, ok := g.Tickers[symbol]
	if !ok {
		return nil, exchange.ErrNoTickerData
	}
	cp := *t
	return &cp, nil
}

func (g *Gateway) GetKlines(ctx context.Context, params exchange.KlineParams) ([]exchange.Candle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.KlineCalls = append(g.KlineCalls, params)
	if g.KlinesErr != nil {
		return nil, g.KlinesErr
	}
	candles := g.Klines[params.Symbol]
	if params.Limit > 0 && len(candles) > params.Limit {
		candles = candles[:params.Limit]
	}
	out := make([]exchange.Candle, len(candles))
	copy(out, candles)
	return out, nil
}

func (g *Gateway) GetWalletBalance(ctx context.Context, accountType exchange.AccountType) (*exchange.WalletBalance, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	call := g.WalletCalls
	g.WalletCalls++
	if g.WalletFunc != nil {
		return g.WalletFunc(call)
	}
	return g.Wallet, g.WalletErr
}

func (g *Gateway) GetOrderHistory(ctx context.Context, category string, limit int) ([]exchange.OrderRecord, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.HistoryCalls++
	if g.OrdersErr != nil {
		return nil, g.OrdersErr
	}
	out := make([]exchange.OrderRecord, len(g.Orders))
	copy(out, g.Orders)
	return out, nil
}

func (g *Gateway) GetInstrumentInfo(ctx context.Context, category, symbol string) ([]exchange.Instrument, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.InstrumentCalls++
	if g.InstrErr != nil {
		return nil, g.InstrErr
	}
	return g.Instruments, nil
}

func (g *Gateway) PlaceMarketOrder(ctx context.Context, params exchange.MarketOrderParams) (string, error) {
	g.mu.Lock()
	call := len(g.OrderCalls)
	g.OrderCalls = append(g.OrderCalls, params)
	fn := g.PlaceOrderFunc
	g.mu.Unlock()

	if fn != nil {
		return fn(call, params)
	}
	return "order-" + strconv.Itoa(call+1), nil
}

// SetOrders replaces the scripted order history.
func (g *Gateway) SetOrders(orders []exchange.OrderRecord, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.Orders = orders
	g.OrdersErr = err
}

// OrderCallCount returns how many orders were submitted.
func (g *Gateway) OrderCallCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.OrderCalls)
}

// TooManyDecimals returns the venue's decimal-count rejection.
func TooManyDecimals() error {
	return &exchange.GatewayError{
		Op:      "PlaceMarketOrder",
		Code:    exchange.CodeTooManyDecimals,
		Message: exchange.MessageTooManyDecimals,
	}
}
