package adapters

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange/bybit"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/monitoring"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/safety"
)

// bybitAPI is the subset of *bybit.Client the adapter calls.
type bybitAPI interface {
	GetTickers(ctx context.Context, category, symbol string) ([]bybit.Ticker, error)
	GetKlines(ctx context.Context, params bybit.KlineParams) ([]bybit.Kline, error)
	GetWalletBalance(ctx context.Context, accountType bybit.AccountType) ([]bybit.AccountInfo, error)
	GetOrderHistory(ctx context.Context, category, symbol string, limit int) ([]bybit.Order, error)
	GetInstrumentsInfo(ctx context.Context, category, symbol string) ([]bybit.InstrumentInfo, error)
	PlaceMarketOrder(ctx context.Context, category, symbol string, side bybit.OrderSide, qty, orderLinkID string) (string, error)
}

var _ exchange.Gateway = (*BybitAdapter)(nil)

// BybitAdapter implements exchange.Gateway on top of the Bybit v5 client
type BybitAdapter struct {
	client      bybitAPI
	environment string
	limiter     *safety.RateLimiter
	log         logrus.FieldLogger
}

// NewBybitAdapter creates a new Bybit adapter instance
func NewBybitAdapter(config *exchange.BybitConfig, rateLimitPerSecond int, log logrus.FieldLogger) (*BybitAdapter, error) {
	if config == nil {
		return nil, fmt.Errorf("bybit configuration is required")
	}

	client := bybit.NewClient(bybit.Config{
		APIKey:    config.APIKey,
		APISecret: config.APISecret,
		Testnet:   config.Testnet,
		Demo:      config.Demo,
	})

	return newBybitAdapter(client, client.GetEnvironment(), rateLimitPerSecond, log), nil
}

func newBybitAdapter(client bybitAPI, environment string, rateLimitPerSecond int, log logrus.FieldLogger) *BybitAdapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &BybitAdapter{
		client:      client,
		environment: environment,
		limiter:     safety.NewRateLimiter("bybit", rateLimitPerSecond, rateLimitPerSecond),
		log:         log.WithField("exchange", "bybit"),
	}
}

// GetName returns the exchange name
func (b *BybitAdapter) GetName() string {
	return "Bybit"
}

// GetEnvironment returns mainnet, testnet or demo
func (b *BybitAdapter) GetEnvironment() string {
	return b.environment
}

// GetTicker returns the first ticker entry for the symbol
func (b *BybitAdapter) GetTicker(ctx context.Context, category, symbol string) (*exchange.Ticker, error) {
	if err := b.throttle(ctx, "GetTicker"); err != nil {
		return nil, err
	}

	tickers, err := b.client.GetTickers(ctx, category, symbol)
	if err != nil {
		return nil, b.convertError("GetTicker", err)
	}
	if len(tickers) == 0 {
		return nil, exchange.ErrNoTickerData
	}

	t := tickers[0]
	return &exchange.Ticker{
		Symbol:       t.Symbol,
		LastPrice:    t.LastPrice,
		PrevPrice1h:  t.PrevPrice1h,
		PrevPrice24h: t.PrevPrice24h,
		HighPrice24h: t.HighPrice24h,
		LowPrice24h:  t.LowPrice24h,
		Bid1Price:    t.Bid1Price,
		Ask1Price:    t.Ask1Price,
		OpenInterest: t.OpenInterest,
		Volume24h:    t.Volume24h,
		Price24hPcnt: t.Price24hPcnt,
	}, nil
}

// GetKlines retrieves kline/candlestick data in venue order
func (b *BybitAdapter) GetKlines(ctx context.Context, params exchange.KlineParams) ([]exchange.Candle, error) {
	if err := b.throttle(ctx, "GetKlines"); err != nil {
		return nil, err
	}

	klines, err := b.client.GetKlines(ctx, bybit.KlineParams{
		Category: params.Category,
		Symbol:   params.Symbol,
		Interval: bybit.KlineInterval(params.Interval),
		Limit:    params.Limit,
	})
	if err != nil {
		return nil, b.convertError("GetKlines", err)
	}

	candles := make([]exchange.Candle, len(klines))
	for i, k := range klines {
		candles[i] = exchange.Candle{
			StartTime: k.StartTime,
			Open:      k.OpenPrice,
			High:      k.HighPrice,
			Low:       k.LowPrice,
			Close:     k.ClosePrice,
			Volume:    k.Volume,
			Turnover:  k.Turnover,
		}
	}
	return candles, nil
}

// GetWalletBalance retrieves the balances of every account of the given type
func (b *BybitAdapter) GetWalletBalance(ctx context.Context, accountType exchange.AccountType) (*exchange.WalletBalance, error) {
	if err := b.throttle(ctx, "GetWalletBalance"); err != nil {
		return nil, err
	}

	accounts, err := b.client.GetWalletBalance(ctx, convertAccountType(accountType))
	if err != nil {
		return nil, b.convertError("GetWalletBalance", err)
	}

	wallet := &exchange.WalletBalance{Accounts: make([]exchange.AccountBalance, 0, len(accounts))}
	for _, acc := range accounts {
		balance := exchange.AccountBalance{
			AccountType: acc.AccountType,
			Coins:       make([]exchange.CoinBalance, 0, len(acc.Coin)),
		}
		for _, c := range acc.Coin {
			balance.Coins = append(balance.Coins, exchange.CoinBalance{
				Coin:             c.Coin,
				WalletBalance:    c.WalletBalance,
				AvailableToTrade: c.AvailableToTrade,
			})
		}
		wallet.Accounts = append(wallet.Accounts, balance)
	}
	return wallet, nil
}

// GetOrderHistory retrieves the most recent orders of a category
func (b *BybitAdapter) GetOrderHistory(ctx context.Context, category string, limit int) ([]exchange.OrderRecord, error) {
	if err := b.throttle(ctx, "GetOrderHistory"); err != nil {
		return nil, err
	}

	orders, err := b.client.GetOrderHistory(ctx, category, "", limit)
	if err != nil {
		return nil, b.convertError("GetOrderHistory", err)
	}

	records := make([]exchange.OrderRecord, 0, len(orders))
	for _, o := range orders {
		records = append(records, exchange.OrderRecord{
			OrderID:     o.OrderID,
			Symbol:      o.Symbol,
			Side:        exchange.OrderSide(o.Side),
			OrderStatus: o.OrderStatus,
			AvgPrice:    decimalFloat(o.AvgPrice),
			CumExecQty:  decimalFloat(o.CumExecQty),
			CreatedTime: o.CreatedTime,
		})
	}
	return records, nil
}

// GetInstrumentInfo retrieves instrument metadata for the symbol
func (b *BybitAdapter) GetInstrumentInfo(ctx context.Context, category, symbol string) ([]exchange.Instrument, error) {
	if err := b.throttle(ctx, "GetInstrumentInfo"); err != nil {
		return nil, err
	}

	infos, err := b.client.GetInstrumentsInfo(ctx, category, symbol)
	if err != nil {
		return nil, b.convertError("GetInstrumentInfo", err)
	}

	instruments := make([]exchange.Instrument, 0, len(infos))
	for _, info := range infos {
		instruments = append(instruments, exchange.Instrument{
			Symbol:        info.Symbol,
			BaseCoin:      info.BaseCoin,
			QuoteCoin:     info.QuoteCoin,
			Status:        info.Status,
			BasePrecision: info.BasePrecision,
			QtyStep:       info.QtyStep,
			MinOrderQty:   info.MinOrderQty,
		})
	}
	return instruments, nil
}

// PlaceMarketOrder submits a market order and returns the venue order id
func (b *BybitAdapter) PlaceMarketOrder(ctx context.Context, params exchange.MarketOrderParams) (string, error) {
	if err := b.throttle(ctx, "PlaceMarketOrder"); err != nil {
		return "", err
	}

	orderID, err := b.client.PlaceMarketOrder(ctx, params.Category, params.Symbol,
		bybit.OrderSide(params.Side), params.Quantity, params.OrderLinkID)
	if err != nil {
		return "", b.convertError("PlaceMarketOrder", err)
	}
	return orderID, nil
}

func (b *BybitAdapter) throttle(ctx context.Context, op string) error {
	if b.limiter.Allow() {
		return nil
	}
	b.log.WithField("op", op).Debug("Rate limit reached, waiting for a token")
	if err := b.limiter.Wait(ctx); err != nil {
		return exchange.NewGatewayError(op, err)
	}
	return nil
}

// Helper functions

// convertAccountType converts our generic account type to Bybit-specific type
func convertAccountType(accountType exchange.AccountType) bybit.AccountType {
	switch accountType {
	case exchange.AccountTypeSpot:
		return bybit.AccountTypeSpot
	default:
		return bybit.AccountTypeUnified
	}
}

// convertError converts Bybit-specific errors to *exchange.GatewayError
func (b *BybitAdapter) convertError(op string, err error) error {
	if err == nil {
		return nil
	}

	gwErr := &exchange.GatewayError{Op: op, Message: err.Error(), Err: err}
	var bybitErr *bybit.BybitError
	if errors.As(err, &bybitErr) {
		gwErr.Code = bybitErr.Code
		gwErr.Message = bybitErr.Message
	}

	switch {
	case bybit.IsTooManyDecimalsError(err):
		// the venue sometimes reports this rejection by message only
		gwErr.Code = exchange.CodeTooManyDecimals
	case bybit.IsRateLimitError(err):
		b.log.WithField("op", op).Warn("Bybit rate limit exceeded")
		monitoring.RecordError("rate_limit")
	case bybit.IsAuthenticationError(err):
		b.log.WithField("code", bybitErr.Code).Error("Bybit API authentication failed")
	}
	return gwErr
}

// RateLimiterStats reports the state of the outbound request limiter
func (b *BybitAdapter) RateLimiterStats() safety.RateLimiterStats {
	return b.limiter.GetStats()
}

func decimalFloat(s string) float64 {
	if s == "" {
		return 0
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return f
}
