package exchange

import (
	"context"
)

// Gateway abstracts every network call the bot makes to the venue.
// Implementations have no side effects beyond the call itself; callers own idempotency.
type Gateway interface {
	// Market data
	GetTicker(ctx context.Context, category, symbol string) (*Ticker, error)
	GetKlines(ctx context.Context, params KlineParams) ([]Candle, error)

	// Account
	GetWalletBalance(ctx context.Context, accountType AccountType) (*WalletBalance, error)
	GetOrderHistory(ctx context.Context, category string, limit int) ([]OrderRecord, error)

	// Instruments
	GetInstrumentInfo(ctx context.Context, category, symbol string) ([]Instrument, error)

	// Trading
	PlaceMarketOrder(ctx context.Context, params MarketOrderParams) (string, error)
}
