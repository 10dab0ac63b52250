package exchange

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Categories used by the Bybit v5 API
const (
	CategorySpot   = "spot"
	CategoryLinear = "linear"
)

// KlineParams represents parameters for kline/candlestick data requests
type KlineParams struct {
	Category string        `json:"category"` // spot, linear, inverse
	Symbol   string        `json:"symbol"`
	Interval KlineInterval `json:"interval"`
	Limit    int           `json:"limit"`
}

// KlineInterval represents different time intervals for kline data
type KlineInterval string

const (
	Interval1m  KlineInterval = "1"
	Interval5m  KlineInterval = "5"
	Interval15m KlineInterval = "15"
	Interval1h  KlineInterval = "60"
	Interval1d  KlineInterval = "D"
)

// Candle is one kline in the venue's positional layout:
// start, open, high, low, close, volume, turnover.
type Candle struct {
	StartTime time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Turnover  float64
}

// Ticker holds the fields of a ticker entry the bot reads.
// Symbol and LastPrice are always present; nil pointers mark fields the venue omitted.
type Ticker struct {
	Symbol       string
	LastPrice    float64
	PrevPrice1h  *float64
	PrevPrice24h *float64
	HighPrice24h *float64
	LowPrice24h  *float64
	Bid1Price    *float64
	Ask1Price    *float64
	OpenInterest *float64
	Volume24h    *float64
	Price24hPcnt *float64 // fraction, 0.0123 == 1.23%
}

// AccountType represents different account types across exchanges
type AccountType string

const (
	AccountTypeUnified AccountType = "UNIFIED"
	AccountTypeSpot    AccountType = "SPOT"
)

// CoinBalance is the balance of one asset inside an account.
type CoinBalance struct {
	Coin             string
	WalletBalance    decimal.Decimal
	AvailableToTrade decimal.Decimal
}

// AccountBalance groups the coin balances of one account.
type AccountBalance struct {
	AccountType string
	Coins       []CoinBalance
}

// WalletBalance is the wallet-balance response, one entry per account.
type WalletBalance struct {
	Accounts []AccountBalance
}

// Coin looks the asset up in the first account, which is the one a UNIFIED query returns.
func (w *WalletBalance) Coin(asset string) (CoinBalance, bool) {
	if w == nil || len(w.Accounts) == 0 {
		return CoinBalance{}, false
	}
	for _, c := range w.Accounts[0].Coins {
		if c.Coin == asset {
			return c, true
		}
	}
	return CoinBalance{}, false
}

// FindCoin scans every account for the asset.
func (w *WalletBalance) FindCoin(asset string) (CoinBalance, bool) {
	if w == nil {
		return CoinBalance{}, false
	}
	for _, acc := range w.Accounts {
		for _, c := range acc.Coins {
			if c.Coin == asset {
				return c, true
			}
		}
	}
	return CoinBalance{}, false
}

// Instrument carries the instrument metadata needed for order sizing.
type Instrument struct {
	Symbol        string
	BaseCoin      string
	QuoteCoin     string
	Status        string
	BasePrecision string // e.g. "0.0001"
	QtyStep       string
	MinOrderQty   string
}

// OrderSide represents buy or sell side (string-based for API compatibility)
type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

// ParseOrderSide accepts "buy"/"sell" in any case.
func ParseOrderSide(s string) (OrderSide, bool) {
	switch {
	case strings.EqualFold(s, string(OrderSideBuy)):
		return OrderSideBuy, true
	case strings.EqualFold(s, string(OrderSideSell)):
		return OrderSideSell, true
	}
	return "", false
}

// MarketOrderParams represents parameters for placing a market order
type MarketOrderParams struct {
	Category    string    `json:"category"`
	Symbol      string    `json:"symbol"`
	Side        OrderSide `json:"side"`
	Quantity    string    `json:"quantity"`
	OrderLinkID string    `json:"order_link_id,omitempty"`
}

// OrderRecord is one entry of the order history.
type OrderRecord struct {
	OrderID     string
	Symbol      string
	Side        OrderSide
	OrderStatus string
	AvgPrice    float64
	CumExecQty  float64
	CreatedTime time.Time
}
