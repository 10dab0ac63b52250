package types

import "encoding/json"

// Trend is the short-term direction of a pair relative to its price one hour ago.
type Trend string

const (
	TrendUp      Trend = "up"
	TrendDown    Trend = "down"
	TrendNeutral Trend = "neutral"
)

// TrendFrom compares the current price with the previous one. Equal prices are neutral.
func TrendFrom(current, previous float64) Trend {
	switch {
	case current > previous:
		return TrendUp
	case current < previous:
		return TrendDown
	default:
		return TrendNeutral
	}
}

// MarketSnapshot is the per-pair analytics view served to the dashboard.
// The zero value is the "unavailable" snapshot.
type MarketSnapshot struct {
	Pair             TradingPair `json:"-"`
	Current          float64     `json:"current"`
	Previous1h       float64     `json:"previous_1h"`
	Previous24h      float64     `json:"previous_24h"`
	High24h          float64     `json:"high_24h"`
	Low24h           float64     `json:"low_24h"`
	Bid              float64     `json:"bid"`
	Ask              float64     `json:"ask"`
	Spread           float64     `json:"spread"`
	OpenInterest     float64     `json:"open_interest"`
	Volume24h        float64     `json:"volume_24h"`
	Dip              float64     `json:"dip"` // 24h change in percent
	Uptrend          bool        `json:"uptrend"`
	PreviousTrend    Trend       `json:"previous_trend"`
	Volatility       float64     `json:"volatility"`
	Momentum         float64     `json:"momentum"`
	Momentum1h       float64     `json:"momentum_1h"`
	HistoricalPrices []float64   `json:"historical_prices,omitempty"` // nil unless a window was requested
}

// IsEmpty reports whether the snapshot carries no market data.
func (s MarketSnapshot) IsEmpty() bool {
	return s.Pair.IsZero()
}

// MarshalJSON renders an unavailable snapshot as {}. A requested history is
// always emitted, as [] when the closes could not be fetched.
func (s MarketSnapshot) MarshalJSON() ([]byte, error) {
	if s.IsEmpty() {
		return []byte("{}"), nil
	}
	type snapshot MarketSnapshot
	if s.HistoricalPrices == nil {
		return json.Marshal(snapshot(s))
	}
	return json.Marshal(struct {
		snapshot
		HistoricalPrices []float64 `json:"historical_prices"`
	}{snapshot(s), s.HistoricalPrices})
}

// TradeRecord is a read-only projection of one exchange fill.
type TradeRecord struct {
	Pair   string  `json:"pair"`
	Action string  `json:"action"`
	Price  float64 `json:"price"`
	Amount float64 `json:"amount"`
}
