package bybit

import (
	"context"
	"fmt"
	"time"
)

// KlineInterval represents the time interval for kline data
type KlineInterval string

const (
	Interval1m  KlineInterval = "1"
	Interval5m  KlineInterval = "5"
	Interval15m KlineInterval = "15"
	Interval1h  KlineInterval = "60"
	Interval1d  KlineInterval = "D"
)

// Kline represents a single kline/candlestick data point
type Kline struct {
	StartTime  time.Time
	OpenPrice  float64
	HighPrice  float64
	LowPrice   float64
	ClosePrice float64
	Volume     float64
	Turnover   float64
}

// KlineParams holds parameters for fetching kline data
type KlineParams struct {
	Category string        // "spot", "linear", "inverse"
	Symbol   string        // Trading pair symbol (e.g., "BTCUSDT")
	Interval KlineInterval // Time interval
	Limit    int           // Number of records to return (max 1000, default 200)
}

// Ticker is a parsed ticker entry. Pointer fields are nil when Bybit leaves them empty.
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
	Price24hPcnt *float64
}

// GetKlines fetches kline/candlestick data from Bybit
func (c *Client) GetKlines(ctx context.Context, params KlineParams) ([]Kline, error) {
	if params.Category == "" {
		params.Category = "spot"
	}
	if params.Limit == 0 {
		params.Limit = 200
	}
	if params.Limit > 1000 {
		params.Limit = 1000
	}

	reqParams := map[string]interface{}{
		"category": params.Category,
		"symbol":   params.Symbol,
		"interval": string(params.Interval),
		"limit":    params.Limit,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(reqParams).GetMarketKline(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get klines: %w", err)
	}

	klines, err := parseKlineResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse kline response: %w", err)
	}

	return klines, nil
}

// GetTickers fetches the ticker entries for a symbol. An empty slice means Bybit has no entry.
func (c *Client) GetTickers(ctx context.Context, category, symbol string) ([]Ticker, error) {
	if category == "" {
		category = "spot"
	}

	params := map[string]interface{}{
		"category": category,
		"symbol":   symbol,
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tickers: %w", err)
	}

	tickers, err := parseTickerResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ticker response: %w", err)
	}

	return tickers, nil
}

// parseKlineResponse parses the API response into Kline structs, keeping Bybit's order (newest first)
func parseKlineResponse(response interface{}) ([]Kline, error) {
	var klineResult KlineResult
	if err := decodeResult(response, &klineResult); err != nil {
		return nil, err
	}

	klines := make([]Kline, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		if len(item) < 7 {
			continue // Skip incomplete data
		}

		klines = append(klines, Kline{
			StartTime:  time.UnixMilli(parseInt64(item[0])),
			OpenPrice:  parseFloat64(item[1]),
			HighPrice:  parseFloat64(item[2]),
			LowPrice:   parseFloat64(item[3]),
			ClosePrice: parseFloat64(item[4]),
			Volume:     parseFloat64(item[5]),
			Turnover:   parseFloat64(item[6]),
		})
	}

	return klines, nil
}

// parseTickerResponse parses the ticker response, dropping entries without a usable lastPrice
func parseTickerResponse(response interface{}) ([]Ticker, error) {
	var tickerResult TickerResult
	if err := decodeResult(response, &tickerResult); err != nil {
		return nil, err
	}

	tickers := make([]Ticker, 0, len(tickerResult.List))
	for _, t := range tickerResult.List {
		last := parseOptionalFloat64(t.LastPrice)
		if last == nil {
			continue
		}
		tickers = append(tickers, Ticker{
			Symbol:       t.Symbol,
			LastPrice:    *last,
			PrevPrice1h:  parseOptionalFloat64(t.PrevPrice1h),
			PrevPrice24h: parseOptionalFloat64(t.PrevPrice24h),
			HighPrice24h: parseOptionalFloat64(t.HighPrice24h),
			LowPrice24h:  parseOptionalFloat64(t.LowPrice24h),
			Bid1Price:    parseOptionalFloat64(t.Bid1Price),
			Ask1Price:    parseOptionalFloat64(t.Ask1Price),
			OpenInterest: parseOptionalFloat64(t.OpenInterest),
			Volume24h:    parseOptionalFloat64(t.Volume24h),
			Price24hPcnt: parseOptionalFloat64(t.Price24hPcnt),
		})
	}

	return tickers, nil
}
