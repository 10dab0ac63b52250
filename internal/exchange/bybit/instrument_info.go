package bybit

import (
	"context"
	"fmt"
)

// InstrumentInfo represents the lot-size information of a trading instrument
type InstrumentInfo struct {
	Symbol         string
	Status         string
	BaseCoin       string
	QuoteCoin      string
	BasePrecision  string
	QuotePrecision string
	MinOrderQty    string
	MaxOrderQty    string
	QtyStep        string
}

// GetInstrumentsInfo fetches instrument information for a category, optionally narrowed to one symbol
func (c *Client) GetInstrumentsInfo(ctx context.Context, category, symbol string) ([]InstrumentInfo, error) {
	if category == "" {
		category = "spot"
	}

	params := map[string]interface{}{
		"category": category,
	}

	if symbol != "" {
		params["symbol"] = symbol
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch instrument info: %w", err)
	}

	instruments, err := parseInstrumentInfoResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse instrument info: %w", err)
	}

	return instruments, nil
}

// parseInstrumentInfoResponse parses the instrument info API response
func parseInstrumentInfoResponse(response interface{}) ([]InstrumentInfo, error) {
	var instrumentResult InstrumentsResult
	if err := decodeResult(response, &instrumentResult); err != nil {
		return nil, err
	}

	instruments := make([]InstrumentInfo, 0, len(instrumentResult.List))
	for _, item := range instrumentResult.List {
		instruments = append(instruments, InstrumentInfo{
			Symbol:         item.Symbol,
			Status:         item.Status,
			BaseCoin:       item.BaseCoin,
			QuoteCoin:      item.QuoteCoin,
			BasePrecision:  item.LotSizeFilter.BasePrecision,
			QuotePrecision: item.LotSizeFilter.QuotePrecision,
			MinOrderQty:    item.LotSizeFilter.MinOrderQty,
			MaxOrderQty:    item.LotSizeFilter.MaxOrderQty,
			QtyStep:        item.LotSizeFilter.QtyStep,
		})
	}

	return instruments, nil
}
