package bybit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// KlineResult is the result object of /v5/market/kline
type KlineResult struct {
	Symbol   string     `json:"symbol"`
	Category string     `json:"category"`
	List     [][]string `json:"list"` // [startTime, open, high, low, close, volume, turnover]
}

// TickerResult is the result object of /v5/market/tickers
type TickerResult struct {
	Category string `json:"category"`
	List     []struct {
		Symbol       string `json:"symbol"`
		Bid1Price    string `json:"bid1Price"`
		Ask1Price    string `json:"ask1Price"`
		LastPrice    string `json:"lastPrice"`
		PrevPrice24h string `json:"prevPrice24h"`
		PrevPrice1h  string `json:"prevPrice1h"`
		Price24hPcnt string `json:"price24hPcnt"`
		HighPrice24h string `json:"highPrice24h"`
		LowPrice24h  string `json:"lowPrice24h"`
		Turnover24h  string `json:"turnover24h"`
		Volume24h    string `json:"volume24h"`
		MarkPrice    string `json:"markPrice"`
		OpenInterest string `json:"openInterest"`
	} `json:"list"`
}

// WalletBalanceResult is the result object of /v5/account/wallet-balance
type WalletBalanceResult struct {
	List []struct {
		AccountType           string `json:"accountType"`
		TotalEquity           string `json:"totalEquity"`
		TotalWalletBalance    string `json:"totalWalletBalance"`
		TotalAvailableBalance string `json:"totalAvailableBalance"`
		Coin                  []struct {
			Coin                string `json:"coin"`
			Equity              string `json:"equity"`
			UsdValue            string `json:"usdValue"`
			WalletBalance       string `json:"walletBalance"`
			AvailableToTrade    string `json:"availableToTrade"`
			AvailableToWithdraw string `json:"availableToWithdraw"`
			Locked              string `json:"locked"`
		} `json:"coin"`
	} `json:"list"`
}

// InstrumentsResult is the result object of /v5/market/instruments-info
type InstrumentsResult struct {
	Category string `json:"category"`
	List     []struct {
		Symbol        string `json:"symbol"`
		Status        string `json:"status"`
		BaseCoin      string `json:"baseCoin"`
		QuoteCoin     string `json:"quoteCoin"`
		LotSizeFilter struct {
			BasePrecision  string `json:"basePrecision"`
			QuotePrecision string `json:"quotePrecision"`
			MinOrderQty    string `json:"minOrderQty"`
			MaxOrderQty    string `json:"maxOrderQty"`
			QtyStep        string `json:"qtyStep"`
		} `json:"lotSizeFilter"`
	} `json:"list"`
}

// OrderCreateResult is the result object of /v5/order/create
type OrderCreateResult struct {
	OrderID     string `json:"orderId"`
	OrderLinkID string `json:"orderLinkId"`
}

// OrderListResult is the result object of /v5/order/history
type OrderListResult struct {
	List []struct {
		OrderID      string `json:"orderId"`
		OrderLinkID  string `json:"orderLinkId"`
		Symbol       string `json:"symbol"`
		Price        string `json:"price"`
		Qty          string `json:"qty"`
		Side         string `json:"side"`
		OrderStatus  string `json:"orderStatus"`
		OrderType    string `json:"orderType"`
		AvgPrice     string `json:"avgPrice"`
		CumExecQty   string `json:"cumExecQty"`
		CumExecValue string `json:"cumExecValue"`
		CreatedTime  string `json:"createdTime"`
		UpdatedTime  string `json:"updatedTime"`
	} `json:"list"`
	NextPageCursor string `json:"nextPageCursor"`
	Category       string `json:"category"`
}

// decodeResult checks the retCode of a raw API response and decodes its result into out.
func decodeResult(response interface{}, out interface{}) error {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok || serverResp == nil {
		return fmt.Errorf("invalid response type %T", response)
	}

	if err := ParseAPIError(serverResp.RetCode, serverResp.RetMsg); err != nil {
		return err
	}

	resultBytes, err := json.Marshal(serverResp.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := json.Unmarshal(resultBytes, out); err != nil {
		return fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return nil
}

// Helper functions for parsing string numbers
func parseFloat64(s string) float64 {
	if s == "" {
		return 0
	}
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// parseOptionalFloat64 returns nil for absent or unparsable fields.
func parseOptionalFloat64(s string) *float64 {
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt64(s string) int64 {
	if s == "" {
		return 0
	}
	i, _ := strconv.ParseInt(s, 10, 64)
	return i
}

// parseTimestamp converts milliseconds timestamp to time.Time
func parseTimestamp(ts string) time.Time {
	if ts == "" {
		return time.Time{}
	}
	return time.UnixMilli(parseInt64(ts))
}
