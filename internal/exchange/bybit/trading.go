package bybit

import (
	"context"
	"fmt"
	"time"
)

// OrderSide represents the side of an order
type OrderSide string

const (
	OrderSideBuy  OrderSide = "Buy"
	OrderSideSell OrderSide = "Sell"
)

// OrderType represents the type of an order
type OrderType string

const (
	OrderTypeMarket OrderType = "Market"
	OrderTypeLimit  OrderType = "Limit"
)

// Order represents a trading order from the order history
type Order struct {
	OrderID      string
	OrderLinkID  string
	Symbol       string
	Side         OrderSide
	OrderType    OrderType
	Qty          string
	Price        string
	OrderStatus  string
	AvgPrice     string
	CumExecQty   string
	CumExecValue string
	CreatedTime  time.Time
	UpdatedTime  time.Time
}

// PlaceOrderParams holds parameters for placing an order
type PlaceOrderParams struct {
	Category    string    // "spot", "linear", "inverse", "option"
	Symbol      string    // Trading pair symbol
	Side        OrderSide // Buy or Sell
	OrderType   OrderType // Market or Limit
	Qty         string    // Order quantity
	Price       string    // Price for limit orders
	OrderLinkID string    // Unique order ID set by user
	MarketUnit  string    // baseCoin, quoteCoin (for spot market orders)
}

// PlaceOrder places a new order and returns the venue order id
func (c *Client) PlaceOrder(ctx context.Context, params PlaceOrderParams) (string, error) {
	if params.Category == "" {
		params.Category = "spot"
	}
	if params.Symbol == "" {
		return "", fmt.Errorf("symbol is required")
	}
	if params.Side == "" {
		return "", fmt.Errorf("side is required")
	}
	if params.OrderType == "" {
		return "", fmt.Errorf("orderType is required")
	}
	if params.Qty == "" {
		return "", fmt.Errorf("qty is required")
	}
	if params.OrderType == OrderTypeLimit && params.Price == "" {
		return "", fmt.Errorf("price is required for limit orders")
	}

	apiParams := map[string]interface{}{
		"category":  params.Category,
		"symbol":    params.Symbol,
		"side":      string(params.Side),
		"orderType": string(params.OrderType),
		"qty":       params.Qty,
	}

	if params.Price != "" {
		apiParams["price"] = params.Price
	}
	if params.OrderLinkID != "" {
		apiParams["orderLinkId"] = params.OrderLinkID
	}
	if params.MarketUnit != "" {
		apiParams["marketUnit"] = params.MarketUnit
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(apiParams).PlaceOrder(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to place order: %w", err)
	}

	// API errors are returned unwrapped so the retCode/retMsg stay inspectable
	orderID, err := parseOrderResponse(result)
	if err != nil {
		return "", err
	}

	return orderID, nil
}

// PlaceMarketOrder places a market order (simplified method)
func (c *Client) PlaceMarketOrder(ctx context.Context, category, symbol string, side OrderSide, qty, orderLinkID string) (string, error) {
	return c.PlaceOrder(ctx, PlaceOrderParams{
		Category:    category,
		Symbol:      symbol,
		Side:        side,
		OrderType:   OrderTypeMarket,
		Qty:         qty,
		OrderLinkID: orderLinkID,
	})
}

// GetOrderHistory retrieves order history
func (c *Client) GetOrderHistory(ctx context.Context, category, symbol string, limit int) ([]Order, error) {
	params := map[string]interface{}{
		"category": category,
	}

	if symbol != "" {
		params["symbol"] = symbol
	}
	if limit > 0 {
		params["limit"] = limit
	}

	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetOrderHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get order history: %w", err)
	}

	orders, err := parseOrdersResponse(result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse order history response: %w", err)
	}

	return orders, nil
}

// parseOrderResponse parses the order placement API response
func parseOrderResponse(response interface{}) (string, error) {
	var orderResult OrderCreateResult
	if err := decodeResult(response, &orderResult); err != nil {
		return "", err
	}

	if orderResult.OrderID == "" {
		return "", fmt.Errorf("order response carries no orderId")
	}

	return orderResult.OrderID, nil
}

// parseOrdersResponse parses the orders list API response
func parseOrdersResponse(response interface{}) ([]Order, error) {
	var orderListResult OrderListResult
	if err := decodeResult(response, &orderListResult); err != nil {
		return nil, err
	}

	orders := make([]Order, 0, len(orderListResult.List))
	for _, orderData := range orderListResult.List {
		orders = append(orders, Order{
			OrderID:      orderData.OrderID,
			OrderLinkID:  orderData.OrderLinkID,
			Symbol:       orderData.Symbol,
			Side:         OrderSide(orderData.Side),
			OrderType:    OrderType(orderData.OrderType),
			Qty:          orderData.Qty,
			Price:        orderData.Price,
			OrderStatus:  orderData.OrderStatus,
			AvgPrice:     orderData.AvgPrice,
			CumExecQty:   orderData.CumExecQty,
			CumExecValue: orderData.CumExecValue,
			CreatedTime:  parseTimestamp(orderData.CreatedTime),
			UpdatedTime:  parseTimestamp(orderData.UpdatedTime),
		})
	}

	return orders, nil
}
