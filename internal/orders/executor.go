// Package orders places market orders and walks the precision-retry chain.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	apperrors "github.com/ducminhle1904/bybit-spot-dashboard/internal/errors"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/internal/monitoring"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

// DefaultMaxAttempts bounds the number of precision retries per request
const DefaultMaxAttempts = 5

var (
	// ErrNoBalance means a Sell found nothing to sell once truncated to precision
	ErrNoBalance = errors.New("no balance available to sell")
	// ErrInvalidQuantity means a Buy quantity truncated to zero or below
	ErrInvalidQuantity = errors.New("order quantity must be positive")
	// ErrRetriesExhausted wraps the last rejection once precision or attempts run out
	ErrRetriesExhausted = errors.New("order retries exhausted")
)

// State of a request in the execution chain
type State string

const (
	StateInit              State = "init"
	StatePrecisionResolved State = "precision_resolved"
	StateQuantityFinalized State = "quantity_finalized"
	StateSubmitted         State = "submitted"
	StateSucceeded         State = "succeeded"
	StateRetrying          State = "retrying"
	StateFailed            State = "failed"
)

// OrderRequest is one logical order. Quantity is ignored for Sell.
type OrderRequest struct {
	Pair        types.TradingPair
	Side        exchange.OrderSide
	Quantity    decimal.Decimal
	Category    string // default spot
	Precision   *int   // resolved lazily when nil
	Attempt     int
	MaxAttempts int // 0 means DefaultMaxAttempts
}

// AttemptRecord is one submission of the chain
type AttemptRecord struct {
	Attempt     int
	Precision   int
	Quantity    string
	OrderLinkID string
	Err         error
}

// OrderResult describes how the chain ended. OrderID is set only on success.
type OrderResult struct {
	OrderID   string
	State     State
	Precision int
	Quantity  decimal.Decimal
	Attempts  []AttemptRecord
}

// PrecisionResolver resolves the allowed quantity decimals of a pair
type PrecisionResolver interface {
	Resolve(ctx context.Context, pair types.TradingPair) int
}

// Executor runs the order state machine against the gateway
type Executor struct {
	gateway   exchange.Gateway
	resolver  PrecisionResolver
	log       logrus.FieldLogger
	newLinkID func() string
}

func NewExecutor(gateway exchange.Gateway, resolver PrecisionResolver, log logrus.FieldLogger) *Executor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Executor{
		gateway:   gateway,
		resolver:  resolver,
		log:       log.WithField("component", "orders"),
		newLinkID: uuid.NewString,
	}
}

// Execute submits the order, retrying at one decimal less while the venue rejects
// the quantity for its decimal count. Submissions are strictly sequential.
func (e *Executor) Execute(ctx context.Context, req OrderRequest) (OrderResult, error) {
	if req.Pair.IsZero() {
		return OrderResult{State: StateFailed}, apperrors.NewValidationError("orders", "Execute", "pair is required")
	}
	if req.Side != exchange.OrderSideBuy && req.Side != exchange.OrderSideSell {
		return OrderResult{State: StateFailed}, apperrors.NewValidationError("orders", "Execute",
			fmt.Sprintf("unknown order side %q", req.Side))
	}
	if req.Category == "" {
		req.Category = exchange.CategorySpot
	}
	maxAttempts := req.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	symbol := req.Pair.Symbol()
	result := OrderResult{State: StateInit}
	attempt := req.Attempt

	var precision int
	if attempt == 0 || req.Precision == nil {
		precision = e.resolver.Resolve(ctx, req.Pair)
	} else {
		precision = *req.Precision
	}
	result.State = StatePrecisionResolved

	for {
		log := e.log.WithFields(logrus.Fields{
			"pair":      req.Pair.String(),
			"side":      string(req.Side),
			"attempt":   attempt,
			"precision": precision,
		})
		result.Precision = precision

		qty, err := e.finalizeQuantity(ctx, req, precision, log)
		if err != nil {
			result.State = StateFailed
			monitoring.RecordOrder(symbol, string(req.Side), string(StateFailed), 0)
			return result, err
		}
		result.Quantity = qty
		result.State = StateQuantityFinalized

		qtyStr := Truncate(qty, precision).String()
		linkID := e.newLinkID()
		log.WithField("quantity", qtyStr).Infof("Placing %s order in %s category", req.Side, req.Category)

		orderID, err := e.gateway.PlaceMarketOrder(ctx, exchange.MarketOrderParams{
			Category:    req.Category,
			Symbol:      symbol,
			Side:        req.Side,
			Quantity:    qtyStr,
			OrderLinkID: linkID,
		})
		result.State = StateSubmitted
		result.Attempts = append(result.Attempts, AttemptRecord{
			Attempt:     attempt,
			Precision:   precision,
			Quantity:    qtyStr,
			OrderLinkID: linkID,
			Err:         err,
		})

		if err == nil {
			result.OrderID = orderID
			result.State = StateSucceeded
			log.WithFields(logrus.Fields{"order_id": orderID, "quantity": qtyStr}).Info("Order placed")
			qf, _ := qty.Float64()
			monitoring.RecordOrder(symbol, string(req.Side), string(StateSucceeded), qf)
			return result, nil
		}

		log.WithError(err).Error("Error placing order")

		botErr := apperrors.CategorizeError(err, "orders", "Execute")
		if botErr.IsRetryable() && precision > 0 && attempt < maxAttempts {
			result.State = StateRetrying
			precision--
			attempt++
			log.Warnf("Retrying with reduced precision: %d decimal places", precision)
			monitoring.RecordPrecisionRetry(symbol)
			result.State = StatePrecisionResolved
			continue
		}

		result.State = StateFailed
		monitoring.RecordOrder(symbol, string(req.Side), string(StateFailed), 0)

		if botErr.IsRetryable() {
			exhausted := fmt.Errorf("%w after %d attempts (precision %d): %w", ErrRetriesExhausted, attempt+1, precision, err)
			return result, apperrors.NewExhaustedError("orders", "Execute", exhausted).
				WithContext("pair", req.Pair.String())
		}
		return result, botErr
	}
}

// finalizeQuantity picks the quantity for this attempt: the freshly fetched base balance for
// Sell, the requested quantity for Buy, truncated to precision either way
func (e *Executor) finalizeQuantity(ctx context.Context, req OrderRequest, precision int, log logrus.FieldLogger) (decimal.Decimal, error) {
	if req.Side == exchange.OrderSideSell {
		balance, err := e.fetchBaseBalance(ctx, req.Pair)
		if err != nil {
			log.WithError(err).Error("Error fetching balance")
		}
		log.WithField("balance", balance.String()).Info("Available balance")

		qty := Truncate(balance, precision)
		if !qty.IsPositive() {
			log.Error("No balance available to sell")
			cause := fmt.Errorf("%s: %w", req.Pair, ErrNoBalance)
			if err != nil {
				cause = fmt.Errorf("%s: %w: %w", req.Pair, ErrNoBalance, err)
			}
			return decimal.Zero, apperrors.WrapError(cause, apperrors.ErrorCategoryDataUnavailable,
				"orders", "Execute", "nothing to sell")
		}
		log.WithField("quantity", qty.String()).Info("Selling all available balance")
		return qty, nil
	}

	qty := Truncate(req.Quantity, precision)
	if !qty.IsPositive() {
		return decimal.Zero, apperrors.WrapError(fmt.Errorf("%s: %w", req.Pair, ErrInvalidQuantity),
			apperrors.ErrorCategoryValidation, "orders", "Execute", "invalid quantity")
	}
	return qty, nil
}

// AvailableBalance returns the base-asset wallet balance of pair, zero when it cannot be read
func (e *Executor) AvailableBalance(ctx context.Context, pair types.TradingPair) decimal.Decimal {
	balance, err := e.fetchBaseBalance(ctx, pair)
	if err != nil {
		e.log.WithField("pair", pair.String()).WithError(err).Error("Error fetching balance")
		return decimal.Zero
	}
	return balance
}

// fetchBaseBalance reads the UNIFIED wallet; a missing coin is a zero balance
func (e *Executor) fetchBaseBalance(ctx context.Context, pair types.TradingPair) (decimal.Decimal, error) {
	wallet, err := e.gateway.GetWalletBalance(ctx, exchange.AccountTypeUnified)
	if err != nil {
		return decimal.Zero, err
	}
	coin, ok := wallet.Coin(pair.Base())
	if !ok {
		return decimal.Zero, nil
	}
	return coin.WalletBalance, nil
}
