// Package precision works out how many decimals the venue accepts for a pair's order quantity.
package precision

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
	"github.com/ducminhle1904/bybit-spot-dashboard/pkg/types"
)

// DefaultPrecision is used whenever the instrument lookup fails.
const DefaultPrecision = 4

// Resolver reads basePrecision from the spot instrument info
type Resolver struct {
	gateway exchange.Gateway
	log     logrus.FieldLogger
}

func NewResolver(gateway exchange.Gateway, log logrus.FieldLogger) *Resolver {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Resolver{gateway: gateway, log: log.WithField("component", "precision")}
}

// Resolve returns the allowed quantity decimals for pair, or DefaultPrecision on any failure
func (r *Resolver) Resolve(ctx context.Context, pair types.TradingPair) int {
	precision, err := r.lookup(ctx, pair)
	if err != nil {
		r.log.WithField("pair", pair.String()).WithError(err).
			Warnf("Precision data not found, using default %d decimal places", DefaultPrecision)
		return DefaultPrecision
	}
	return precision
}

func (r *Resolver) lookup(ctx context.Context, pair types.TradingPair) (int, error) {
	symbol := pair.Symbol()
	instruments, err := r.gateway.GetInstrumentInfo(ctx, exchange.CategorySpot, symbol)
	if err != nil {
		return 0, err
	}
	for _, inst := range instruments {
		if inst.Symbol == symbol {
			return FromStep(inst.BasePrecision)
		}
	}
	return 0, fmt.Errorf("no instrument entry for %s", symbol)
}

// FromStep counts the fractional digits of a precision string such as "0.0001".
// A string without a decimal point means whole units only.
func FromStep(step string) (int, error) {
	step = strings.TrimSpace(step)
	if _, err := decimal.NewFromString(step); err != nil {
		return 0, fmt.Errorf("invalid basePrecision %q: %w", step, err)
	}
	_, frac, ok := strings.Cut(step, ".")
	if !ok {
		return 0, nil
	}
	return len(frac), nil
}
