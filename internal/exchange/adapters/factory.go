package adapters

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
)

// Factory creates gateway instances based on configuration
type Factory struct {
	log logrus.FieldLogger
}

// NewFactory creates a new exchange factory instance
func NewFactory(log logrus.FieldLogger) *Factory {
	return &Factory{log: log}
}

// CreateGateway validates the configuration and builds the matching gateway
func (f *Factory) CreateGateway(config exchange.ExchangeConfig) (*BybitAdapter, error) {
	if err := exchange.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid exchange config: %w", err)
	}

	switch strings.ToLower(strings.TrimSpace(config.Name)) {
	case "bybit":
		adapter, err := NewBybitAdapter(config.Bybit, config.RateLimitPerSecond, f.log)
		if err != nil {
			return nil, fmt.Errorf("failed to create Bybit adapter: %w", err)
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("exchange '%s' is not supported", config.Name)
	}
}
