package exchange

import (
	"fmt"
	"strings"
)

// ExchangeConfig holds configuration for creating exchange instances
type ExchangeConfig struct {
	Name               string       `json:"name"`            // Exchange name (only bybit is supported)
	Bybit              *BybitConfig `json:"bybit,omitempty"` // Bybit-specific config
	RateLimitPerSecond int          `json:"rate_limit_per_second"`
}

// BybitConfig holds Bybit-specific configuration
type BybitConfig struct {
	APIKey    string `json:"api_key"`
	APISecret string `json:"api_secret"`
	Testnet   bool   `json:"testnet"` // Use testnet infrastructure
	Demo      bool   `json:"demo"`    // Use demo trading (paper trading)
}

// GetSupportedExchanges returns a list of supported exchange names
func GetSupportedExchanges() []string {
	return []string{"bybit"}
}

// ValidateConfig validates the exchange configuration
func ValidateConfig(config ExchangeConfig) error {
	if config.Name == "" {
		return fmt.Errorf("exchange name is required")
	}

	switch strings.ToLower(strings.TrimSpace(config.Name)) {
	case "bybit":
		return validateBybitConfig(config.Bybit)
	default:
		return fmt.Errorf("exchange '%s' is not supported (supported: %v)", config.Name, GetSupportedExchanges())
	}
}

// validateBybitConfig validates Bybit-specific configuration
func validateBybitConfig(config *BybitConfig) error {
	if config == nil {
		return fmt.Errorf("bybit configuration is required")
	}

	// Credentials are optional: public market data works without them.
	if (config.APIKey == "") != (config.APISecret == "") {
		return fmt.Errorf("bybit API key and secret must be set together (BYBIT_API_KEY, BYBIT_API_SECRET)")
	}

	if config.Testnet && config.Demo {
		return fmt.Errorf("cannot use both testnet and demo mode simultaneously")
	}

	return nil
}
