package safety

import (
	"fmt"
	"math"
	"strings"
)

// ValidationResult represents the result of a validation check
type ValidationResult struct {
	Valid   bool
	Message string
	Code    string
}

// Err converts a failed result into an error, nil when valid.
func (r ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return fmt.Errorf("%s: %s", r.Code, r.Message)
}

// Validator checks trading inputs before they reach the venue
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSymbol validates a concatenated venue symbol such as BTCUSDT
func (v *Validator) ValidateSymbol(symbol string) ValidationResult {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return ValidationResult{Message: "symbol cannot be empty", Code: "SYMBOL_EMPTY"}
	}
	if len(symbol) < 3 || len(symbol) > 20 {
		return ValidationResult{
			Message: fmt.Sprintf("symbol '%s' must be 3 to 20 characters", symbol),
			Code:    "SYMBOL_LENGTH",
		}
	}
	for _, char := range symbol {
		if !((char >= 'A' && char <= 'Z') || (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9')) {
			return ValidationResult{
				Message: fmt.Sprintf("symbol '%s' contains invalid characters: only alphanumeric allowed", symbol),
				Code:    "SYMBOL_INVALID_CHARS",
			}
		}
	}
	return ValidationResult{Valid: true}
}

// ValidatePrice rejects non-positive, NaN and infinite prices
func (v *Validator) ValidatePrice(price float64, symbol string) ValidationResult {
	switch {
	case math.IsNaN(price):
		return ValidationResult{Message: fmt.Sprintf("price for %s is NaN", symbol), Code: "INVALID_PRICE_NAN"}
	case math.IsInf(price, 0):
		return ValidationResult{Message: fmt.Sprintf("price for %s is infinite", symbol), Code: "INVALID_PRICE_INF"}
	case price <= 0:
		return ValidationResult{
			Message: fmt.Sprintf("invalid price %.8f for %s: price must be positive", price, symbol),
			Code:    "INVALID_PRICE_NEGATIVE",
		}
	}
	return ValidationResult{Valid: true}
}

// SafeRatio divides and returns 0 when the result would not be a finite number.
func (v *Validator) SafeRatio(dividend, divisor float64) float64 {
	if divisor == 0 || math.IsNaN(dividend) || math.IsNaN(divisor) {
		return 0
	}
	result := dividend / divisor
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0
	}
	return result
}
