package orders

import "github.com/shopspring/decimal"

// Truncate drops every digit after the given number of decimals, toward zero.
// Negative decimals are treated as 0.
func Truncate(value decimal.Decimal, decimals int) decimal.Decimal {
	if decimals < 0 {
		decimals = 0
	}
	return value.Truncate(int32(decimals))
}
