package types

import (
	"fmt"
	"strings"
)

// TradingPair is a BASE/QUOTE asset combination such as BTC/USDT.
type TradingPair struct {
	base  string
	quote string
}

// ParsePair parses a "BASE/QUOTE" identifier.
func ParsePair(s string) (TradingPair, error) {
	base, quote, ok := strings.Cut(strings.TrimSpace(s), "/")
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))
	if !ok || base == "" || quote == "" || strings.Contains(quote, "/") {
		return TradingPair{}, fmt.Errorf("invalid trading pair %q: expected BASE/QUOTE", s)
	}
	return TradingPair{base: base, quote: quote}, nil
}

// MustParsePair is ParsePair for static pair lists; it panics on malformed input.
func MustParsePair(s string) TradingPair {
	p, err := ParsePair(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Base returns the base asset (BTC in BTC/USDT).
func (p TradingPair) Base() string { return p.base }

// Quote returns the quote asset (USDT in BTC/USDT).
func (p TradingPair) Quote() string { return p.quote }

// Symbol returns the exchange symbol form, e.g. BTCUSDT.
func (p TradingPair) Symbol() string { return p.base + p.quote }

func (p TradingPair) String() string { return p.base + "/" + p.quote }

// IsZero reports whether the pair was never parsed.
func (p TradingPair) IsZero() bool { return p.base == "" && p.quote == "" }

// MarshalText keeps the BASE/QUOTE form in JSON and YAML output.
func (p TradingPair) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *TradingPair) UnmarshalText(text []byte) error {
	parsed, err := ParsePair(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
