package exchange

import (
	"errors"
	"fmt"
	"strings"
)

// Venue return code and message for a quantity with more decimals than the lot size allows.
const (
	CodeTooManyDecimals    = 170137
	MessageTooManyDecimals = "Order quantity has too many decimals."
)

var (
	// ErrTooManyDecimals matches (via errors.Is) a GatewayError rejecting the quantity's decimal count.
	ErrTooManyDecimals = errors.New("order quantity has too many decimals")

	// ErrNoTickerData is returned by GetTicker when the venue has no entry for the symbol.
	ErrNoTickerData = errors.New("no ticker data available")
)

// GatewayError is a failed venue call, carrying the venue's code and message.
type GatewayError struct {
	Op      string
	Code    int
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	if e.Code != 0 {
		fmt.Fprintf(&b, "%s (code: %d)", e.Message, e.Code)
	} else {
		b.WriteString(e.Message)
	}
	if e.Message == "" && e.Err != nil {
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrTooManyDecimals) single out the precision rejection.
func (e *GatewayError) Is(target error) bool {
	return target == ErrTooManyDecimals && e.IsTooManyDecimals()
}

// IsTooManyDecimals reports whether the venue rejected the quantity's decimal count.
func (e *GatewayError) IsTooManyDecimals() bool {
	return e.Code == CodeTooManyDecimals || strings.Contains(e.Message, MessageTooManyDecimals)
}

// NewGatewayError wraps a transport-level failure of op.
func NewGatewayError(op string, err error) *GatewayError {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &GatewayError{Op: op, Message: msg, Err: err}
}
