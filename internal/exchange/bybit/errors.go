package bybit

import (
	"errors"
	"fmt"
	"strings"
)

// BybitError represents a Bybit API error with additional context
type BybitError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func (e *BybitError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("Bybit API error %d: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("Bybit API error %d: %s", e.Code, e.Message)
}

// Common Bybit error codes
const (
	ErrCodeInvalidAPIKey       = 10003
	ErrCodeInvalidSignature    = 10004
	ErrCodeInvalidTimestamp    = 10002
	ErrCodeRateLimitExceeded   = 10006
	ErrCodeInsufficientBalance = 170131
	ErrCodeSymbolNotFound      = 10001
	ErrCodeTooManyDecimals     = 170137
)

// MsgTooManyDecimals is the retMsg Bybit sends alongside ErrCodeTooManyDecimals.
const MsgTooManyDecimals = "Order quantity has too many decimals."

// IsTooManyDecimalsError checks if the order was rejected for the quantity's decimal count
func IsTooManyDecimalsError(err error) bool {
	var bybitErr *BybitError
	if errors.As(err, &bybitErr) {
		return bybitErr.Code == ErrCodeTooManyDecimals || strings.Contains(bybitErr.Message, MsgTooManyDecimals)
	}
	return err != nil && strings.Contains(err.Error(), MsgTooManyDecimals)
}

// IsAuthenticationError checks if the error is related to authentication
func IsAuthenticationError(err error) bool {
	var bybitErr *BybitError
	if errors.As(err, &bybitErr) {
		switch bybitErr.Code {
		case ErrCodeInvalidAPIKey, ErrCodeInvalidSignature, ErrCodeInvalidTimestamp:
			return true
		}
	}
	return false
}

// IsRateLimitError checks if the error is due to rate limiting
func IsRateLimitError(err error) bool {
	var bybitErr *BybitError
	if errors.As(err, &bybitErr) {
		return bybitErr.Code == ErrCodeRateLimitExceeded
	}
	return false
}

// NewBybitError creates a new BybitError
func NewBybitError(code int, message string, details ...string) *BybitError {
	err := &BybitError{
		Code:    code,
		Message: message,
	}
	if len(details) > 0 {
		err.Details = details[0]
	}
	return err
}

// ParseAPIError extracts error information from the API response
func ParseAPIError(retCode int, retMsg string) error {
	if retCode == 0 {
		return nil
	}

	return NewBybitError(retCode, retMsg)
}
