package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ducminhle1904/bybit-spot-dashboard/internal/exchange"
)

// ErrorCategory represents different types of errors that can occur
type ErrorCategory string

const (
	// Expected transient absence of market data; callers degrade to defaults
	ErrorCategoryDataUnavailable ErrorCategory = "DATA_UNAVAILABLE"
	// Network, auth or venue failures
	ErrorCategoryExchange ErrorCategory = "EXCHANGE"
	// Quantity rejected for its decimal count; drives the corrective retry
	ErrorCategoryPrecision ErrorCategory = "PRECISION"
	// Retry budget or precision floor reached
	ErrorCategoryExhausted ErrorCategory = "EXHAUSTED"
	// Malformed client input
	ErrorCategoryValidation ErrorCategory = "VALIDATION"
	ErrorCategoryConfiguration ErrorCategory = "CONFIG"
)

// BotError represents a categorized error with context
type BotError struct {
	Category   ErrorCategory
	Component  string
	Operation  string
	Message    string
	Underlying error
	Context    map[string]interface{}
}

// Error implements the error interface
func (e *BotError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("[%s:%s] %s: %s: %v", e.Category, e.Component, e.Operation, e.Message, e.Underlying)
	}
	return fmt.Sprintf("[%s:%s] %s: %s", e.Category, e.Component, e.Operation, e.Message)
}

// Unwrap returns the underlying error for error unwrapping
func (e *BotError) Unwrap() error {
	return e.Underlying
}

// IsRetryable is true only for the precision rejection; every other fault is terminal for its request.
func (e *BotError) IsRetryable() bool {
	return e.Category == ErrorCategoryPrecision
}

// HTTPStatus maps the category to the status the dashboard answers with.
func (e *BotError) HTTPStatus() int {
	switch e.Category {
	case ErrorCategoryValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// NewBotError creates a new categorized bot error
func NewBotError(category ErrorCategory, component, operation, message string) *BotError {
	return &BotError{
		Category:  category,
		Component: component,
		Operation: operation,
		Message:   message,
		Context:   make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with bot error context
func WrapError(err error, category ErrorCategory, component, operation, message string) *BotError {
	if err == nil {
		return nil
	}

	return &BotError{
		Category:   category,
		Component:  component,
		Operation:  operation,
		Message:    message,
		Underlying: err,
		Context:    make(map[string]interface{}),
	}
}

// WithContext adds context information to the error
func (e *BotError) WithContext(key string, value interface{}) *BotError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// CategorizeError attempts to categorize a generic error
func CategorizeError(err error, component, operation string) *BotError {
	if err == nil {
		return nil
	}

	var botErr *BotError
	if errors.As(err, &botErr) {
		return botErr
	}

	switch {
	case errors.Is(err, exchange.ErrTooManyDecimals):
		return WrapError(err, ErrorCategoryPrecision, component, operation, "quantity precision rejected")
	case errors.Is(err, exchange.ErrNoTickerData):
		return WrapError(err, ErrorCategoryDataUnavailable, component, operation, "no market data")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return WrapError(err, ErrorCategoryExchange, component, operation, "request interrupted")
	}

	var gwErr *exchange.GatewayError
	if errors.As(err, &gwErr) {
		return WrapError(err, ErrorCategoryExchange, component, operation, "venue call failed").
			WithContext("code", gwErr.Code)
	}

	return WrapError(err, ErrorCategoryExchange, component, operation, "operation failed")
}

// Common error constructors
func NewValidationError(component, operation, message string) *BotError {
	return NewBotError(ErrorCategoryValidation, component, operation, message)
}

func NewConfigurationError(component, operation string, err error) *BotError {
	return WrapError(err, ErrorCategoryConfiguration, component, operation, "invalid configuration")
}

func NewExhaustedError(component, operation string, err error) *BotError {
	return WrapError(err, ErrorCategoryExhausted, component, operation, "retries exhausted")
}

// IsCategory reports whether err carries a BotError of the given category.
func IsCategory(err error, category ErrorCategory) bool {
	var botErr *BotError
	return errors.As(err, &botErr) && botErr.Category == category
}
