package fintrack

import (
	"errors"
	"fmt"
)

// Errors returned by the core. Callers use errors.Is to render a message per kind.
var (
	ErrValidation           = errors.New("invalid input")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrQuoteUnavailable     = errors.New("quote unavailable")
	ErrNotFound             = errors.New("not found")
)

// Errors of the external collaborators. They are logged and swallowed by the
// session and never reach the user as a failure of the core.
var (
	ErrPersistence = errors.New("persistence failure")
	ErrFetch       = errors.New("fetch failure")
)

// TradeError is the rejection of an order.
type TradeError struct {
	Order Order
	Stage OrderState // last state reached before the rejection
	Err   error
}

func (e *TradeError) Error() string {
	return fmt.Sprintf("%s %s %s rejected: %v", e.Order.Kind, e.Order.Quantity, e.Order.Symbol, e.Err)
}

func (e *TradeError) Unwrap() error { return e.Err }
