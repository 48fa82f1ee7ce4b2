package fintrack

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Order is a request to buy or sell a quantity of an instrument at its
// current quote.
type Order struct {
	Symbol   string
	Kind     TradeKind
	Quantity Quantity
}

// OrderState is the progress of an order through settlement.
//
// An order goes Pending -> Validated -> Priced -> Settled, or ends up
// Rejected from any non-terminal state. Settled and Rejected are terminal: a
// rejected order is never retried, the caller must submit a new one.
type OrderState int

const (
	Pending OrderState = iota
	Validated
	Priced
	Settled
	Rejected
)

func (s OrderState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Validated:
		return "validated"
	case Priced:
		return "priced"
	case Settled:
		return "settled"
	case Rejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Receipt describes the outcome of Settle.
type Receipt struct {
	Order       Order
	State       OrderState
	Price       Money       // quote used, once Priced
	Amount      Money       // cash debited (buy) or credited (sell), once Priced
	Transaction Transaction // recorded trade, once Settled
}

// validate checks the order fields.
func (o Order) validate() error {
	var errs error
	if strings.TrimSpace(o.Symbol) == "" {
		errs = errors.Join(errs, errors.New("symbol is missing"))
	}
	if o.Kind != Buy && o.Kind != Sell {
		errs = errors.Join(errs, fmt.Errorf("unknown trade kind %q", o.Kind))
	}
	if !o.Quantity.IsPositive() {
		errs = errors.Join(errs, fmt.Errorf("quantity must be positive, got %s", o.Quantity))
	}
	if errs != nil {
		return fmt.Errorf("%w: %w", ErrValidation, errs)
	}
	return nil
}

// Settle validates order against the current quote and applies it to p.
//
// Settlement is all-or-nothing: p is never modified. On success the returned
// portfolio carries the new cash balance, the updated holdings and the
// recorded transaction. On failure the returned error is a *TradeError
// matching one of ErrValidation, ErrQuoteUnavailable, ErrInsufficientBalance
// or ErrInsufficientHoldings.
//
// Unlike valuation, settlement never falls back to the cost basis: an
// instrument without a quote cannot be traded.
func Settle(p *Portfolio, order Order, quotes QuoteReader, now time.Time) (*Portfolio, Receipt, error) {
	receipt := Receipt{Order: order, State: Pending}
	reject := func(err error) (*Portfolio, Receipt, error) {
		stage := receipt.State
		receipt.State = Rejected
		return nil, receipt, &TradeError{Order: order, Stage: stage, Err: err}
	}

	if err := order.validate(); err != nil {
		return reject(err)
	}
	receipt.State = Validated

	quote, ok := quotes.Price(order.Symbol)
	if !ok {
		return reject(fmt.Errorf("%w: no quote for %s", ErrQuoteUnavailable, order.Symbol))
	}
	if quote.Price.Currency() != p.Currency() {
		return reject(fmt.Errorf("%w: %s is quoted in %q, portfolio is in %q", ErrValidation, order.Symbol, quote.Price.Currency(), p.Currency()))
	}
	receipt.Price = quote.Price
	receipt.Amount = quote.Price.Mul(order.Quantity)
	receipt.State = Priced

	draft := p.clone()
	switch order.Kind {
	case Buy:
		if receipt.Amount.GreaterThan(draft.cash) {
			return reject(fmt.Errorf("%w: cannot buy for %s, cash balance is %s", ErrInsufficientBalance, receipt.Amount, draft.cash))
		}
		if err := draft.holdings.ApplyBuy(order.Symbol, order.Quantity, quote.Price); err != nil {
			return reject(err)
		}
		draft.cash = draft.cash.Sub(receipt.Amount)
	case Sell:
		if err := draft.holdings.ApplySell(order.Symbol, order.Quantity, quote.Price); err != nil {
			return reject(err)
		}
		draft.cash = draft.cash.Add(receipt.Amount)
	}

	tx := Transaction{
		ID:        uuid.NewString(),
		Kind:      order.Kind,
		Symbol:    order.Symbol,
		Quantity:  order.Quantity,
		Price:     quote.Price,
		Timestamp: now,
	}
	draft.log.Append(tx)

	receipt.Transaction = tx
	receipt.State = Settled
	return draft, receipt, nil
}
