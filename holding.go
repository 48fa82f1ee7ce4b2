package fintrack

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// Holding is the current position in one instrument.
type Holding struct {
	Symbol      string   `json:"symbol"`
	Shares      Quantity `json:"shares"`
	AverageCost Money    `json:"averageCost"`
}

// CostBasis returns the amount paid for the current shares.
func (h Holding) CostBasis() Money { return h.AverageCost.Mul(h.Shares) }

// Holdings is the set of current positions indexed by symbol.
//
// A symbol is present only while it has a positive number of shares.
type Holdings struct {
	index map[string]Holding
}

// NewHoldings returns an empty set of holdings.
func NewHoldings() Holdings {
	return Holdings{index: make(map[string]Holding)}
}

// clone returns a deep copy, so that settlement can work on a draft.
func (h Holdings) clone() Holdings {
	return Holdings{index: maps.Clone(h.index)}
}

// Get returns the holding for symbol.
func (h Holdings) Get(symbol string) (Holding, bool) {
	v, ok := h.index[symbol]
	return v, ok
}

// Len returns the number of positions.
func (h Holdings) Len() int { return len(h.index) }

// All iterates over holdings in symbol order.
func (h Holdings) All() iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		for _, symbol := range slices.Sorted(maps.Keys(h.index)) {
			if !yield(h.index[symbol]) {
				return
			}
		}
	}
}

// ApplyBuy adds quantity shares bought at price to the position, using a
// volume-weighted average cost basis.
func (h *Holdings) ApplyBuy(symbol string, quantity Quantity, price Money) error {
	if !quantity.IsPositive() || !price.IsPositive() {
		return fmt.Errorf("%w: buy %s of %s at %s", ErrValidation, quantity, symbol, price.Decimal())
	}
	if h.index == nil {
		h.index = make(map[string]Holding)
	}
	existing, ok := h.index[symbol]
	if !ok {
		h.index[symbol] = Holding{Symbol: symbol, Shares: quantity, AverageCost: price}
		return nil
	}
	shares := existing.Shares.Add(quantity)
	cost := existing.CostBasis().Add(price.Mul(quantity))
	h.index[symbol] = Holding{Symbol: symbol, Shares: shares, AverageCost: cost.Div(shares)}
	return nil
}

// ApplySell removes quantity shares sold at price from the position.
//
// The sell is gated on value: it fails when quantity*price exceeds the
// holding's market value at that same price. The shares removed are the
// value removed divided by the price. The position is deleted when no share
// remains.
func (h *Holdings) ApplySell(symbol string, quantity Quantity, price Money) error {
	if !quantity.IsPositive() || !price.IsPositive() {
		return fmt.Errorf("%w: sell %s of %s at %s", ErrValidation, quantity, symbol, price.Decimal())
	}
	existing, ok := h.index[symbol]
	if !ok {
		return fmt.Errorf("%w: no position in %s", ErrInsufficientHoldings, symbol)
	}
	value := price.Mul(quantity)
	marketValue := price.Mul(existing.Shares)
	if value.GreaterThan(marketValue) {
		return fmt.Errorf("%w: cannot sell %s of %s, position is worth %s", ErrInsufficientHoldings, value, symbol, marketValue)
	}
	shares := existing.Shares.Sub(value.DivPrice(price))
	if !shares.IsPositive() {
		delete(h.index, symbol)
		return nil
	}
	existing.Shares = shares
	h.index[symbol] = existing
	return nil
}

// ReplayHoldings reduces a sequence of trades into holdings. It is
// equivalent to applying each trade incrementally, in order.
func ReplayHoldings(trades iter.Seq[Transaction]) (Holdings, error) {
	h := NewHoldings()
	for tx := range trades {
		var err error
		switch tx.Kind {
		case Buy:
			err = h.ApplyBuy(tx.Symbol, tx.Quantity, tx.Price)
		case Sell:
			err = h.ApplySell(tx.Symbol, tx.Quantity, tx.Price)
		default:
			err = fmt.Errorf("%w: unknown trade kind %q", ErrValidation, tx.Kind)
		}
		if err != nil {
			return h, fmt.Errorf("cannot replay transaction %s: %w", tx.ID, err)
		}
	}
	return h, nil
}

// MarshalJSON encodes holdings as a list in symbol order.
func (h Holdings) MarshalJSON() ([]byte, error) {
	list := slices.Collect(h.All())
	if list == nil {
		list = []Holding{}
	}
	return json.Marshal(list)
}

// UnmarshalJSON decodes a list of holdings. Empty positions are dropped.
func (h *Holdings) UnmarshalJSON(data []byte) error {
	var list []Holding
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	h.index = make(map[string]Holding, len(list))
	for _, v := range list {
		if v.Shares.IsNegative() || v.AverageCost.IsNegative() {
			return fmt.Errorf("invalid holding %q: negative shares or cost", v.Symbol)
		}
		if v.Shares.IsZero() {
			continue
		}
		h.index[v.Symbol] = v
	}
	return nil
}
