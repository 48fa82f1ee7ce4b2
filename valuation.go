package fintrack

import (
	"slices"
	"strings"
)

// HoldingValuation is the value of one holding at the current quotes.
type HoldingValuation struct {
	Symbol        string
	Name          string
	Class         AssetClass
	Shares        Quantity
	AverageCost   Money
	Price         Money // current quote, or the average cost when not quoted
	Quoted        bool  // false when Price fell back to the average cost
	Value         Money
	CostBasis     Money
	UnrealizedPnL Money
	PnLPercent    Percent
	Allocation    Percent // share of the total holdings value
}

// Valuation is the value of a portfolio at the current quotes.
type Valuation struct {
	Cash      Money
	Total     Money // sum of holdings values
	CostBasis Money
	PnL       Money
	Lines     []HoldingValuation // sorted by descending value
}

// NetWorth returns the value of holdings plus cash.
func (v Valuation) NetWorth() Money { return v.Total.Add(v.Cash) }

// PnLPercent returns the unrealized gain relative to the total cost basis.
func (v Valuation) PnLPercent() Percent { return v.PnL.Ratio(v.CostBasis) }

// Valuate computes the current value of every holding in p.
//
// Holdings without a quote are valued at their average cost. Valuate has no
// side effect and computes everything from the current state, so it can be
// called again on every quote refresh.
func Valuate(p *Portfolio, quotes QuoteReader) Valuation {
	cur := p.Currency()
	v := Valuation{
		Cash:      p.Cash(),
		Total:     M(0, cur),
		CostBasis: M(0, cur),
		PnL:       M(0, cur),
	}

	for h := range p.Holdings().All() {
		line := HoldingValuation{
			Symbol:      h.Symbol,
			Shares:      h.Shares,
			AverageCost: h.AverageCost,
			Price:       h.AverageCost,
			CostBasis:   h.CostBasis(),
		}
		if q, ok := quotes.Price(h.Symbol); ok && q.Price.Currency() == h.AverageCost.Currency() {
			line.Price, line.Quoted = q.Price, true
			line.Name, line.Class = q.Instrument.Name, q.Instrument.Class()
		}
		line.Value = line.Price.Mul(h.Shares)
		line.UnrealizedPnL = line.Value.Sub(line.CostBasis)
		line.PnLPercent = line.UnrealizedPnL.Ratio(line.CostBasis)

		v.Total = v.Total.Add(line.Value)
		v.CostBasis = v.CostBasis.Add(line.CostBasis)
		v.Lines = append(v.Lines, line)
	}
	v.PnL = v.Total.Sub(v.CostBasis)

	for i := range v.Lines {
		v.Lines[i].Allocation = v.Lines[i].Value.Ratio(v.Total)
	}
	slices.SortStableFunc(v.Lines, func(a, b HoldingValuation) int {
		if c := b.Value.Decimal().Cmp(a.Value.Decimal()); c != 0 {
			return c
		}
		return strings.Compare(a.Symbol, b.Symbol)
	})
	return v
}

// Line returns the valuation of symbol.
func (v Valuation) Line(symbol string) (HoldingValuation, bool) {
	i := slices.IndexFunc(v.Lines, func(l HoldingValuation) bool { return l.Symbol == symbol })
	if i < 0 {
		return HoldingValuation{}, false
	}
	return v.Lines[i], true
}
