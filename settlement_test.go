package fintrack

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestSettle_BuyThenAverage(t *testing.T) {
	p := newTestPortfolio(10000)

	p = mustSettle(t, p, buy("AAPL", 10), quotesOf(t, map[string]float64{"AAPL": 150}))
	if want := USD(8500); !p.Cash().Equal(want) {
		t.Errorf("cash after first buy = %v, want %v", p.Cash(), want)
	}
	h, ok := p.Holdings().Get("AAPL")
	if !ok {
		t.Fatal("AAPL holding missing after buy")
	}
	if !h.Shares.Equal(Q(10)) || !h.AverageCost.Equal(USD(150)) {
		t.Errorf("holding = %v shares @ %v, want 10 @ 150", h.Shares, h.AverageCost)
	}

	p = mustSettle(t, p, buy("AAPL", 5), quotesOf(t, map[string]float64{"AAPL": 160}))
	if want := USD(7700); !p.Cash().Equal(want) {
		t.Errorf("cash after second buy = %v, want %v", p.Cash(), want)
	}
	h, _ = p.Holdings().Get("AAPL")
	if !h.Shares.Equal(Q(15)) {
		t.Errorf("shares = %v, want 15", h.Shares)
	}
	if got, want := h.AverageCost.Round(2), USD(153.33); !got.Equal(want) {
		t.Errorf("average cost = %v, want %v", got, want)
	}
	if got := p.Log().Len(); got != 2 {
		t.Errorf("log length = %d, want 2", got)
	}
}

func TestSettle_Rejections(t *testing.T) {
	base := mustSettle(t, newTestPortfolio(10000), buy("AAPL", 15), quotesOf(t, map[string]float64{"AAPL": 150}))
	quotes := quotesOf(t, map[string]float64{"AAPL": 200, "MSFT": 300})

	tests := []struct {
		name  string
		order Order
		want  error
		stage OrderState
	}{
		{"sell more than held", sell("AAPL", 20), ErrInsufficientHoldings, Priced},
		{"sell not held", sell("MSFT", 1), ErrInsufficientHoldings, Priced},
		{"buy above cash", buy("MSFT", 100), ErrInsufficientBalance, Priced},
		{"no quote", buy("TSLA", 1), ErrQuoteUnavailable, Validated},
		{"zero quantity", buy("AAPL", 0), ErrValidation, Pending},
		{"negative quantity", sell("AAPL", -1), ErrValidation, Pending},
		{"missing symbol", buy(" ", 1), ErrValidation, Pending},
		{"unknown kind", Order{Symbol: "AAPL", Kind: "short", Quantity: Q(1)}, ErrValidation, Pending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, receipt, err := Settle(base, tt.order, quotes, noon)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Settle() error = %v, want %v", err, tt.want)
			}
			var tradeErr *TradeError
			if !errors.As(err, &tradeErr) {
				t.Fatalf("Settle() error is %T, want *TradeError", err)
			}
			if tradeErr.Stage != tt.stage {
				t.Errorf("rejected at stage %v, want %v", tradeErr.Stage, tt.stage)
			}
			if next != nil {
				t.Errorf("Settle() returned a portfolio on rejection")
			}
			if receipt.State != Rejected {
				t.Errorf("receipt state = %v, want %v", receipt.State, Rejected)
			}
			if want := USD(7750); !base.Cash().Equal(want) {
				t.Errorf("cash changed to %v, want %v", base.Cash(), want)
			}
			if h, _ := base.Holdings().Get("AAPL"); !h.Shares.Equal(Q(15)) {
				t.Errorf("shares changed to %v, want 15", h.Shares)
			}
			if base.Log().Len() != 1 {
				t.Errorf("log length changed to %d, want 1", base.Log().Len())
			}
		})
	}
}

func TestSettle_CurrencyMismatch(t *testing.T) {
	quotes := NewQuoteStore()
	if err := quotes.SetPrice("SAP", EUR(120), noon); err != nil {
		t.Fatal(err)
	}
	_, _, err := Settle(newTestPortfolio(1000), buy("SAP", 1), quotes, noon)
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Settle() error = %v, want %v", err, ErrValidation)
	}
}

func TestSettle_SellAll(t *testing.T) {
	p := mustSettle(t, newTestPortfolio(10000), buy("AAPL", 15), quotesOf(t, map[string]float64{"AAPL": 150}))
	p, receipt, err := Settle(p, sell("AAPL", 15), quotesOf(t, map[string]float64{"AAPL": 200}), noon)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if receipt.State != Settled || !receipt.Amount.Equal(USD(3000)) {
		t.Errorf("receipt = %v %v, want settled 3000", receipt.State, receipt.Amount)
	}
	if _, ok := p.Holdings().Get("AAPL"); ok {
		t.Error("AAPL still held after selling everything")
	}
	if want := USD(10750); !p.Cash().Equal(want) {
		t.Errorf("cash = %v, want %v", p.Cash(), want)
	}
	if receipt.Transaction.ID == "" {
		t.Error("transaction has no ID")
	}
}

func TestSettle_PartialSellKeepsAverageCost(t *testing.T) {
	p := mustSettle(t, newTestPortfolio(10000), buy("AAPL", 10), quotesOf(t, map[string]float64{"AAPL": 150}))
	p = mustSettle(t, p, sell("AAPL", 4), quotesOf(t, map[string]float64{"AAPL": 175}))
	h, _ := p.Holdings().Get("AAPL")
	if !h.Shares.Equal(Q(6)) || !h.AverageCost.Equal(USD(150)) {
		t.Errorf("holding = %v @ %v, want 6 @ 150", h.Shares, h.AverageCost)
	}
	if want := USD(9200); !p.Cash().Equal(want) {
		t.Errorf("cash = %v, want %v", p.Cash(), want)
	}
}

func TestSettle_RoundTripConservesCash(t *testing.T) {
	quotes := quotesOf(t, map[string]float64{"NVDA": 123.45})
	start := newTestPortfolio(5000)
	p := mustSettle(t, start, buy("NVDA", 7), quotes)
	p = mustSettle(t, p, sell("NVDA", 7), quotes)
	if !p.Cash().Equal(start.Cash()) {
		t.Errorf("cash after round trip = %v, want %v", p.Cash(), start.Cash())
	}
	if p.Holdings().Len() != 0 {
		t.Errorf("holdings after round trip = %d, want 0", p.Holdings().Len())
	}
}

func TestSettle_ReplayMatchesIncremental(t *testing.T) {
	p := newTestPortfolio(50000)
	steps := []struct {
		order  Order
		prices map[string]float64
	}{
		{buy("AAPL", 10), map[string]float64{"AAPL": 150}},
		{buy("MSFT", 3), map[string]float64{"MSFT": 310}},
		{buy("AAPL", 5), map[string]float64{"AAPL": 160}},
		{sell("AAPL", 6), map[string]float64{"AAPL": 170}},
		{sell("MSFT", 3), map[string]float64{"MSFT": 300}},
	}
	for _, s := range steps {
		p = mustSettle(t, p, s.order, quotesOf(t, s.prices))
	}
	replayed, err := ReplayHoldings(p.Log().All())
	if err != nil {
		t.Fatalf("ReplayHoldings() error = %v", err)
	}
	if replayed.Len() != p.Holdings().Len() {
		t.Fatalf("replayed %d holdings, want %d", replayed.Len(), p.Holdings().Len())
	}
	for h := range p.Holdings().All() {
		r, ok := replayed.Get(h.Symbol)
		if !ok || !r.Shares.Equal(h.Shares) || !r.AverageCost.Equal(h.AverageCost) {
			t.Errorf("replayed %s = %+v, want %+v", h.Symbol, r, h)
		}
	}
}

// checkBalances fails if cash is negative or a holding has no shares.
func checkBalances(t *testing.T, p *Portfolio) {
	t.Helper()
	if p.Cash().IsNegative() {
		t.Errorf("cash = %v, want non-negative", p.Cash())
	}
	for h := range p.Holdings().All() {
		if !h.Shares.IsPositive() {
			t.Errorf("holding %s has %v shares", h.Symbol, h.Shares)
		}
	}
}

func TestSettle_SequenceKeepsBalances(t *testing.T) {
	quotes := quotesOf(t, map[string]float64{"AAPL": 150, "BTC": 45000, "ETH": 3000})
	steps := []struct {
		order Order
		want  error
	}{
		{buy("AAPL", 10), nil},
		{buy("BTC", 1), ErrInsufficientBalance},
		{buy("ETH", 2), nil},
		{sell("AAPL", 10), nil},
		{sell("AAPL", 1), ErrInsufficientHoldings},
		{buy("ETH", 1.5), ErrInsufficientBalance},
		{buy("ETH", 1), nil},
		{sell("ETH", 3), nil},
		{buy("BTC", 0.2), nil},
		{buy("AAPL", 7), ErrInsufficientBalance},
		{buy("AAPL", 6), nil},
		{sell("BTC", 0.3), ErrInsufficientHoldings},
	}
	p := newTestPortfolio(10000)
	for i, step := range steps {
		next, _, err := Settle(p, step.order, quotes, noon)
		if !errors.Is(err, step.want) {
			t.Fatalf("step %d Settle(%v) error = %v, want %v", i, step.order, err, step.want)
		}
		if err == nil {
			p = next
		}
		checkBalances(t, p)
	}
	if want := USD(100); !p.Cash().Equal(want) {
		t.Errorf("final cash = %v, want %v", p.Cash(), want)
	}
	if got := p.Log().Len(); got != 7 {
		t.Errorf("log length = %d, want 7 accepted trades", got)
	}
	if _, ok := p.Holdings().Get("ETH"); ok {
		t.Error("ETH holding kept after selling every share")
	}
}

func TestSettle_RandomSequenceKeepsBalances(t *testing.T) {
	prices := map[string]float64{"AAPL": 150, "BTC": 45000, "ETH": 3000, "ADA": 2.5}
	quotes := quotesOf(t, prices)
	symbols := []string{"AAPL", "BTC", "ETH", "ADA"}
	r := rand.New(rand.NewPCG(1, 2))

	p := newTestPortfolio(10000)
	for range 500 {
		order := buy(symbols[r.IntN(len(symbols))], float64(r.IntN(40)+1)/4)
		if r.IntN(2) == 0 {
			order.Kind = Sell
		}
		next, _, err := Settle(p, order, quotes, noon)
		switch {
		case err == nil:
			p = next
		case !errors.Is(err, ErrInsufficientBalance) && !errors.Is(err, ErrInsufficientHoldings):
			t.Fatalf("Settle(%v) error = %v", order, err)
		}
		checkBalances(t, p)
	}
}
