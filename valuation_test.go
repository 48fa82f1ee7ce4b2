package fintrack

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValuate_Scenario(t *testing.T) {
	p := mustSettle(t, newTestPortfolio(10000), buy("AAPL", 10), quotesOf(t, map[string]float64{"AAPL": 150}))
	p = mustSettle(t, p, buy("AAPL", 5), quotesOf(t, map[string]float64{"AAPL": 160}))

	v := Valuate(p, quotesOf(t, map[string]float64{"AAPL": 200}))
	line, ok := v.Line("AAPL")
	if !ok {
		t.Fatal("no AAPL line")
	}
	if !line.Value.Equal(USD(3000)) {
		t.Errorf("value = %v, want 3000", line.Value)
	}
	if got := line.UnrealizedPnL.Round(2); !got.Equal(USD(700)) {
		t.Errorf("unrealized P&L = %v, want 700.00", got)
	}
	if !line.Quoted {
		t.Error("AAPL should be quoted")
	}
	if !v.NetWorth().Equal(USD(10700)) {
		t.Errorf("net worth = %v, want 10700", v.NetWorth())
	}
	if !line.Allocation.Equal(100) {
		t.Errorf("allocation = %v, want 100%%", line.Allocation)
	}
}

func TestValuate_FallsBackToAverageCost(t *testing.T) {
	p := mustSettle(t, newTestPortfolio(10000), buy("ETH", 2), quotesOf(t, map[string]float64{"ETH": 3000}))
	v := Valuate(p, NewQuoteStore())
	line, _ := v.Line("ETH")
	if line.Quoted {
		t.Error("ETH should not be quoted")
	}
	if !line.Value.Equal(USD(6000)) || !line.UnrealizedPnL.IsZero() {
		t.Errorf("line = %v value %v pnl, want 6000 value and no pnl", line.Value, line.UnrealizedPnL)
	}
}

func TestValuate_AllocationAndOrder(t *testing.T) {
	quotes := quotesOf(t, map[string]float64{"AAPL": 100, "MSFT": 300, "JPM": 100})
	p := newTestPortfolio(100000)
	for _, o := range []Order{buy("AAPL", 10), buy("MSFT", 10), buy("JPM", 10)} {
		p = mustSettle(t, p, o, quotes)
	}
	v := Valuate(p, quotes)

	var symbols []string
	var sum Percent
	for _, l := range v.Lines {
		symbols = append(symbols, l.Symbol)
		sum += l.Allocation
	}
	if diff := cmp.Diff([]string{"MSFT", "AAPL", "JPM"}, symbols); diff != "" {
		t.Errorf("line order mismatch (-want +got):\n%s", diff)
	}
	if !sum.Equal(100) {
		t.Errorf("allocations sum to %v, want 100%%", sum)
	}
	if line, _ := v.Line("MSFT"); !line.Allocation.Equal(60) {
		t.Errorf("MSFT allocation = %v, want 60%%", line.Allocation)
	}
}

func TestValuate_Idempotent(t *testing.T) {
	quotes := quotesOf(t, map[string]float64{"AAPL": 180, "TSLA": 250})
	p := mustSettle(t, newTestPortfolio(10000), buy("AAPL", 3), quotes)
	p = mustSettle(t, p, buy("TSLA", 2), quotes)

	first, second := Valuate(p, quotes), Valuate(p, quotes)
	if !first.NetWorth().Equal(second.NetWorth()) || len(first.Lines) != len(second.Lines) {
		t.Errorf("Valuate() is not idempotent: %v then %v", first.NetWorth(), second.NetWorth())
	}
	if !first.NetWorth().Equal(USD(10000)) {
		t.Errorf("net worth right after buying at quote = %v, want 10000", first.NetWorth())
	}
}

func TestValuate_Empty(t *testing.T) {
	v := Valuate(newTestPortfolio(10000), NewQuoteStore())
	if len(v.Lines) != 0 || !v.Total.IsZero() || v.PnLPercent() != 0 {
		t.Errorf("Valuate(empty) = %+v", v)
	}
}
