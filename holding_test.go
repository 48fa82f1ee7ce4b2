package fintrack

import (
	"encoding/json"
	"errors"
	"slices"
	"testing"
)

func TestHoldings_ApplyBuy(t *testing.T) {
	h := NewHoldings()
	if err := h.ApplyBuy("AAPL", Q(10), USD(150)); err != nil {
		t.Fatal(err)
	}
	if err := h.ApplyBuy("AAPL", Q(10), USD(170)); err != nil {
		t.Fatal(err)
	}
	got, _ := h.Get("AAPL")
	if !got.AverageCost.Equal(USD(160)) {
		t.Errorf("AverageCost = %v, want 160", got.AverageCost)
	}
	if !got.CostBasis().Equal(USD(3200)) {
		t.Errorf("CostBasis() = %v, want 3200", got.CostBasis())
	}
}

func TestHoldings_ApplySell(t *testing.T) {
	tests := []struct {
		name       string
		held, sell float64
		wantErr    error
		wantShares float64 // 0 means the position is gone
	}{
		{"partial", 10, 4, nil, 6},
		{"all", 10, 10, nil, 0},
		{"too many", 10, 10.5, ErrInsufficientHoldings, 10},
		{"zero", 10, 0, ErrValidation, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHoldings()
			if err := h.ApplyBuy("AAPL", Q(tt.held), USD(100)); err != nil {
				t.Fatal(err)
			}
			err := h.ApplySell("AAPL", Q(tt.sell), USD(120))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ApplySell() error = %v, want %v", err, tt.wantErr)
			}
			got, ok := h.Get("AAPL")
			if tt.wantShares == 0 {
				if ok {
					t.Errorf("position still open with %v shares", got.Shares)
				}
				return
			}
			if !got.Shares.Equal(Q(tt.wantShares)) {
				t.Errorf("shares = %v, want %v", got.Shares, tt.wantShares)
			}
		})
	}
}

func TestHoldings_SellUnknown(t *testing.T) {
	h := NewHoldings()
	if err := h.ApplySell("TSLA", Q(1), USD(200)); !errors.Is(err, ErrInsufficientHoldings) {
		t.Errorf("ApplySell() error = %v, want %v", err, ErrInsufficientHoldings)
	}
}

func TestHoldings_AllIsSorted(t *testing.T) {
	h := NewHoldings()
	for _, s := range []string{"MSFT", "AAPL", "JPM"} {
		if err := h.ApplyBuy(s, Q(1), USD(10)); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for x := range h.All() {
		got = append(got, x.Symbol)
	}
	if want := []string{"AAPL", "JPM", "MSFT"}; !slices.Equal(got, want) {
		t.Errorf("All() = %v, want %v", got, want)
	}
}

func TestHoldings_JSON(t *testing.T) {
	h := NewHoldings()
	if err := h.ApplyBuy("AAPL", Q(15), USD(153.5)); err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(h)
	if err != nil {
		t.Fatal(err)
	}
	var back Holdings
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal(%s) error = %v", data, err)
	}
	got, ok := back.Get("AAPL")
	if !ok || !got.Shares.Equal(Q(15)) || !got.AverageCost.Equal(USD(153.5)) {
		t.Errorf("decoded %s into %+v", data, got)
	}
}
