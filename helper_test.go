package fintrack

import (
	"testing"
	"time"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// EUR is a helper for test to create euro money from const
func EUR(v float64) Money { return M(v, "EUR") }

var noon = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

// newTestPortfolio returns a USD portfolio seeded with cash.
func newTestPortfolio(cash float64) *Portfolio {
	cfg := DefaultConfig()
	cfg.SeedCash = USD(cash).Decimal()
	return NewPortfolio(cfg)
}

// quotesOf returns a store with the given USD prices.
func quotesOf(t *testing.T, prices map[string]float64) *QuoteStore {
	t.Helper()
	s := NewQuoteStore()
	for symbol, price := range prices {
		if err := s.SetPrice(symbol, USD(price), noon); err != nil {
			t.Fatalf("SetPrice(%s) error = %v", symbol, err)
		}
	}
	return s
}

// mustSettle settles order or fails the test.
func mustSettle(t *testing.T, p *Portfolio, order Order, quotes QuoteReader) *Portfolio {
	t.Helper()
	next, _, err := Settle(p, order, quotes, noon)
	if err != nil {
		t.Fatalf("Settle(%v) error = %v", order, err)
	}
	return next
}

func buy(symbol string, qty float64) Order { return Order{Symbol: symbol, Kind: Buy, Quantity: Q(qty)} }
func sell(symbol string, qty float64) Order {
	return Order{Symbol: symbol, Kind: Sell, Quantity: Q(qty)}
}
