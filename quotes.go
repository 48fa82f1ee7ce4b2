package fintrack

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
	"sync"
	"time"
)

// Quote is the latest known price of an instrument.
type Quote struct {
	Instrument Instrument
	Price      Money
	AsOf       time.Time
}

// Symbol returns the symbol of the quoted instrument.
func (q Quote) Symbol() string { return q.Instrument.Symbol }

func (q Quote) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(q.Instrument)
	w.Append("price", q.Price)
	if !q.AsOf.IsZero() {
		w.Append("asOf", q.AsOf)
	}
	return w.MarshalJSON()
}

func (q *Quote) UnmarshalJSON(data []byte) error {
	var temp struct {
		Price Money     `json:"price"`
		AsOf  time.Time `json:"asOf"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &q.Instrument); err != nil {
		return err
	}
	q.Price, q.AsOf = temp.Price, temp.AsOf
	return nil
}

// QuoteReader is the read path of quotes used by valuation and settlement.
type QuoteReader interface {
	// Price returns the latest quote for symbol, or false if it has never been quoted.
	Price(symbol string) (Quote, bool)
}

// QuoteStore holds the latest quote per symbol.
//
// Each symbol is an independent cell: setting a quote replaces the previous
// one for that symbol and never merges. The store may be refreshed
// concurrently with readers.
type QuoteStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

// NewQuoteStore returns an empty store.
func NewQuoteStore() *QuoteStore {
	return &QuoteStore{quotes: make(map[string]Quote)}
}

// Price implements QuoteReader.
func (s *QuoteStore) Price(symbol string) (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	return q, ok
}

// Set replaces the quote of q's symbol.
func (s *QuoteStore) Set(q Quote) error {
	if q.Symbol() == "" {
		return fmt.Errorf("%w: quote symbol is missing", ErrValidation)
	}
	if !q.Price.IsPositive() {
		return fmt.Errorf("%w: quote price for %s must be positive, got %s", ErrValidation, q.Symbol(), q.Price.Decimal())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Symbol()] = q
	return nil
}

// SetPrice updates only the price of an already known symbol, keeping its
// instrument data. Unknown symbols are created as equities.
func (s *QuoteStore) SetPrice(symbol string, price Money, asOf time.Time) error {
	return s.SetInstrumentPrice(NewInstrument(symbol, "", nil), price, asOf)
}

// SetInstrumentPrice updates the price of in's symbol. The stored instrument
// data is kept when the symbol is known, otherwise in is recorded with the
// price.
func (s *QuoteStore) SetInstrumentPrice(in Instrument, price Money, asOf time.Time) error {
	q := Quote{Instrument: in, Price: price, AsOf: asOf}
	if q.Symbol() == "" {
		return fmt.Errorf("%w: quote symbol is missing", ErrValidation)
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: quote price for %s must be positive, got %s", ErrValidation, q.Symbol(), price.Decimal())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.quotes[q.Symbol()]; ok {
		q.Instrument = prev.Instrument
	}
	s.quotes[q.Symbol()] = q
	return nil
}

// Len returns the number of quoted symbols.
func (s *QuoteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.quotes)
}

// Quotes iterates over a snapshot of all quotes in symbol order.
func (s *QuoteStore) Quotes() iter.Seq[Quote] {
	s.mu.RLock()
	snapshot := maps.Clone(s.quotes)
	s.mu.RUnlock()
	return func(yield func(Quote) bool) {
		for _, symbol := range slices.Sorted(maps.Keys(snapshot)) {
			if !yield(snapshot[symbol]) {
				return
			}
		}
	}
}

// Symbols iterates over the quoted symbols in order.
func (s *QuoteStore) Symbols() iter.Seq[string] {
	return func(yield func(string) bool) {
		for q := range s.Quotes() {
			if !yield(q.Symbol()) {
				return
			}
		}
	}
}

// Instruments iterates over the quoted instruments in symbol order.
func (s *QuoteStore) Instruments() iter.Seq[Instrument] {
	return func(yield func(Instrument) bool) {
		for q := range s.Quotes() {
			if !yield(q.Instrument) {
				return
			}
		}
	}
}

// ByClass returns a predicate to filter quotes on their asset class.
func ByClass(c AssetClass) func(Quote) bool {
	return func(q Quote) bool { return q.Instrument.Class() == c }
}

// MarshalJSON encodes the store as a list of quotes.
func (s *QuoteStore) MarshalJSON() ([]byte, error) {
	return json.Marshal(slices.Collect(s.Quotes()))
}

// UnmarshalJSON replaces the store content. Invalid quotes are rejected.
func (s *QuoteStore) UnmarshalJSON(data []byte) error {
	var list []Quote
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	quotes := make(map[string]Quote, len(list))
	for _, q := range list {
		if q.Symbol() == "" || !q.Price.IsPositive() {
			return fmt.Errorf("invalid quote %q with price %s", q.Symbol(), q.Price.Decimal())
		}
		quotes[q.Symbol()] = q
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes = quotes
	return nil
}
