// Package session owns the state of one user: the portfolio, the quotes and
// the budgets, loaded from and saved to a kvstore.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/kvstore"
	"github.com/etnz/fintrack/market"
)

// Store keys.
const (
	KeyPortfolio    = "portfolio"
	KeyTrades       = "trades"
	KeyTransactions = "transactions" // cash-flow entries
	KeyBuckets      = "buckets"
	KeyPerformance  = "performance"
	KeyQuotes       = "quotes"
)

// Session is the loaded state of a tracker.
//
// A Session is not safe for concurrent use, except for its Quotes that can be
// refreshed or streamed while the session is used.
type Session struct {
	Config      fintrack.Config
	Portfolio   *fintrack.Portfolio
	Quotes      *fintrack.QuoteStore
	Buckets     *fintrack.Buckets
	CashFlow    *fintrack.CashFlow
	Performance *fintrack.Performance

	store     kvstore.Store
	refresher *market.Refresher
	now       func() time.Time
}

// Option customizes a Session.
type Option func(*Session)

// WithRefresher sets the refresher used by Refresh.
func WithRefresher(r *market.Refresher) Option { return func(s *Session) { s.refresher = r } }

// WithClock sets the clock used to timestamp trades and performance points.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// Load reads the state from store. Missing or corrupt keys are replaced by
// their default value and reported in the log. Only an invalid cfg is an
// error.
func Load(ctx context.Context, store kvstore.Store, cfg fintrack.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		Config:      cfg,
		Portfolio:   fintrack.NewPortfolio(cfg),
		Quotes:      fintrack.NewQuoteStore(),
		Buckets:     fintrack.DefaultBuckets(cfg.Currency),
		CashFlow:    fintrack.NewCashFlow(cfg.Currency),
		Performance: new(fintrack.Performance),
		store:       store,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	var (
		saved  fintrack.Portfolio
		trades fintrack.TradeLog
	)
	hasSaved := s.decode(ctx, KeyPortfolio, &saved)
	hasTrades := s.decode(ctx, KeyTrades, &trades)
	switch {
	case hasSaved:
		p, err := fintrack.RestorePortfolio(saved.Cash(), saved.Holdings(), trades)
		if err != nil {
			log.Printf("warning, invalid %s, starting a new portfolio: %v", KeyPortfolio, err)
			break
		}
		if p.Currency() != cfg.Currency {
			log.Printf("warning, %s is in %s, not %s, starting a new portfolio", KeyPortfolio, p.Currency(), cfg.Currency)
			break
		}
		s.Portfolio = p
	case hasTrades:
		log.Printf("warning, %s has trades but no %s, starting a new portfolio", KeyTrades, KeyPortfolio)
	}

	if !s.decode(ctx, KeyBuckets, s.Buckets) || !s.sameCurrency(KeyBuckets, s.Buckets.Currency()) {
		s.Buckets = fintrack.DefaultBuckets(cfg.Currency)
	}
	if !s.decode(ctx, KeyTransactions, s.CashFlow) || !s.sameCurrency(KeyTransactions, s.CashFlow.Currency()) {
		s.CashFlow = fintrack.NewCashFlow(cfg.Currency)
	}
	if !s.decode(ctx, KeyPerformance, s.Performance) {
		s.Performance = new(fintrack.Performance)
	}
	if !s.decode(ctx, KeyQuotes, s.Quotes) {
		s.Quotes = fintrack.NewQuoteStore()
	}
	return s, nil
}

// sameCurrency reports whether the data stored under key is in the
// configured currency.
func (s *Session) sameCurrency(key, currency string) bool {
	if currency != s.Config.Currency {
		log.Printf("warning, %s is in %s, not %s, using defaults", key, currency, s.Config.Currency)
		return false
	}
	return true
}

// decode reads key into v. It returns false if the key is missing or could
// not be decoded.
func (s *Session) decode(ctx context.Context, key string, v any) bool {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("warning, cannot read %s: %v", key, err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		log.Printf("warning, corrupt %s, using defaults: %v", key, err)
		return false
	}
	return true
}

// Save writes the whole state. Failures are logged and the state is kept in
// memory; the returned error matches fintrack.ErrPersistence.
func (s *Session) Save(ctx context.Context) error {
	var errs error
	for key, v := range map[string]any{
		KeyPortfolio:    s.Portfolio,
		KeyTrades:       s.Portfolio.Log(),
		KeyTransactions: s.CashFlow,
		KeyBuckets:      s.Buckets,
		KeyPerformance:  s.Performance,
		KeyQuotes:       s.Quotes,
	} {
		errs = errors.Join(errs, s.put(ctx, key, v))
	}
	return errs
}

func (s *Session) put(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err == nil {
		err = s.store.Set(ctx, key, string(raw))
	}
	if err != nil {
		log.Printf("cannot save %s (kept in memory): %v", key, err)
		return fmt.Errorf("%w: %s: %w", fintrack.ErrPersistence, key, err)
	}
	return nil
}

// Valuation values the portfolio at the current quotes.
func (s *Session) Valuation() fintrack.Valuation {
	return fintrack.Valuate(s.Portfolio, s.Quotes)
}

// Trade settles order at the current quote. On success the new portfolio
// replaces the current one, today's performance point is recorded and the
// state is saved. Rejections leave the session untouched.
//
// A save failure does not fail the trade: it is logged and the settled state
// is kept in memory.
func (s *Session) Trade(ctx context.Context, order fintrack.Order) (fintrack.Receipt, error) {
	now := s.now()
	next, receipt, err := fintrack.Settle(s.Portfolio, order, s.Quotes, now)
	if err != nil {
		return receipt, err
	}
	s.Portfolio = next
	s.Performance.Record(date.Of(now), s.Valuation())
	s.Save(ctx)
	return receipt, nil
}

// Refresh updates the quotes and records today's performance point. Fetch
// failures are logged and leave stale quotes in place.
func (s *Session) Refresh(ctx context.Context) error {
	if s.refresher == nil {
		return errors.New("no market data source configured")
	}
	if _, err := s.refresher.Refresh(ctx, s.Quotes); err != nil {
		log.Printf("some quotes are stale: %v", err)
	}
	s.Performance.Record(date.Of(s.now()), s.Valuation())
	s.Save(ctx)
	return nil
}
