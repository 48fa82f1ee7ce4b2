package market

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/etnz/fintrack"
)

// QuoteSource returns a batch of quotes. *Cache implements it.
type QuoteSource interface {
	Quotes(ctx context.Context) ([]fintrack.Quote, error)
}

// Refresher merges the equity quotes and the catalog into a quote store.
//
// Equity quotes always replace the stored ones. Catalog quotes are only used
// for symbols without a quote, or to describe a symbol only known by its
// price.
type Refresher struct {
	Equities QuoteSource // may be nil when no API key is configured
	Currency string
	Now      func() time.Time
}

// Refresh updates quotes. Quotes that could not be fetched keep their
// previous value; the returned error lists the failures.
func (r *Refresher) Refresh(ctx context.Context, quotes *fintrack.QuoteStore) (updated int, err error) {
	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	var batch []fintrack.Quote
	if r.Equities != nil {
		equities, ferr := r.Equities.Quotes(ctx)
		if ferr != nil {
			err = errors.Join(err, fmt.Errorf("equities: %w", ferr))
		}
		batch = append(batch, equities...)
	}
	// catalog prices are fixed, they only seed symbols never quoted. A quote
	// known by its price only gets the catalog instrument data.
	for _, q := range Catalog(r.Currency, now()) {
		prev, ok := quotes.Price(q.Symbol())
		switch {
		case !ok:
			batch = append(batch, q)
		case prev.Instrument.Name == "":
			q.Price, q.AsOf = prev.Price, prev.AsOf
			batch = append(batch, q)
		}
	}

	for _, q := range batch {
		if q.Price.Currency() != r.Currency {
			err = errors.Join(err, fmt.Errorf("%w: %s is quoted in %q", fintrack.ErrValidation, q.Symbol(), q.Price.Currency()))
			continue
		}
		if serr := quotes.Set(q); serr != nil {
			err = errors.Join(err, serr)
			continue
		}
		updated++
	}
	log.Printf("refreshed %d quotes", updated)
	return updated, err
}
