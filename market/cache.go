package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/kvstore"
)

const (
	// CacheKey is the store key of the cached equity quotes.
	CacheKey = "STOCK_DATA_CACHE"
	// DefaultUpdateInterval is the age after which cached quotes are refetched.
	DefaultUpdateInterval = 5 * 24 * time.Hour
	// DefaultDailyLimit is the maximum number of fetches per calendar day.
	DefaultDailyLimit = 200
)

// cached is the persisted content of the cache.
type cached struct {
	Data         []fintrack.Quote `json:"data"`
	LastUpdated  time.Time        `json:"lastUpdated"`
	DailyCalls   int              `json:"dailyCalls"`
	LastCallDate date.Date        `json:"lastCallDate"`
}

// Cache serves quotes from a Fetcher through a persisted cache.
//
// Quotes are refetched only once they are older than Interval, and at most
// DailyLimit times per calendar day.
type Cache struct {
	Store      kvstore.Store
	Fetcher    Fetcher
	Symbols    []string      // defaults to TopStocks
	Interval   time.Duration // defaults to DefaultUpdateInterval
	DailyLimit int           // defaults to DefaultDailyLimit
	Now        func() time.Time
}

func (c *Cache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c *Cache) load(ctx context.Context) (*cached, error) {
	raw, ok, err := c.Store.Get(ctx, CacheKey)
	if err != nil || !ok {
		return nil, err
	}
	var data cached
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("corrupt %s: %w", CacheKey, err)
	}
	return &data, nil
}

// Quotes returns the cached quotes, refreshing them when they are stale.
//
// On any failure the previously cached quotes (possibly none) are returned
// along with the error.
func (c *Cache) Quotes(ctx context.Context) ([]fintrack.Quote, error) {
	interval, limit, symbols := c.Interval, c.DailyLimit, c.Symbols
	if interval <= 0 {
		interval = DefaultUpdateInterval
	}
	if limit <= 0 {
		limit = DefaultDailyLimit
	}
	if len(symbols) == 0 {
		symbols = TopStocks
	}

	prev, err := c.load(ctx)
	if err != nil {
		log.Printf("ignoring quote cache: %v", err)
		prev = nil
	}
	var previous []fintrack.Quote
	if prev != nil {
		previous = prev.Data
	}

	now := c.now()
	today := date.Of(now)
	if prev != nil && now.Sub(prev.LastUpdated) <= interval {
		return previous, nil
	}
	calls := 0
	if prev != nil && prev.LastCallDate == today {
		calls = prev.DailyCalls
	}
	if calls >= limit {
		log.Printf("daily limit of %d quote fetches reached, using cached quotes", limit)
		return previous, nil
	}

	quotes, err := c.Fetcher.Quotes(ctx, symbols)
	calls++
	if len(quotes) == 0 {
		if err == nil {
			err = fmt.Errorf("%w: no quote returned", fintrack.ErrFetch)
		}
		c.save(ctx, cached{Data: previous, DailyCalls: calls, LastCallDate: today, LastUpdated: lastUpdated(prev)})
		return previous, err
	}
	if err != nil {
		log.Printf("some quotes could not be fetched: %v", err)
	}
	c.save(ctx, cached{Data: quotes, LastUpdated: now, DailyCalls: calls, LastCallDate: today})
	return quotes, nil
}

func lastUpdated(c *cached) time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.LastUpdated
}

// save persists data. Failures only cost a refetch, they are logged.
func (c *Cache) save(ctx context.Context, data cached) {
	raw, err := json.Marshal(data)
	if err == nil {
		err = c.Store.Set(ctx, CacheKey, string(raw))
	}
	if err != nil {
		log.Printf("cannot save quote cache: %v", err)
	}
}
