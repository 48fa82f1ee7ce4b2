package market

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fintrack"
	"golang.org/x/sync/errgroup"
)

// DefaultFMPBaseURL is the Financial Modeling Prep API root.
const DefaultFMPBaseURL = "https://financialmodelingprep.com"

// TopStocks are the equities quoted by default.
var TopStocks = []string{"AAPL", "MSFT", "AMZN", "GOOGL", "FB", "TSLA", "NVDA", "JPM", "JNJ", "V"}

// Fetcher returns the current quotes of symbols.
//
// It may return some quotes together with an error when only part of the
// symbols failed.
type Fetcher interface {
	Quotes(ctx context.Context, symbols []string) ([]fintrack.Quote, error)
}

// FMP fetches equity quotes from Financial Modeling Prep.
type FMP struct {
	BaseURL  string // defaults to DefaultFMPBaseURL
	APIKey   string
	Currency string // currency of the returned prices, defaults to USD
	Client   *http.Client
	Now      func() time.Time
}

// Quote returns the quote of symbol, or false if the service does not know it.
func (f *FMP) Quote(ctx context.Context, symbol string) (fintrack.Quote, bool, error) {
	base := f.BaseURL
	if base == "" {
		base = DefaultFMPBaseURL
	}
	addr := fmt.Sprintf("%s/api/v3/quote/%s?apikey=%s", base, url.PathEscape(symbol), url.QueryEscape(f.APIKey))

	var jobj any
	if err := getJSON(ctx, f.Client, addr, &jobj); err != nil {
		return fintrack.Quote{}, false, fmt.Errorf("error fetching %q: %w", symbol, err)
	}
	if list, ok := jobj.([]any); !ok || len(list) == 0 {
		return fintrack.Quote{}, false, nil
	}

	get := func(path string) any {
		v, err := jsonpath.Get(path, jobj)
		if err != nil {
			return nil
		}
		return v
	}
	price, ok := get("$[0].price").(float64)
	if !ok || price <= 0 {
		return fintrack.Quote{}, false, fmt.Errorf("%w: no price for %q", fintrack.ErrFetch, symbol)
	}
	sym, _ := get("$[0].symbol").(string)
	if sym == "" {
		sym = symbol
	}
	name, _ := get("$[0].name").(string)
	change, _ := get("$[0].changesPercentage").(float64)

	cur := f.Currency
	if cur == "" {
		cur = "USD"
	}
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return fintrack.Quote{
		Instrument: fintrack.NewInstrument(sym, name, fintrack.EquityDetails{ChangePercent: change}),
		Price:      fintrack.M(price, cur),
		AsOf:       now(),
	}, true, nil
}

// Quotes fetches every symbol concurrently. Unknown symbols are skipped,
// failed ones are reported in the joined error.
func (f *FMP) Quotes(ctx context.Context, symbols []string) ([]fintrack.Quote, error) {
	quotes := make([]*fintrack.Quote, len(symbols))
	var (
		mu   sync.Mutex
		errs error
	)
	var g errgroup.Group
	g.SetLimit(4)
	for i, symbol := range symbols {
		g.Go(func() error {
			q, ok, err := f.Quote(ctx, symbol)
			if err != nil {
				mu.Lock()
				errs = errors.Join(errs, err)
				mu.Unlock()
				return nil
			}
			if ok {
				quotes[i] = &q
			}
			return nil
		})
	}
	g.Wait()

	var list []fintrack.Quote
	for _, q := range quotes {
		if q != nil {
			list = append(list, *q)
		}
	}
	return list, errs
}
