package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/market"
	"github.com/google/subcommands"
)

type streamCmd struct {
	url      string
	duration time.Duration
}

func (*streamCmd) Name() string     { return "stream" }
func (*streamCmd) Synopsis() string { return "follow live cryptocurrency prices" }
func (*streamCmd) Usage() string {
	return `fin stream [-d <duration>]

  Receives live trades of BTC, ETH and ADA from Binance and updates their
  quotes, until interrupted or for the given duration. The last prices are
  saved on exit.
`
}

func (c *streamCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.url, "url", market.DefaultStreamURL, "Binance combined stream endpoint")
	f.DurationVar(&c.duration, "d", 0, "Stop after this duration, run until interrupted by default")
}

// tickerPrinter prints every price it records.
type tickerPrinter struct {
	quotes *fintrack.QuoteStore
}

func (p tickerPrinter) SetInstrumentPrice(in fintrack.Instrument, price fintrack.Money, asOf time.Time) error {
	if err := p.quotes.SetInstrumentPrice(in, price, asOf); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %s %s\n", asOf.Format(time.TimeOnly), in.Symbol, price)
	return nil
}

func (c *streamCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if c.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.duration)
		defer cancel()
	}

	stream := &market.Stream{URL: c.url, Pairs: market.DefaultPairs, Currency: s.Config.Currency}
	err = stream.Run(ctx, tickerPrinter{s.Quotes})
	if !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		fmt.Fprintf(os.Stderr, "Stream failed: %v\n", err)
		return subcommands.ExitFailure
	}

	if err := s.Save(context.WithoutCancel(ctx)); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
