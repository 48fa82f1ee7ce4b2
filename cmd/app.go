// Package cmd implements the fin CLI application to track a portfolio, a
// budget and a cash flow.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/kvstore"
	"github.com/etnz/fintrack/market"
	"github.com/etnz/fintrack/session"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	c.Register(&topicCmd{}, "")

	c.Register(&buyCmd{}, "portfolio")
	c.Register(&sellCmd{}, "portfolio")
	c.Register(&holdingsCmd{}, "portfolio")
	c.Register(&logCmd{}, "portfolio")
	c.Register(&historyCmd{}, "portfolio")

	c.Register(&quoteCmd{}, "market")
	c.Register(&refreshCmd{}, "market")
	c.Register(&streamCmd{}, "market")
	c.Register(&newsCmd{}, "market")

	c.Register(&bucketCmd{}, "budget")
	c.Register(&entryCmd{}, "budget")
	c.Register(&summaryCmd{}, "budget")

	c.Register(&assistCmd{}, "assistant")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	storeDSN   = flag.String("store", envOr(EnvStore, "file:.fin"), "Where the state is stored: mem:, file:<dir>, sqlite:<file> or postgres://...\n If missing it will read the environment variable \""+EnvStore+"\".")
	currency   = flag.String("currency", envOr(EnvCurrency, "USD"), "Currency of the cash balance and quotes.\n If missing it will read the environment variable \""+EnvCurrency+"\".")
	seedCash   = flag.String("seed-cash", envOr(EnvSeedCash, ""), "Initial cash balance of a new portfolio, 10000 by default.\n If missing it will read the environment variable \""+EnvSeedCash+"\".")
	fmpAPIKey  = flag.String("fmp-api-key", envOr(EnvFMPAPIKey, ""), "financialmodelingprep.com API key used to quote stocks.\n If missing it will read the environment variable \""+EnvFMPAPIKey+"\".")
	newsAPIKey = flag.String("news-api-key", envOr(EnvNewsAPIKey, ""), "newsapi.org API key used to get business headlines.\n If missing it will read the environment variable \""+EnvNewsAPIKey+"\".")
	plain      = flag.Bool("plain", false, "print raw markdown instead of rendering it for the terminal")

	// Verbose enables the logs.
	Verbose = flag.Bool("v", false, "verbose logging")
)

// out is where commands print their results.
var out io.Writer = os.Stdout

func envOr(name, def string) string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return v
	}
	return def
}

// Config returns the tracker configuration from the global flags.
func Config() (fintrack.Config, error) {
	cfg := fintrack.DefaultConfig()
	cfg.Currency = *currency
	if *seedCash != "" {
		v, err := decimal.NewFromString(*seedCash)
		if err != nil {
			return cfg, fmt.Errorf("invalid seed cash %q: %w", *seedCash, err)
		}
		cfg.SeedCash = v
	}
	return cfg, cfg.Validate()
}

// OpenSession loads the session from the configured store. release must be
// called once the session is no longer used.
func OpenSession(ctx context.Context) (s *session.Session, release func(), err error) {
	cfg, err := Config()
	if err != nil {
		return nil, nil, err
	}
	store, err := kvstore.Open(ctx, *storeDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open store: %w", err)
	}

	var equities market.QuoteSource
	if *fmpAPIKey != "" {
		equities = &market.Cache{
			Store:   store,
			Fetcher: &market.FMP{APIKey: *fmpAPIKey, Currency: cfg.Currency},
		}
	} else {
		log.Printf("no %s, stocks will not be quoted", EnvFMPAPIKey)
	}
	refresher := &market.Refresher{Equities: equities, Currency: cfg.Currency}

	s, err = session.Load(ctx, store, cfg, session.WithRefresher(refresher))
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	return s, func() {
		if err := store.Close(); err != nil {
			log.Printf("cannot close store: %v", err)
		}
	}, nil
}

// printMarkdown prints md rendered for the terminal, or as is with -plain.
func printMarkdown(md string) {
	if !*plain {
		rendered, err := renderMarkdown(md)
		if err == nil {
			fmt.Fprint(out, rendered)
			return
		}
		log.Printf("cannot render markdown: %v", err)
	}
	fmt.Fprintln(out, md)
}

func renderMarkdown(md string) (string, error) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
