package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	class  string
	update bool
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display the quotes of the tradable instruments" }
func (*quoteCmd) Usage() string {
	return `fin quote [-c <class>] [-u] [<symbol>...]

  Displays the known quotes, grouped by asset class. Symbols restrict the
  list to these instruments.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.class, "c", "", "Asset class to display: stock, bond, fund or crypto. All by default.")
	f.BoolVar(&c.update, "u", false, "refresh the quotes first")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var classes []fintrack.AssetClass
	if c.class != "" {
		class, err := fintrack.ParseAssetClass(c.class)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		classes = append(classes, class)
	}

	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if c.update || s.Quotes.Len() == 0 {
		if err := s.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating quotes: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	quotes := s.Quotes
	if f.NArg() > 0 {
		quotes = fintrack.NewQuoteStore()
		for _, symbol := range f.Args() {
			q, ok := s.Quotes.Price(strings.ToUpper(symbol))
			if !ok {
				fmt.Fprintf(os.Stderr, "Warning: no quote for %s\n", symbol)
				continue
			}
			quotes.Set(q)
		}
	}
	printMarkdown(renderer.QuotesMarkdown(quotes, classes...))
	return subcommands.ExitSuccess
}
