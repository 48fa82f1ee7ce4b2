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

type logCmd struct {
	count  int
	symbol string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "list the most recent trades" }
func (*logCmd) Usage() string {
	return `fin log [-n <count>] [-s <symbol>]

  Lists the most recent trades, newest first.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.count, "n", fintrack.DefaultFeedSize, "Number of trades to show.")
	f.StringVar(&c.symbol, "s", "", "Show only the trades of this symbol.")
}

func (c *logCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.count <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be positive")
		return subcommands.ExitUsageError
	}
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	trades := s.Portfolio.Log()
	if c.symbol != "" {
		var filtered fintrack.TradeLog
		for tx := range trades.Filter(fintrack.BySymbol(strings.ToUpper(c.symbol))) {
			filtered.Append(tx)
		}
		trades = filtered
	}
	printMarkdown(renderer.FeedMarkdown(trades, c.count))
	return subcommands.ExitSuccess
}
