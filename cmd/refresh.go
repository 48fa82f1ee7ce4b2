package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string { return "refresh" }
func (*refreshCmd) Synopsis() string {
	return "update the quotes from financialmodelingprep.com and the catalog"
}
func (*refreshCmd) Usage() string {
	return `fin refresh

  Updates the stock quotes, at most once every few days, and adds the bonds,
  mutual funds and cryptocurrencies of the catalog. Quotes that cannot be
  fetched keep their previous value.
`
}
func (c *refreshCmd) SetFlags(f *flag.FlagSet) {}

func (c *refreshCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "no arguments expected")
		return subcommands.ExitUsageError
	}
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if err := s.Refresh(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to refresh quotes: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "%d instruments quoted, net worth %s\n", s.Quotes.Len(), s.Valuation().NetWorth())
	return subcommands.ExitSuccess
}
