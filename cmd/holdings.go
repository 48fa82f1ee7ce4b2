package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	update bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the holdings valued at the current quotes" }
func (*holdingsCmd) Usage() string {
	return `fin holdings [-u]

  Displays the cash balance, the net worth and every holding with its market
  value, profit and loss, and allocation.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "refresh the quotes before calculating the report")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if c.update {
		if err := s.Refresh(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Error updating quotes: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(renderer.ValuationMarkdown(s.Valuation()))
	return subcommands.ExitSuccess
}
