package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	days int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the net worth of the last days" }
func (*historyCmd) Usage() string {
	return `fin history [-n <days>]

  Displays the net worth recorded on the last days the portfolio was traded
  or refreshed.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "n", fintrack.DefaultPerformanceDays, "Number of days to show.")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.days <= 0 {
		fmt.Fprintln(os.Stderr, "Error: -n must be positive")
		return subcommands.ExitUsageError
	}
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.PerformanceMarkdown(s.Performance.Last(c.days)))
	return subcommands.ExitSuccess
}
