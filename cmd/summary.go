package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

// summaryCmd holds the flags for the 'summary' subcommand.
type summaryCmd struct {
	date     string
	top      int
	update   bool
	holdings bool
	cashflow bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the dashboard of your finances" }
func (*summaryCmd) Usage() string {
	return `fin summary [-d <date>] [-top <n>] [-u]

  Displays the net worth and its recent change, the top holdings and the
  cash flow of the month.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Any date in the month of the cash flow (YYYY-MM-DD)")
	f.IntVar(&c.top, "top", 5, "Number of holdings to show, all if 0")
	f.BoolVar(&c.update, "u", false, "refresh the quotes first")
	f.BoolVar(&c.holdings, "holdings", true, "show the holdings section")
	f.BoolVar(&c.cashflow, "cashflow", true, "show the cash flow section")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

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

	change, pct := s.Performance.Change(fintrack.DefaultPerformanceDays)
	d := &renderer.Dashboard{
		AsOf:        time.Now(),
		Valuation:   s.Valuation(),
		CashFlow:    s.CashFlow.Summary(date.NewRange(on, date.Monthly)),
		Change:      change,
		ChangePct:   pct,
		Days:        fintrack.DefaultPerformanceDays,
		TopHoldings: c.top,
	}
	printMarkdown(renderer.RenderDashboard(d, renderer.DashboardOptions{
		SkipHoldings: !c.holdings,
		SkipCashFlow: !c.cashflow,
	}))
	return subcommands.ExitSuccess
}
