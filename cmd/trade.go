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

// trade settles order in the session and prints the outcome.
func trade(ctx context.Context, order fintrack.Order) subcommands.ExitStatus {
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	if order.Kind == fintrack.Sell && order.Quantity.IsZero() {
		h, ok := s.Portfolio.Holdings().Get(order.Symbol)
		if !ok {
			fmt.Fprintln(os.Stderr, renderer.TradeErrorText(fintrack.ErrInsufficientHoldings))
			return subcommands.ExitFailure
		}
		order.Quantity = h.Shares
	}

	receipt, err := s.Trade(ctx, order)
	if err != nil {
		fmt.Fprintln(os.Stderr, renderer.TradeErrorText(err))
		return subcommands.ExitFailure
	}
	fmt.Fprintln(out, renderer.ReceiptText(receipt))
	fmt.Fprintf(out, "Cash balance: %s\n", s.Portfolio.Cash())
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct {
	symbol   string
	quantity string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy an instrument at its current quote" }
func (*buyCmd) Usage() string {
	return `fin buy -s <symbol> -q <quantity>

  Buys a quantity of an instrument at its current quote. The cost is debited
  from the cash balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the instrument")
	f.StringVar(&c.quantity, "q", "", "Quantity to buy")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.quantity == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	q, err := fintrack.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	return trade(ctx, fintrack.Order{Symbol: strings.ToUpper(c.symbol), Kind: fintrack.Buy, Quantity: q})
}

// --- Sell Command ---

type sellCmd struct {
	symbol   string
	quantity string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell an instrument at its current quote" }
func (*sellCmd) Usage() string {
	return `fin sell -s <symbol> [-q <quantity>]

  Sells a quantity of an instrument at its current quote. The proceeds are
  credited to the cash balance.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Symbol of the instrument")
	f.StringVar(&c.quantity, "q", "", "Quantity to sell, if missing the whole holding is sold")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	var q fintrack.Quantity
	if c.quantity != "" {
		var err error
		if q, err = fintrack.ParseQuantity(c.quantity); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing quantity: %v\n", err)
			return subcommands.ExitUsageError
		}
		if q.IsZero() {
			fmt.Fprintln(os.Stderr, "Error: quantity must be positive")
			return subcommands.ExitUsageError
		}
	}
	return trade(ctx, fintrack.Order{Symbol: strings.ToUpper(c.symbol), Kind: fintrack.Sell, Quantity: q})
}
