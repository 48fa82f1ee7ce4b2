package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/date"
	"github.com/etnz/fintrack/renderer"
	"github.com/etnz/fintrack/session"
	"github.com/google/subcommands"
)

// entryCmd is the top-level command for the cash-flow entries.
type entryCmd struct{}

func (*entryCmd) Name() string     { return "entry" }
func (*entryCmd) Synopsis() string { return "log income and expenses" }
func (*entryCmd) Usage() string {
	return `entry <subcommand> <options>

  Manage the income and expense entries of the cash flow. An entry is
  designated by its id, or any unambiguous prefix of it.
`
}
func (c *entryCmd) SetFlags(f *flag.FlagSet) {}

func (c *entryCmd) subcommands() []subcommands.Command {
	return []subcommands.Command{&entryAddCmd{}, &entryEditCmd{}, &entryDeleteCmd{}, &entryListCmd{}}
}

func (c *entryCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "entry")
	for _, sub := range c.subcommands() {
		commander.Register(sub, "")
	}
	return commander.Execute(ctx, args...)
}

// entryFlags are the fields of an entry as flags.
type entryFlags struct {
	kind   string
	source string
	amount string
	label  string
	date   string
}

func (e *entryFlags) SetFlags(f *flag.FlagSet, kind string) {
	f.StringVar(&e.kind, "k", kind, "Kind of entry: income or expense")
	f.StringVar(&e.source, "s", "", "Source of an income: fixed or variable")
	f.StringVar(&e.amount, "a", "", "Amount")
	f.StringVar(&e.label, "l", "", "Label, like Rent, Groceries or Salary")
	f.StringVar(&e.date, "d", "", "Date (YYYY-MM-DD), today by default")
}

// apply overwrites the fields of e that were set.
func (e *entryFlags) apply(x fintrack.Entry, currency string) (fintrack.Entry, error) {
	var err error
	if e.kind != "" {
		if x.Kind, err = fintrack.ParseEntryKind(e.kind); err != nil {
			return x, err
		}
	}
	if e.source != "" {
		if x.Source, err = fintrack.ParseSource(e.source); err != nil {
			return x, err
		}
	}
	if x.Kind == fintrack.Expense {
		x.Source = ""
	}
	if e.amount != "" {
		if x.Amount, err = fintrack.ParseMoney(e.amount, currency); err != nil {
			return x, err
		}
	}
	if e.label != "" {
		x.Label = e.label
	}
	if e.date != "" {
		if x.Date, err = date.Parse(e.date); err != nil {
			return x, err
		}
	}
	return x, nil
}

// editCashFlow loads the session, applies edit to its cash flow and saves it.
func editCashFlow(ctx context.Context, edit func(s *session.Session) (fintrack.Entry, error)) subcommands.ExitStatus {
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	x, err := edit(s)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := s.Save(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving entries: %v\n", err)
		return subcommands.ExitFailure
	}
	if x.ID != "" {
		fmt.Fprintf(out, "%s %s %q %s on %s\n", x.ID, x.Kind, x.Label, x.Amount, x.Date)
	}
	return subcommands.ExitSuccess
}

func entryIDs(c *fintrack.CashFlow) func(yield func(string) bool) {
	return func(yield func(string) bool) {
		for e := range c.Entries() {
			if !yield(e.ID) {
				return
			}
		}
	}
}

// --- entry add ---

type entryAddCmd struct {
	entryFlags
}

func (*entryAddCmd) Name() string     { return "add" }
func (*entryAddCmd) Synopsis() string { return "log an income or an expense" }
func (*entryAddCmd) Usage() string {
	return `fin entry add -k <kind> [-s <source>] -a <amount> -l <label> [-d <date>]

  Logs an income or an expense. An income needs a source, fixed for
  recurring income and variable otherwise.
`
}

func (c *entryAddCmd) SetFlags(f *flag.FlagSet) { c.entryFlags.SetFlags(f, string(fintrack.Expense)) }

func (c *entryAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	if c.label == "" {
		kind, _ := fintrack.ParseEntryKind(c.kind)
		source, _ := fintrack.ParseSource(c.source)
		fmt.Fprintf(os.Stderr, "Error: a label is required, for instance: %s\n", strings.Join(fintrack.SuggestedLabels(kind, source), ", "))
		return subcommands.ExitUsageError
	}
	return editCashFlow(ctx, func(s *session.Session) (fintrack.Entry, error) {
		x, err := c.apply(fintrack.Entry{}, s.Config.Currency)
		if err != nil {
			return x, err
		}
		return s.CashFlow.Add(x)
	})
}

// --- entry edit ---

type entryEditCmd struct {
	entryFlags
}

func (*entryEditCmd) Name() string     { return "edit" }
func (*entryEditCmd) Synopsis() string { return "change an entry" }
func (*entryEditCmd) Usage() string {
	return `fin entry edit [-k <kind>] [-s <source>] [-a <amount>] [-l <label>] [-d <date>] <id>

  Changes the fields of an entry that are given.
`
}

func (c *entryEditCmd) SetFlags(f *flag.FlagSet) { c.entryFlags.SetFlags(f, "") }

func (c *entryEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return editCashFlow(ctx, func(s *session.Session) (fintrack.Entry, error) {
		id, err := resolveID(f.Arg(0), entryIDs(s.CashFlow))
		if err != nil {
			return fintrack.Entry{}, err
		}
		x, _ := s.CashFlow.Get(id)
		if x, err = c.apply(x, s.Config.Currency); err != nil {
			return x, err
		}
		return s.CashFlow.Update(id, x)
	})
}

// --- entry delete ---

type entryDeleteCmd struct{}

func (*entryDeleteCmd) Name() string     { return "delete" }
func (*entryDeleteCmd) Synopsis() string { return "delete an entry" }
func (*entryDeleteCmd) Usage() string {
	return `fin entry delete <id>
`
}
func (c *entryDeleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *entryDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return editCashFlow(ctx, func(s *session.Session) (fintrack.Entry, error) {
		id, err := resolveID(f.Arg(0), entryIDs(s.CashFlow))
		if err != nil {
			return fintrack.Entry{}, err
		}
		if err := s.CashFlow.Delete(id); err != nil {
			return fintrack.Entry{}, err
		}
		fmt.Fprintf(out, "deleted %s\n", id)
		return fintrack.Entry{}, nil
	})
}

// --- entry list ---

type entryListCmd struct {
	date   string
	period string
	kind   string
}

func (*entryListCmd) Name() string     { return "list" }
func (*entryListCmd) Synopsis() string { return "display the income, expenses and savings of a period" }
func (*entryListCmd) Usage() string {
	return `fin entry list [-d <date>] [-p <period>] [-k <kind>]

  Displays the totals and the entries of the period containing the date.
`
}

func (c *entryListCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Any date in the period (YYYY-MM-DD)")
	f.StringVar(&c.period, "p", "month", "Period: day, week, month or year")
	f.StringVar(&c.kind, "k", "", "List only income or expense entries")
}

func (c *entryListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	r := date.NewRange(on, period)
	filters := []func(fintrack.Entry) bool{fintrack.InRange(r)}
	if c.kind != "" {
		kind, err := fintrack.ParseEntryKind(c.kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		filters = append(filters, fintrack.OfKind(kind))
	}

	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.CashFlowMarkdown(s.CashFlow.Summary(r), s.CashFlow.Entries(filters...)))
	return subcommands.ExitSuccess
}
