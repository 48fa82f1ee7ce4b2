package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fintrack"
	"github.com/etnz/fintrack/renderer"
	"github.com/etnz/fintrack/session"
	"github.com/google/subcommands"
)

// bucketCmd is the top-level command for budget categories, savings goals and income sources.
type bucketCmd struct{}

func (*bucketCmd) Name() string { return "bucket" }
func (*bucketCmd) Synopsis() string {
	return "manage budget categories, savings goals and income sources"
}
func (*bucketCmd) Usage() string {
	return `bucket <subcommand> <options>

  Manage the buckets: expense categories with a budget, savings goals and
  expected income sources. A bucket is designated by its name or its id.
`
}
func (c *bucketCmd) SetFlags(f *flag.FlagSet) {}

func (c *bucketCmd) subcommands() []subcommands.Command {
	return []subcommands.Command{&bucketAddCmd{}, &bucketEditCmd{}, &bucketDeleteCmd{}, &bucketRecordCmd{}, &bucketListCmd{}}
}

func (c *bucketCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	commander := subcommands.NewCommander(f, "bucket")
	for _, sub := range c.subcommands() {
		commander.Register(sub, "")
	}
	return commander.Execute(ctx, args...)
}

// editBuckets loads the session, applies edit to its buckets and saves them.
func editBuckets(ctx context.Context, edit func(s *session.Session) (fintrack.Bucket, error)) subcommands.ExitStatus {
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
		fmt.Fprintf(os.Stderr, "Error saving buckets: %v\n", err)
		return subcommands.ExitFailure
	}
	if x.ID != "" {
		fmt.Fprintf(out, "%s %q: %s of %s (%s)\n", x.Kind, x.Name, x.Progress, x.Target, x.Ratio())
	}
	return subcommands.ExitSuccess
}

// --- bucket add ---

type bucketAddCmd struct {
	kind   string
	name   string
	target string
}

func (*bucketAddCmd) Name() string     { return "add" }
func (*bucketAddCmd) Synopsis() string { return "create a bucket" }
func (*bucketAddCmd) Usage() string {
	return `fin bucket add -k <kind> -n <name> -t <target>

  Creates a bucket with no progress.
`
}

func (c *bucketAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", string(fintrack.ExpenseCategory), "Kind of bucket: expense, savings or income")
	f.StringVar(&c.name, "n", "", "Name of the bucket")
	f.StringVar(&c.target, "t", "", "Target amount")
}

func (c *bucketAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.name == "" || c.target == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	kind, err := fintrack.ParseBucketKind(c.kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return editBuckets(ctx, func(s *session.Session) (fintrack.Bucket, error) {
		target, err := fintrack.ParseMoney(c.target, s.Config.Currency)
		if err != nil {
			return fintrack.Bucket{}, err
		}
		return s.Buckets.Add(kind, c.name, target)
	})
}

// --- bucket edit ---

type bucketEditCmd struct {
	name   string
	target string
}

func (*bucketEditCmd) Name() string     { return "edit" }
func (*bucketEditCmd) Synopsis() string { return "rename a bucket or change its target" }
func (*bucketEditCmd) Usage() string {
	return `fin bucket edit [-n <name>] [-t <target>] <bucket>

  Renames a bucket or changes its target. The progress is kept.
`
}

func (c *bucketEditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "n", "", "New name, unchanged if missing")
	f.StringVar(&c.target, "t", "", "New target amount, unchanged if missing")
}

func (c *bucketEditCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || (c.name == "" && c.target == "") {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return editBuckets(ctx, func(s *session.Session) (fintrack.Bucket, error) {
		x, err := resolveBucket(s.Buckets, f.Arg(0))
		if err != nil {
			return x, err
		}
		name, target := x.Name, x.Target
		if c.name != "" {
			name = c.name
		}
		if c.target != "" {
			if target, err = fintrack.ParseMoney(c.target, s.Config.Currency); err != nil {
				return x, err
			}
		}
		return s.Buckets.Edit(x.ID, name, target)
	})
}

// --- bucket delete ---

type bucketDeleteCmd struct{}

func (*bucketDeleteCmd) Name() string     { return "delete" }
func (*bucketDeleteCmd) Synopsis() string { return "delete a bucket" }
func (*bucketDeleteCmd) Usage() string {
	return `fin bucket delete <bucket>
`
}
func (c *bucketDeleteCmd) SetFlags(f *flag.FlagSet) {}

func (c *bucketDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return editBuckets(ctx, func(s *session.Session) (fintrack.Bucket, error) {
		x, err := resolveBucket(s.Buckets, f.Arg(0))
		if err != nil {
			return x, err
		}
		if err := s.Buckets.Delete(x.ID); err != nil {
			return x, err
		}
		fmt.Fprintf(out, "deleted %s %q\n", x.Kind, x.Name)
		return fintrack.Bucket{}, nil
	})
}

// --- bucket record ---

type bucketRecordCmd struct {
	amount string
}

func (*bucketRecordCmd) Name() string     { return "record" }
func (*bucketRecordCmd) Synopsis() string { return "add an amount to the progress of a bucket" }
func (*bucketRecordCmd) Usage() string {
	return `fin bucket record -a <amount> <bucket>

  Records an amount spent, saved or received in a bucket.
`
}

func (c *bucketRecordCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Amount to record")
}

func (c *bucketRecordCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return editBuckets(ctx, func(s *session.Session) (fintrack.Bucket, error) {
		x, err := resolveBucket(s.Buckets, f.Arg(0))
		if err != nil {
			return x, err
		}
		amount, err := fintrack.ParseMoney(c.amount, s.Config.Currency)
		if err != nil {
			return x, err
		}
		return s.Buckets.Record(x.ID, amount)
	})
}

// --- bucket list ---

type bucketListCmd struct {
	kind string
}

func (*bucketListCmd) Name() string     { return "list" }
func (*bucketListCmd) Synopsis() string { return "list the buckets with their progress" }
func (*bucketListCmd) Usage() string {
	return `fin bucket list [-k <kind>]
`
}

func (c *bucketListCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "", "Kind of bucket to list: expense, savings or income. All by default.")
}

func (c *bucketListCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var kinds []fintrack.BucketKind
	if c.kind != "" {
		kind, err := fintrack.ParseBucketKind(c.kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		kinds = append(kinds, kind)
	}
	s, closeStore, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading session: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeStore()

	printMarkdown(renderer.BucketsMarkdown(s.Buckets, kinds...))
	return subcommands.ExitSuccess
}
