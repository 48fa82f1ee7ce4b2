package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/etnz/fintrack"
	"github.com/google/subcommands"
)

// setup points the global flags to a fresh store and captures the output.
func setup(t *testing.T) {
	t.Helper()
	oldStore, oldCurrency, oldSeed, oldFMP, oldPlain, oldOut := *storeDSN, *currency, *seedCash, *fmpAPIKey, *plain, out
	t.Cleanup(func() {
		*storeDSN, *currency, *seedCash, *fmpAPIKey, *plain, out = oldStore, oldCurrency, oldSeed, oldFMP, oldPlain, oldOut
	})
	*storeDSN = "file:" + t.TempDir()
	*currency, *seedCash, *fmpAPIKey, *plain = "USD", "", "", true
}

// run executes the fin command line args and returns its status and output.
func run(t *testing.T, args ...string) (subcommands.ExitStatus, string) {
	t.Helper()
	var buf bytes.Buffer
	out = &buf
	fs := flag.NewFlagSet("fin", flag.ContinueOnError)
	commander := subcommands.NewCommander(fs, "fin")
	Register(commander)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return commander.Execute(context.Background()), buf.String()
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	status, output := run(t, args...)
	if status != subcommands.ExitSuccess {
		t.Fatalf("fin %s = %v, want success\n%s", strings.Join(args, " "), status, output)
	}
	return output
}

func wantContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("output does not contain %q:\n%s", want, output)
		}
	}
}

func TestTradeCommands(t *testing.T) {
	setup(t)

	wantContains(t, mustRun(t, "refresh"), "9 instruments quoted", "$10,000.00")
	wantContains(t, mustRun(t, "buy", "-s", "btc", "-q", "0.1"), "Bought 0.1 BTC", "Cash balance: $5,500.00")

	if status, _ := run(t, "sell", "-s", "BTC", "-q", "1"); status != subcommands.ExitFailure {
		t.Errorf("over-sell status = %v, want failure", status)
	}
	if status, _ := run(t, "buy", "-s", "ZZZ", "-q", "1"); status != subcommands.ExitFailure {
		t.Errorf("unquoted buy status = %v, want failure", status)
	}
	if status, _ := run(t, "buy", "-s", "BTC"); status != subcommands.ExitUsageError {
		t.Errorf("buy without quantity status = %v, want usage error", status)
	}

	wantContains(t, mustRun(t, "holdings"), "BTC")
	wantContains(t, mustRun(t, "log", "-s", "btc"), "buy", "BTC")
	wantContains(t, mustRun(t, "sell", "-s", "BTC"), "Sold 0.1 BTC", "Cash balance: $10,000.00")
	wantContains(t, mustRun(t, "log"), "sell")
	mustRun(t, "history")
	wantContains(t, mustRun(t, "quote", "-c", "crypto", "ETH"), "ETH")
	wantContains(t, mustRun(t, "summary", "-top", "3"), "Dashboard")
}

func TestSeedCash(t *testing.T) {
	setup(t)
	*seedCash = "2500"
	wantContains(t, mustRun(t, "refresh"), "$2,500.00")

	*seedCash = "lots"
	if status, _ := run(t, "holdings"); status != subcommands.ExitFailure {
		t.Errorf("invalid seed cash status = %v, want failure", status)
	}
}

func TestBucketCommands(t *testing.T) {
	setup(t)

	wantContains(t, mustRun(t, "bucket", "add", "-k", "savings", "-n", "Wedding", "-t", "2000"), `savings "Wedding"`)
	wantContains(t, mustRun(t, "bucket", "record", "-a", "250", "wedding"), "$250.00 of $2,000.00")
	wantContains(t, mustRun(t, "bucket", "edit", "-t", "3000", "Wedding"), "$250.00 of $3,000.00")
	wantContains(t, mustRun(t, "bucket", "list", "-k", "savings"), "Wedding", "Emergency Fund")
	wantContains(t, mustRun(t, "bucket", "delete", "Wedding"), `deleted savings "Wedding"`)

	if status, _ := run(t, "bucket", "record", "-a", "10", "Wedding"); status != subcommands.ExitFailure {
		t.Errorf("record in a deleted bucket status = %v, want failure", status)
	}
	if status, _ := run(t, "bucket", "add", "-k", "savings", "-n", "Vacation", "-t", "10"); status != subcommands.ExitFailure {
		t.Errorf("duplicate bucket status = %v, want failure", status)
	}
}

func TestEntryCommands(t *testing.T) {
	setup(t)

	output := mustRun(t, "entry", "add", "-k", "income", "-s", "fixed", "-a", "3000", "-l", "Salary", "-d", "2025-03-01")
	id := strings.Fields(output)[0]
	mustRun(t, "entry", "add", "-a", "1200", "-l", "Rent", "-d", "2025-03-05")

	if status, _ := run(t, "entry", "add", "-a", "10"); status != subcommands.ExitUsageError {
		t.Errorf("entry without label status = %v, want usage error", status)
	}
	if status, _ := run(t, "entry", "add", "-k", "income", "-a", "10", "-l", "Gift"); status != subcommands.ExitFailure {
		t.Errorf("income without source status = %v, want failure", status)
	}

	wantContains(t, mustRun(t, "entry", "list", "-d", "2025-03-15"), "Cash Flow 2025-03", "Salary", "Rent", "$3,000.00", "$1,200.00")
	wantContains(t, mustRun(t, "entry", "list", "-d", "2025-03-15", "-k", "expense"), "Rent")

	wantContains(t, mustRun(t, "entry", "edit", "-a", "3500", id[:8]), "$3,500.00", "2025-03-01")
	wantContains(t, mustRun(t, "entry", "delete", id[:8]), "deleted "+id)

	if status, _ := run(t, "entry", "delete", id); status != subcommands.ExitFailure {
		t.Errorf("delete twice status = %v, want failure", status)
	}
	if strings.Contains(mustRun(t, "entry", "list", "-d", "2025-03-15"), "Salary") {
		t.Error("deleted entry is still listed")
	}
}

func TestNewsWithoutKey(t *testing.T) {
	setup(t)
	old := *newsAPIKey
	*newsAPIKey = ""
	defer func() { *newsAPIKey = old }()
	if status, _ := run(t, "news"); status != subcommands.ExitFailure {
		t.Errorf("news without key status = %v, want failure", status)
	}
}

func TestResolveID(t *testing.T) {
	ids := func(yield func(string) bool) {
		for _, id := range []string{"abc123", "abd456", "xyz789"} {
			if !yield(id) {
				return
			}
		}
	}
	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{"abc123", "abc123", nil},
		{"abd", "abd456", nil},
		{"x", "xyz789", nil},
		{"ab", "", fintrack.ErrValidation},
		{"zzz", "", fintrack.ErrNotFound},
		{" ", "", fintrack.ErrValidation},
	}
	for _, tt := range tests {
		got, err := resolveID(tt.ref, ids)
		if got != tt.want || (tt.wantErr == nil) != (err == nil) {
			t.Errorf("resolveID(%q) = %q, %v; want %q, %v", tt.ref, got, err, tt.want, tt.wantErr)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("resolveID(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
		}
	}
}

func TestResolveBucket(t *testing.T) {
	b := fintrack.DefaultBuckets("USD")
	rent, _ := b.Find(fintrack.ExpenseCategory, "Rent")

	for _, ref := range []string{"rent", rent.ID, rent.ID[:8]} {
		got, err := resolveBucket(b, ref)
		if err != nil || got.ID != rent.ID {
			t.Errorf("resolveBucket(%q) = %v, %v; want Rent", ref, got.Name, err)
		}
	}
	if _, err := resolveBucket(b, "Freelance"); err != nil {
		t.Errorf("resolveBucket(Freelance) error = %v", err)
	}
	if _, err := resolveBucket(b, "Holidays"); err == nil {
		t.Error("resolveBucket(Holidays) succeeded, want an error")
	}
}

func TestTopicCommand(t *testing.T) {
	setup(t)
	wantContains(t, mustRun(t, "topic"), "fin topic")
	wantContains(t, mustRun(t, "topic", "budget", "storage"), "# Budget", "# Storage")
	if status, _ := run(t, "topic", "nope"); status != subcommands.ExitFailure {
		t.Errorf("unknown topic status = %v, want failure", status)
	}
}
