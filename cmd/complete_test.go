package cmd

import (
	"flag"
	"slices"
	"testing"

	"github.com/google/subcommands"
)

func TestCompletion(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("fin", flag.ContinueOnError), "fin")
	Register(commander)
	c := Completion(commander)

	for _, name := range []string{"buy", "sell", "holdings", "log", "quote", "refresh", "stream", "bucket", "entry", "summary", "news", "history", "assist"} {
		if _, ok := c.Sub[name]; !ok {
			t.Errorf("no completion for command %q", name)
		}
	}
	if _, ok := c.Flags["store"]; !ok {
		t.Error("no completion for the -store flag")
	}

	add, ok := c.Sub["bucket"].Sub["add"]
	if !ok {
		t.Fatal("no completion for bucket add")
	}
	if got := add.Flags["k"].Predict(""); !slices.Contains(got, "savings") {
		t.Errorf("bucket add -k predicts %v, want savings", got)
	}
	if got := c.Sub["buy"].Flags["s"].Predict(""); !slices.Contains(got, "AAPL") || !slices.Contains(got, "BTC") {
		t.Errorf("buy -s predicts %v, want AAPL and BTC", got)
	}
	if got := c.Sub["quote"].Args.Predict(""); !slices.Contains(got, "VFIAX") {
		t.Errorf("quote predicts %v, want VFIAX", got)
	}
	if _, ok := c.Sub["entry"].Sub["list"].Flags["p"]; !ok {
		t.Error("no completion for entry list -p")
	}
}
