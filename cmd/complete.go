package cmd

import (
	"flag"
	"time"

	"github.com/etnz/fintrack/market"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// commandGroup is a command with its own subcommands.
type commandGroup interface {
	subcommands() []subcommands.Command
}

func symbols() predict.Set {
	s := predict.Set(append([]string(nil), market.TopStocks...))
	for _, q := range market.Catalog("USD", time.Time{}) {
		s = append(s, q.Symbol())
	}
	return s
}

// valuePredictors complete flag values, keyed by command path and flag name,
// and the arguments of topic.
var valuePredictors = map[string]complete.Predictor{
	"buy -s":         symbols(),
	"sell -s":        symbols(),
	"log -s":         symbols(),
	"quote -c":       predict.Set{"stock", "bond", "fund", "crypto"},
	"bucket add -k":  predict.Set{"expense", "savings", "income"},
	"bucket list -k": predict.Set{"expense", "savings", "income"},
	"entry add -k":   predict.Set{"income", "expense"},
	"entry edit -k":  predict.Set{"income", "expense"},
	"entry list -k":  predict.Set{"income", "expense"},
	"entry add -s":   predict.Set{"fixed", "variable"},
	"entry edit -s":  predict.Set{"fixed", "variable"},
	"entry list -p":  predict.Set{"day", "week", "month", "year"},
	"entry add -l":   predict.Set{"Rent", "Groceries", "Utilities", "Salary", "Rental Income", "Freelance", "Investments"},
	"-store":         predict.Set{"mem:", "file:", "sqlite:", "postgres://"},
	"-currency":      predict.Set{"USD", "EUR", "GBP"},
	"topic":          predict.Set{"*", "trading", "market", "budget", "storage", "assist"},
}

// Completion describes the commands registered in c for shell completion.
// The top level flags are read from flag.CommandLine.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors("", flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		root.Sub[cmd.Name()] = completion(cmd.Name(), cmd)
	})
	return root
}

func completion(path string, cmd subcommands.Command) *complete.Command {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	cc := &complete.Command{Flags: flagPredictors(path, fs)}
	switch path {
	case "quote":
		cc.Args = symbols()
	case "topic":
		cc.Args = valuePredictors["topic"]
	}
	if g, ok := cmd.(commandGroup); ok {
		cc.Sub = map[string]*complete.Command{}
		for _, sub := range g.subcommands() {
			cc.Sub[sub.Name()] = completion(path+" "+sub.Name(), sub)
		}
	}
	return cc
}

func flagPredictors(path string, fs *flag.FlagSet) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		key := "-" + f.Name
		if path != "" {
			key = path + " " + key
		}
		if p, ok := valuePredictors[key]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
