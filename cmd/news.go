package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fintrack/market"
	"github.com/etnz/fintrack/renderer"
	"github.com/google/subcommands"
)

type newsCmd struct{}

func (*newsCmd) Name() string     { return "news" }
func (*newsCmd) Synopsis() string { return "display the top business headlines" }
func (*newsCmd) Usage() string {
	return `fin news

  Displays the top US business headlines from newsapi.org.
`
}
func (c *newsCmd) SetFlags(f *flag.FlagSet) {}

func (c *newsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if *newsAPIKey == "" {
		fmt.Fprintf(os.Stderr, "Error: newsapi.org API key is not set. Use -news-api-key flag or %s environment variable\n", EnvNewsAPIKey)
		return subcommands.ExitFailure
	}
	news := &market.News{APIKey: *newsAPIKey}
	headlines, err := news.Headlines(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching news: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.NewsMarkdown(headlines))
	return subcommands.ExitSuccess
}
