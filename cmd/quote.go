package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/FredPerr/gesport/renderer"
	"github.com/google/subcommands"
)

type quoteCmd struct {
	from string
	to   string
}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "display the market history of a symbol" }
func (*quoteCmd) Usage() string {
	return `gesport quote [-from <date>] [-to <date>] <symbol>

  Displays the daily open, close, min, max and volume of a symbol as served by
  the quote service, over the last 30 days by default.
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD), 30 days before -to by default")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD), today by default")
}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := symbolsOf(f)
	if len(symbols) != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	to, err := parseDate(c.to)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	from := to.Add(-30)
	if c.from != "" {
		if from, err = parseDate(c.from); err != nil {
			fmt.Fprintf(stderr, "Error parsing -from: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: invalid configuration: %v\n", err)
		return subcommands.ExitFailure
	}
	series, err := newOracle(ctx, cfg).HistoryContext(ctx, symbols[0], from, to)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.QuoteMarkdown(renderer.NewQuote(symbols[0], series)))
	return subcommands.ExitSuccess
}
