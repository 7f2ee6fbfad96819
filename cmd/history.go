package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/date"
	"github.com/FredPerr/gesport/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct {
	from string
	to   string
	step int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the cost basis of positions over time" }
func (*historyCmd) Usage() string {
	return `gesport history [-from <date>] [-to <date>] [-step <days>] [<symbol>...]

  Displays the value at cost of the positions in the given symbols, all by
  default, every step days from the first trade to today. The last line is
  always the end date.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD), the day of the first trade by default")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD), today by default")
	f.IntVar(&c.step, "step", 7, "Number of days between two lines")
}

func (c *historyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	to, err := parseDate(c.to)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing -to: %v\n", err)
		return subcommands.ExitUsageError
	}
	symbols := symbolsOf(f)

	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	from := firstTrade(p, to)
	if c.from != "" {
		if from, err = date.Parse(c.from); err != nil {
			fmt.Fprintf(stderr, "Error parsing -from: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	points, err := p.History(symbols, from, to, c.step)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	title := "all positions"
	if len(symbols) > 0 {
		title = strings.Join(symbols, ", ")
	}
	printMarkdown(renderer.HistoryMarkdown(&renderer.History{Title: title, Points: points}))
	return subcommands.ExitSuccess
}

// firstTrade returns the day of the earliest trade, or def when there is none.
func firstTrade(p *portfolio.Portfolio, def date.Date) date.Date {
	first, found := def, false
	for e := range p.Trades().Entries() {
		if !found || e.Date.Before(first) {
			first, found = e.Date, true
		}
	}
	return first
}
