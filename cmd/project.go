package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/renderer"
	"github.com/google/subcommands"
)

type projectCmd struct {
	date       string
	rates      string
	volatility float64
}

func (*projectCmd) Name() string     { return "project" }
func (*projectCmd) Synopsis() string { return "project the value of positions to a future date" }
func (*projectCmd) Usage() string {
	return `gesport project -d <date> [-r <rate> | -r <symbol>=<rate>,...] [-v <volatility>] [<symbol>...]

  Projects the market value of today's positions in the given symbols, all by
  default, to a future date. Each position grows at its annual rate in percent,
  compounded every whole year, with simple interest for the remaining days.
  Symbols missing from a per symbol list of rates do not grow.

  With a volatility, the spread of annual returns around the rate is
  simulated and its quartiles displayed.
`
}

func (c *projectCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the projection (YYYY-MM-DD), today by default")
	f.StringVar(&c.rates, "r", "0", "Annual rate in percent, or a list of symbol=rate")
	f.Float64Var(&c.volatility, "v", 0, "Volatility of the annual rate, in percent")
}

func (c *projectCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	rates, err := parseRates(c.rates)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing rates: %v\n", err)
		return subcommands.ExitUsageError
	}
	perSymbol := strings.Contains(c.rates, "=")
	if c.volatility < 0 {
		fmt.Fprintln(stderr, "Error: the volatility cannot be negative")
		return subcommands.ExitUsageError
	}
	if c.volatility > 0 && perSymbol {
		fmt.Fprintln(stderr, "Error: a volatility needs a single rate")
		return subcommands.ExitUsageError
	}
	symbols := symbolsOf(f)

	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	today := p.Today()
	present, err := p.MarketValue(symbols, today)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	projected, err := p.ProjectedValue(symbols, on, rates)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	years, days := portfolio.SplitHorizon(today, on)
	report := &renderer.Projection{
		From:      today,
		To:        on,
		Years:     years,
		Days:      days,
		Rate:      fmt.Sprintf("%v%%", rates.For("")),
		Present:   present,
		Projected: projected,
	}
	if perSymbol {
		report.Rate = "per symbol"
	}
	if c.volatility > 0 {
		mean := rates.For("")
		q1, q2, q3, err := p.ProjectedQuartiles(mean, c.volatility)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		report.Quartiles = &renderer.Quartiles{Mean: mean, Volatility: c.volatility, Q1: q1, Q2: q2, Q3: q3}
	}
	printMarkdown(renderer.ProjectionMarkdown(report))
	return subcommands.ExitSuccess
}
