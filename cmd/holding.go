package cmd

import (
	"context"
	"flag"
	"fmt"
	"slices"

	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/date"
	"github.com/FredPerr/gesport/renderer"
	"github.com/google/subcommands"
)

// listCmd holds the flags for the 'list' subcommand.
type listCmd struct {
	date string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "display the holdings on a date" }
func (*listCmd) Usage() string {
	return `gesport list [-d <date>] [<symbol>...]

  Displays the quantity of each symbol held on a given date, valued at cost
  and at the market price of that date, then the cash and the total value.
  With symbols, only their positions are listed; the total still covers the
  whole portfolio.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the holdings (YYYY-MM-DD), today by default")
}

func (c *listCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	symbols := symbolsOf(f)
	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	report, err := holdingsReport(p, on, symbols)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating holding report: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.HoldingsMarkdown(report))
	return subcommands.ExitSuccess
}

// holdingsReport values each position held on day on. Only the positions in
// symbols are listed, all of them if symbols is empty.
func holdingsReport(p *portfolio.Portfolio, on date.Date, symbols []string) (*renderer.Holdings, error) {
	holdings, err := p.Holdings(on)
	if err != nil {
		return nil, err
	}
	cash, err := p.Balance(on)
	if err != nil {
		return nil, err
	}
	report := &renderer.Holdings{Portfolio: p.Name(), Date: on, Cash: cash, Total: cash}
	for _, symbol := range holdings.Symbols() {
		selected := []string{symbol}
		cost, err := p.PositionsValue(selected, on)
		if err != nil {
			return nil, err
		}
		value, err := p.MarketValue(selected, on)
		if err != nil {
			return nil, err
		}
		report.Total = report.Total.Add(value)
		if len(symbols) > 0 && !slices.Contains(symbols, symbol) {
			continue
		}
		report.Positions = append(report.Positions, renderer.Position{
			Symbol:   symbol,
			Quantity: holdings[symbol],
			Cost:     cost,
			Value:    value,
		})
	}
	return report, nil
}

// --- Balance Command ---

type balanceCmd struct {
	date string
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display the cash balance on a date" }
func (*balanceCmd) Usage() string {
	return `gesport balance [-d <date>]

  Displays the cash available on a given date: deposits and sale proceeds,
  minus purchase costs, up to and including that date.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the balance (YYYY-MM-DD), today by default")
}

func (c *balanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	balance, err := p.Balance(on)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Cash balance of %s on %s: %s\n", p.Name(), on, balance)
	return subcommands.ExitSuccess
}

// --- Value Command ---

type valueCmd struct {
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display the value of positions on a date" }
func (*valueCmd) Usage() string {
	return `gesport value [-d <date>] [<symbol>...]

  Displays the value of the positions in the given symbols, all by default,
  both at cost (execution prices) and at the market price of the date. Without
  symbols, the total value of the portfolio, cash included, is displayed too.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Date of the valuation (YYYY-MM-DD), today by default")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	symbols := symbolsOf(f)
	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	cost, err := p.PositionsValue(symbols, on)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	market, err := p.MarketValue(symbols, on)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Positions at cost on %s: %s\n", on, cost)
	fmt.Fprintf(stdout, "Positions at market on %s: %s\n", on, market)
	if len(symbols) == 0 {
		total, err := p.Value(on)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Total value of %s on %s: %s\n", p.Name(), on, total)
	}
	return subcommands.ExitSuccess
}
