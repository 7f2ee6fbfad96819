package cmd

import (
	"context"
	"flag"
	"fmt"

	portfolio "github.com/FredPerr/gesport"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// --- Deposit Command ---

type depositCmd struct {
	date   string
	amount string
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "deposit cash into the portfolio" }
func (*depositCmd) Usage() string {
	return `gesport deposit [-d <date>] -a <amount>

  Deposits cash on the given date, today by default. The amount must be positive.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), today by default")
	f.StringVar(&c.amount, "a", "", "Amount of cash to deposit")
}

func (c *depositCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	amount, err := decimal.NewFromString(c.amount)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing amount: %v\n", err)
		return subcommands.ExitUsageError
	}
	day, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	money := portfolio.M(amount, p.Currency())
	if err := p.Deposit(money, day); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Deposited %s in %s on %s\n", money, p.Name(), day)
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct {
	date     string
	quantity string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy shares of one or more symbols at the market price" }
func (*buyCmd) Usage() string {
	return `gesport buy [-d <date>] [-q <quantity>] <symbol>...

  Buys the quantity of each symbol in turn, at the closing price of the date.
  The cost is debited from the cash, which must cover it on that date.
  Stops at the first purchase that fails.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), today by default")
	f.StringVar(&c.quantity, "q", "1", "Number of shares of each symbol")
}

func (c *buyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := symbolsOf(f)
	if len(symbols) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	quantity, err := portfolio.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	day, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	before := p.Trades().Len()
	err = p.BuyAll(symbols, quantity, day)
	fmt.Fprintf(stdout, "Bought %d of %d symbols on %s\n", p.Trades().Len()-before, len(symbols), day)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Sell Command ---

type sellCmd struct {
	date     string
	quantity string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares of one or more symbols at the market price" }
func (*sellCmd) Usage() string {
	return `gesport sell [-d <date>] [-q <quantity>] <symbol>...

  Sells the quantity of each symbol in turn, at the closing price of the date.
  The position held on that date must cover the quantity. The proceeds are
  credited to the cash.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Transaction date (YYYY-MM-DD), today by default")
	f.StringVar(&c.quantity, "q", "1", "Number of shares of each symbol")
}

func (c *sellCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := symbolsOf(f)
	if len(symbols) == 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	quantity, err := portfolio.ParseQuantity(c.quantity)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing quantity: %v\n", err)
		return subcommands.ExitUsageError
	}
	day, err := parseDate(c.date)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	for _, symbol := range symbols {
		if err := p.Sell(symbol, quantity, day); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		fmt.Fprintf(stdout, "Sold %s %s on %s\n", quantity, symbol, day)
	}
	return subcommands.ExitSuccess
}
