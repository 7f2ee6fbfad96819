// Package cmd implements the CLI application to manage a portfolio.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	portfolio "github.com/FredPerr/gesport"
	"github.com/FredPerr/gesport/bourse"
	"github.com/FredPerr/gesport/date"
	"github.com/FredPerr/gesport/internal/config"
	"github.com/FredPerr/gesport/internal/logger"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

// Commands lists every subcommand, in help order.
var Commands = []subcommands.Command{
	&depositCmd{},
	&buyCmd{},
	&sellCmd{},
	&listCmd{},
	&balanceCmd{},
	&valueCmd{},
	&projectCmd{},
	&historyCmd{},
	&quoteCmd{},
	&exportCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands[:3] {
		c.Register(cmd, "transactions")
	}
	for _, cmd := range Commands[3:] {
		c.Register(cmd, "reports")
	}
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile    = flag.String("config", config.DefaultFile, "Path to the yaml configuration file")
	dataDir       = flag.String("data-dir", "", "Folder holding the portfolio files. Overrides the configuration and "+config.EnvDataDir)
	portfolioName = flag.String("portfolio", "", "Name of the portfolio. Overrides the configuration and "+config.EnvPortfolio)
	Verbose       = flag.Bool("verbose", false, "Log every portfolio operation")
)

// clock decides what today is for every command.
var clock date.Clock = date.SystemClock{}

// stdout and stderr are the command outputs.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// loadConfig reads the configuration file, then applies the environment and
// the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *portfolioName != "" {
		cfg.Portfolio = *portfolioName
	}
	return cfg, cfg.Validate()
}

// newOracle returns the quote service client configured by cfg.
func newOracle(ctx context.Context, cfg config.Config) *bourse.Client {
	opts := []bourse.Option{
		bourse.WithBaseURL(cfg.Oracle.BaseURL),
		bourse.WithTimeout(cfg.Oracle.Timeout),
		bourse.WithRate(cfg.Oracle.RatePerSecond),
		bourse.WithClock(clock),
		bourse.WithLogger(logger.FromContext(ctx)),
	}
	if cfg.Oracle.Cache != "" {
		opts = append(opts, bourse.WithDailyCache(cfg.Oracle.Cache))
	}
	return bourse.New(opts...)
}

// openPortfolio is the central function to open the configured portfolio.
func openPortfolio(ctx context.Context) (*portfolio.Portfolio, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return portfolio.Open(cfg.Portfolio, newOracle(ctx, cfg),
		portfolio.WithStore(portfolio.NewFileStore(cfg.DataDir)),
		portfolio.WithClock(clock),
		portfolio.WithCurrency(cfg.Currency),
		portfolio.WithLogger(logger.FromContext(ctx)),
	)
}

// parseDate parses a date flag. An empty value means today.
func parseDate(s string) (date.Date, error) {
	if s == "" {
		return clock.Today(), nil
	}
	return date.Parse(s)
}

// parseRates parses "5" as a flat rate, and "AAPL=5,TD=3.5" as rates per
// symbol.
func parseRates(s string) (portfolio.Rates, error) {
	if s == "" {
		return portfolio.FlatRate(0), nil
	}
	if !strings.Contains(s, "=") {
		r, err := decimal.NewFromString(s)
		if err != nil {
			return portfolio.Rates{}, fmt.Errorf("invalid rate %q: %w", s, err)
		}
		return portfolio.FlatRate(r.InexactFloat64()), nil
	}
	rates := make(map[string]float64)
	for _, pair := range strings.Split(s, ",") {
		symbol, value, ok := strings.Cut(pair, "=")
		if !ok {
			return portfolio.Rates{}, fmt.Errorf("invalid rate %q, want SYMBOL=RATE", pair)
		}
		r, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return portfolio.Rates{}, fmt.Errorf("invalid rate %q: %w", pair, err)
		}
		rates[strings.ToUpper(strings.TrimSpace(symbol))] = r.InexactFloat64()
	}
	return portfolio.SymbolRates(rates), nil
}

// symbolsOf returns the command line arguments as symbols.
func symbolsOf(f *flag.FlagSet) []string {
	var symbols []string
	for _, arg := range f.Args() {
		for _, s := range strings.Split(arg, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, strings.ToUpper(s))
			}
		}
	}
	return symbols
}
