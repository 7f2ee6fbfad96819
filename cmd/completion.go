package cmd

import (
	"flag"
	"strings"

	portfolio "github.com/FredPerr/gesport"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// symbolArgs lists the commands whose arguments are symbols.
var symbolArgs = map[string]bool{
	"buy":     true,
	"sell":    true,
	"list":    true,
	"value":   true,
	"project": true,
	"history": true,
	"quote":   true,
}

// Completion returns the shell completion tree of the application.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(f)
		sub := &complete.Command{Flags: flagPredictors(f), Args: predict.Nothing}
		if symbolArgs[c.Name()] {
			sub.Args = complete.PredictFunc(predictSymbols)
		}
		root.Sub[c.Name()] = sub
	}
	for _, name := range []string{"help", "flags"} {
		root.Sub[name] = &complete.Command{Args: predict.Set(commandNames())}
	}
	return root
}

// Complete runs the shell completion when the shell asks for it, and exits.
func Complete() { Completion().Complete("gesport") }

func commandNames() []string {
	names := make([]string, 0, len(Commands))
	for _, c := range Commands {
		names = append(names, c.Name())
	}
	return names
}

func flagPredictors(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		switch {
		case isBool(fl):
			flags[fl.Name] = predict.Nothing
		case fl.Name == "o" || fl.Name == "config":
			flags[fl.Name] = predict.Files("*")
		case fl.Name == "data-dir":
			flags[fl.Name] = predict.Dirs("*")
		default:
			flags[fl.Name] = predict.Something
		}
	})
	return flags
}

func isBool(fl *flag.Flag) bool {
	b, ok := fl.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// predictSymbols proposes the symbols traded in the configured portfolio.
func predictSymbols(prefix string) []string {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	p, err := portfolio.Open(cfg.Portfolio, nil, portfolio.WithStore(portfolio.NewFileStore(cfg.DataDir)))
	if err != nil {
		return nil
	}
	var symbols []string
	for _, s := range p.Symbols() {
		if strings.HasPrefix(s, strings.ToUpper(prefix)) {
			symbols = append(symbols, s)
		}
	}
	return symbols
}
