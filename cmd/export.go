package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	portfolio "github.com/FredPerr/gesport"
	"github.com/google/subcommands"
)

type exportCmd struct {
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "export both ledgers as csv" }
func (*exportCmd) Usage() string {
	return `gesport export [-o <file>]

  Writes every cash and trade entry as csv, in chronological order, to the
  standard output or to a file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file, the standard output by default")
}

func (c *exportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, err := openPortfolio(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error opening portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output == "" {
		return export(p, stdout)
	}
	file, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(stderr, "Error creating %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	status := export(p, file)
	if err := file.Close(); err != nil {
		fmt.Fprintf(stderr, "Error writing %s: %v\n", c.output, err)
		return subcommands.ExitFailure
	}
	return status
}

func export(p *portfolio.Portfolio, w io.Writer) subcommands.ExitStatus {
	if err := p.ExportCSV(w); err != nil {
		fmt.Fprintf(stderr, "Error exporting portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
