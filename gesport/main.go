package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/FredPerr/gesport/cmd"
	"github.com/FredPerr/gesport/internal/logger"
	"github.com/google/subcommands"
)

func main() {
	cmd.Complete()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	log := logger.New(*cmd.Verbose)
	status := commander.Execute(logger.WithContext(context.Background(), log))
	_ = log.Sync()
	os.Exit(int(status))
}
