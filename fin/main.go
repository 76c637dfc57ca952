// Command fin keeps a personal finance database up to date: savings interest,
// fixed deposits, PPF accounts and stock positions.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/savings/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	// Answers the shell when invoked for completion, and returns otherwise.
	cmd.Completion(commander).Complete("fin")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
