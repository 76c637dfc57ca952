package cmd

import (
	"flag"

	"github.com/etnz/savings/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors completes the flag values that have a known set of values.
// A "command.flag" key only applies to the flag of that command.
var flagPredictors = map[string]complete.Predictor{
	"config":          predict.Files("*"),
	"db":              predict.Files("*.json"),
	"stock-tx.type":   predict.Set{"buy", "sell", "ipo", "buyback", "bonus", "split", "demerger", "dividend"},
	"savings-tx.type": predict.Set{"deposit", "withdraw", "interest", "monnies_redeemed"},
	"ppf-entry.type":  predict.Set{"investment", "interest"},
	"all":             predict.Nothing,
	"delete":          predict.Nothing,
}

// Completion returns the shell completion of the commands registered in c,
// with their flags.
func Completion(c *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags("", flag.CommandLine),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, sub subcommands.Command) {
		fs := flag.NewFlagSet(sub.Name(), flag.ContinueOnError)
		sub.SetFlags(fs)
		cmd := &complete.Command{Flags: predictFlags(sub.Name(), fs)}
		if sub.Name() == "topic" {
			cmd.Args = predictTopics()
		}
		root.Sub[sub.Name()] = cmd
	})
	return root
}

func predictFlags(command string, fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[command+"."+f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

func predictTopics() complete.Predictor {
	topics, err := docs.GetAllTopics()
	if err != nil {
		return predict.Nothing
	}
	return predict.Set(topics)
}
