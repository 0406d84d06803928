package cmd

import (
	"flag"

	"github.com/etnz/rebalance/docs"
	"github.com/etnz/rebalance/easyequities"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the predictions of flag values by flag name. Flags not
// listed predict anything.
var flagPredictors = map[string]complete.Predictor{
	"targets":      predict.Or(predict.Files("*.yaml"), predict.Files("*.yml"), predict.Files("*.json")),
	"session-file": predict.Files("*"),
	"period":       periods(),
}

func periods() predict.Set {
	var set predict.Set
	for _, p := range easyequities.Periods {
		set = append(set, string(p))
	}
	return set
}

// flagsOf returns the completion of the flags of f.
func flagsOf(f *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	f.VisitAll(func(fl *flag.Flag) {
		if p, ok := flagPredictors[fl.Name]; ok {
			flags[fl.Name] = p
			return
		}
		if b, ok := fl.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[fl.Name] = predict.Nothing
			return
		}
		flags[fl.Name] = predict.Something
	})
	return flags
}

// Completion returns the shell completion of the rebal command line: global
// flags from global and every command with its own flags.
func Completion(global *flag.FlagSet, commands []subcommands.Command) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagsOf(global),
	}
	for _, cmd := range commands {
		f := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(f)
		root.Sub[cmd.Name()] = &complete.Command{Flags: flagsOf(f)}
	}
	root.Sub["topic"].Args = predict.Set(docs.AllTopics())
	for _, name := range []string{"help", "flags", "commands"} {
		root.Sub[name] = &complete.Command{}
	}
	return root
}
