package cmd

import (
	"context"
	"flag"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type weightsCmd struct {
	account accountFlag
	json    bool
}

func (*weightsCmd) Name() string     { return "weights" }
func (*weightsCmd) Synopsis() string { return "display the current weights of an account" }
func (*weightsCmd) Usage() string {
	return `rebal weights -a <account ID> [-json]

  Displays the weight of the cash available to invest and of each holding in
  the account value. The output is a good start for a targets file.
`
}

func (c *weightsCmd) SetFlags(f *flag.FlagSet) {
	c.account.register(f)
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

func (c *weightsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.account.check() {
		return subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		return failure("opening session", err)
	}
	allocations, err := newEngine(s).CurrentPortfolioWeights(ctx, string(c.account))
	if err != nil {
		return failure("computing weights", err)
	}
	if c.json {
		return printJSON(allocations)
	}
	printMarkdown(renderer.RenderWeights(&renderer.Weights{Account: string(c.account), Allocations: allocations}))
	return subcommands.ExitSuccess
}
