package cmd

import (
	"context"
	"flag"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// holdingsCmd holds the flags for the 'holdings' subcommand.
type holdingsCmd struct {
	account accountFlag
	json    bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the holdings of an account" }
func (*holdingsCmd) Usage() string {
	return `rebal holdings -a <account ID> [-json]

  Displays the instruments held, their share count, price and value.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	c.account.register(f)
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

func (c *holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.account.check() {
		return subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		return failure("opening session", err)
	}
	holdings, err := s.Holdings(ctx, string(c.account))
	if err != nil {
		return failure("reading holdings", err)
	}
	report := &renderer.Holdings{Account: string(c.account), Holdings: holdings}
	if c.json {
		return printJSON(report)
	}
	printMarkdown(renderer.RenderHoldings(report))
	return subcommands.ExitSuccess
}
