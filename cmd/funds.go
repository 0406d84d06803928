package cmd

import (
	"context"
	"flag"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type fundsCmd struct {
	account accountFlag
	json    bool
}

func (*fundsCmd) Name() string     { return "funds" }
func (*fundsCmd) Synopsis() string { return "display the cash position of an account" }
func (*fundsCmd) Usage() string {
	return `rebal funds -a <account ID> [-json]

  Displays the funds available to invest, withdrawable, unsettled and locked.
`
}

func (c *fundsCmd) SetFlags(f *flag.FlagSet) {
	c.account.register(f)
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

func (c *fundsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.account.check() {
		return subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		return failure("opening session", err)
	}
	account := string(c.account)
	top, err := s.TopSummary(ctx, account)
	if err != nil {
		return failure("reading account summary", err)
	}
	funds, err := s.FundsSummary(ctx, account)
	if err != nil {
		return failure("reading funds", err)
	}
	report := &renderer.Funds{Account: account, Summary: top, Funds: funds}
	if c.json {
		return printJSON(report)
	}
	printMarkdown(renderer.RenderFunds(report))
	return subcommands.ExitSuccess
}
