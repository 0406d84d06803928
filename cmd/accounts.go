package cmd

import (
	"context"
	"flag"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type accountsCmd struct {
	json bool
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "list the accounts of the logged in user" }
func (*accountsCmd) Usage() string {
	return `rebal accounts [-json]

  Lists the EasyEquities accounts with the ID used by the other commands.
`
}

func (c *accountsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

func (c *accountsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession()
	if err != nil {
		return failure("opening session", err)
	}
	accounts, err := s.Accounts(ctx)
	if err != nil {
		return failure("listing accounts", err)
	}
	report := &renderer.Accounts{Accounts: accounts}
	if c.json {
		return printJSON(report)
	}
	printMarkdown(renderer.RenderAccounts(report))
	return subcommands.ExitSuccess
}
