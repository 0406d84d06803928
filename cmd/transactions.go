package cmd

import (
	"context"
	"flag"

	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

type transactionsCmd struct {
	account accountFlag
	json    bool
}

func (*transactionsCmd) Name() string     { return "transactions" }
func (*transactionsCmd) Synopsis() string { return "display the transaction history of an account" }
func (*transactionsCmd) Usage() string {
	return `rebal transactions -a <account ID> [-json]
`
}

func (c *transactionsCmd) SetFlags(f *flag.FlagSet) {
	c.account.register(f)
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

func (c *transactionsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.account.check() {
		return subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		return failure("opening session", err)
	}
	txs, err := s.Transactions(ctx, string(c.account))
	if err != nil {
		return failure("reading transactions", err)
	}
	report := &renderer.Transactions{Account: string(c.account), Transactions: txs}
	if c.json {
		return printJSON(report)
	}
	printMarkdown(renderer.RenderTransactions(report))
	return subcommands.ExitSuccess
}
