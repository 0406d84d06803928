package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/easyequities"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

type priceCmd struct {
	period string
	json   bool
}

func (*priceCmd) Name() string     { return "price" }
func (*priceCmd) Synopsis() string { return "display the current or historical prices of instruments" }
func (*priceCmd) Usage() string {
	return `rebal price [-period <period>] <contract code>...

  Displays the current price of each contract code, e.g. EQU.ZA.SYGJP.
  With -period (OneMonth, ThreeMonths, SixMonths, OneYear, Max) displays the
  daily prices of a single contract code instead.
`
}

func (c *priceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "", "price history period")
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

func (c *priceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	codes := f.Args()
	if len(codes) == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one contract code is required.")
		return subcommands.ExitUsageError
	}
	s, err := openSession()
	if err != nil {
		return failure("opening session", err)
	}

	if c.period != "" {
		if len(codes) != 1 {
			fmt.Fprintln(os.Stderr, "Error: -period requires exactly one contract code.")
			return subcommands.ExitUsageError
		}
		history, err := s.HistoricalPrices(ctx, codes[0], easyequities.Period(c.period))
		if err != nil {
			return failure("reading prices", err)
		}
		if c.json {
			return printJSON(history)
		}
		printMarkdown(renderer.RenderHistory(&history))
		return subcommands.ExitSuccess
	}

	quotes := make([]rebalance.PriceQuote, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, *concurrency))
	for i, code := range codes {
		g.Go(func() (err error) {
			quotes[i], err = s.CurrentPrice(gctx, code)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return failure("reading prices", err)
	}
	report := &renderer.Prices{Quotes: quotes}
	if c.json {
		return printJSON(report)
	}
	printMarkdown(renderer.RenderPrices(report))
	return subcommands.ExitSuccess
}
