package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/renderer"
	"github.com/google/subcommands"
)

// weightFlags collects repeated -w CODE=WEIGHT flags.
type weightFlags []string

func (w *weightFlags) String() string {
	return strings.Join(*w, ", ")
}

func (w *weightFlags) Set(value string) error {
	if _, _, err := parseWeightFlag(value); err != nil {
		return err
	}
	*w = append(*w, value)
	return nil
}

// parseWeightFlag parses "CODE=WEIGHT", the weight being a fraction or a
// percentage.
func parseWeightFlag(value string) (string, rebalance.Weight, error) {
	code, weight, ok := strings.Cut(value, "=")
	code = strings.TrimSpace(code)
	if !ok || code == "" {
		return "", rebalance.Weight{}, fmt.Errorf("invalid weight %q, expected CODE=WEIGHT", value)
	}
	w, err := rebalance.ParseWeight(strings.TrimSpace(weight))
	if err != nil {
		return "", rebalance.Weight{}, err
	}
	return code, w, nil
}

// ordersCmd holds the flags for the 'orders' subcommand.
type ordersCmd struct {
	account accountFlag
	targets string
	weights weightFlags
	json    bool
}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "compute the orders that rebalance an account" }
func (*ordersCmd) Usage() string {
	return `rebal orders -a <account ID> [-targets <file>] [-w <code>=<weight>]... [-json]

  Computes the buy and sell orders that bring the account to the target
  weights. Instruments held but not targeted are sold entirely, the weight
  not allocated stays in cash. No order is placed.

  Targets are read from a YAML or JSON file mapping contract codes to
  weights, as fractions or percentages:

    TFSA.STX500: 0.6
    TFSA.STXNDQ: 35%

  -w flags add to, or override, the weights of the file.
`
}

func (c *ordersCmd) SetFlags(f *flag.FlagSet) {
	c.account.register(f)
	f.StringVar(&c.targets, "targets", "", "path to the target weights file (YAML or JSON)")
	f.Var(&c.weights, "w", "target weight as CODE=WEIGHT (can be specified multiple times)")
	f.BoolVar(&c.json, "json", false, "print as JSON")
}

// targetWeights merges the targets file and the -w flags.
func (c *ordersCmd) targetWeights() (rebalance.TargetWeights, error) {
	weights := make(rebalance.TargetWeights)
	if c.targets != "" {
		r, err := os.Open(c.targets)
		if err != nil {
			return nil, fmt.Errorf("cannot open targets file: %w", err)
		}
		defer r.Close()
		if weights, err = rebalance.ParseTargetWeights(r); err != nil {
			return nil, fmt.Errorf("invalid targets file %q: %w", c.targets, err)
		}
	}
	for _, value := range c.weights {
		code, w, err := parseWeightFlag(value)
		if err != nil {
			return nil, err
		}
		weights[code] = w
	}
	return weights, nil
}

func (c *ordersCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.account.check() {
		return subcommands.ExitUsageError
	}
	if c.targets == "" && len(c.weights) == 0 {
		fmt.Fprintln(os.Stderr, "Error: -targets <file> or at least one -w <code>=<weight> is required.")
		return subcommands.ExitUsageError
	}
	weights, err := c.targetWeights()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading target weights: %v\n", err)
		return subcommands.ExitUsageError
	}

	s, err := openSession()
	if err != nil {
		return failure("opening session", err)
	}
	orders, err := newEngine(s).RebalancingOrders(ctx, string(c.account), weights)
	if err != nil {
		return failure("computing orders", err)
	}
	if c.json {
		if orders == nil {
			orders = []rebalance.Order{}
		}
		return printJSON(orders)
	}
	printMarkdown(renderer.RenderOrders(renderer.NewOrders(string(c.account), orders)))
	return subcommands.ExitSuccess
}
