package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/rebalance/docs"
	"github.com/google/subcommands"
)

// topicCmd prints the embedded user guide.
type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "read the rebal guide: login, targets, rebalancing" }
func (*topicCmd) Usage() string {
	return `rebal topic [<topic>...]

Print the rebal guide. Without a topic it prints the index, '*' prints every
topic. Topics:

  ` + strings.Join(docs.AllTopics(), "\n  ") + `

`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	topics, err := topicArgs(f.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	doc, err := docs.GetTopics(topics...)
	if err != nil {
		return failure("reading the guide", err)
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicArgs returns the topics to print for the command line args, the index
// if there is none.
func topicArgs(args []string) ([]string, error) {
	if len(args) == 0 {
		return []string{docs.Index}, nil
	}
	known := docs.AllTopics()
	for _, topic := range args {
		if topic != "*" && topic != docs.Index && !slices.Contains(known, topic) {
			return nil, fmt.Errorf("unknown topic %q, want one of: %s", topic, strings.Join(known, ", "))
		}
	}
	return args, nil
}
