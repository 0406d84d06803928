// Package cmd implements the rebal CLI application: it reads EasyEquities
// accounts and computes the orders that rebalance them.
package cmd

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/easyequities"
	"github.com/etnz/rebalance/logger"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Environment variables read by the application, also from a .env file in
// the working directory.
const (
	EnvBaseURL     = "REBAL_BASE_URL"
	EnvSessionFile = "REBAL_SESSION_FILE"
	EnvLogLevel    = "REBAL_LOG_LEVEL"
	EnvUsername    = "EASYEQUITIES_USERNAME"
	EnvPassword    = "EASYEQUITIES_PASSWORD"
)

// Commands lists all the rebal subcommands.
var Commands = []subcommands.Command{
	&loginCmd{},
	&accountsCmd{},
	&fundsCmd{},
	&holdingsCmd{},
	&transactionsCmd{},
	&priceCmd{},
	&weightsCmd{},
	&ordersCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var baseURL = flag.String("base-url", "", "EasyEquities platform URL (default $"+EnvBaseURL+" or "+easyequities.DefaultBaseURL+")")
var sessionFile = flag.String("session-file", "", "Path to the session file (default $"+EnvSessionFile+" or a file in the temp dir)")
var concurrency = flag.Int("concurrency", rebalance.DefaultConcurrency, "Maximum number of simultaneous price requests")
var verbose = flag.Bool("v", false, "Log debug messages to stderr")

// LoadEnv loads the .env file of the working directory, if any, into the
// environment. Variables already set take precedence.
func LoadEnv() error {
	err := godotenv.Load()
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// env returns the first non empty of value, the environment variable key, and def.
func env(value, key, def string) string {
	if value != "" {
		return value
	}
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func platformURL() string { return env(*baseURL, EnvBaseURL, easyequities.DefaultBaseURL) }

func sessionPath() string {
	return env(*sessionFile, EnvSessionFile, easyequities.DefaultSessionPath())
}

// logLevel returns the level of the application logger.
func logLevel(verbose bool) string {
	if verbose {
		return zerolog.LevelDebugValue
	}
	return env("", EnvLogLevel, zerolog.LevelWarnValue)
}

// newLogger returns the application logger, writing to stderr.
func newLogger() zerolog.Logger {
	return logger.New(logger.Config{Level: logLevel(*verbose), Pretty: true})
}

// openSession loads the session saved by the login command.
func openSession() (*easyequities.Session, error) {
	return easyequities.LoadSession(sessionPath(), platformURL(), easyequities.WithLogger(newLogger()))
}

// newEngine returns a rebalancing engine reading from s.
func newEngine(s *easyequities.Session) *rebalance.Engine {
	return rebalance.NewEngine(s, s,
		rebalance.WithLogger(newLogger()),
		rebalance.WithConcurrency(*concurrency),
	)
}

// failure reports err on stderr and returns the matching exit status.
func failure(action string, err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", action, err)
	if stage, ok := rebalance.FailedStage(err); ok {
		fmt.Fprintf(os.Stderr, "The %s stage failed.\n", stage)
	}
	var invalid *rebalance.InvalidArgumentError
	if errors.As(err, &invalid) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// printMarkdown renders md for the terminal on stdout.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	// fallback to raw markdown
	fmt.Print(md)
}

// printJSON writes v as indented JSON on stdout.
func printJSON(v any) subcommands.ExitStatus {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return failure("encoding json", err)
	}
	return subcommands.ExitSuccess
}

// accountFlag is the account ID flag shared by account commands.
type accountFlag string

func (a *accountFlag) register(f *flag.FlagSet) {
	f.StringVar((*string)(a), "a", "", "Account ID, see 'rebal accounts'")
}

func (a accountFlag) check() bool {
	if a == "" {
		fmt.Fprintln(os.Stderr, "Error: -a <account ID> is required.")
		return false
	}
	return true
}
