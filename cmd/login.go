package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/rebalance/easyequities"
	"github.com/google/subcommands"
)

type loginCmd struct {
	username string
	password string
}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in EasyEquities and store the session" }
func (*loginCmd) Usage() string {
	return `rebal login [-u <username>] [-p <password>]

Logs in the EasyEquities platform and stores the session cookies, readable
by the user only, for the other commands.

Username and password default to $` + EnvUsername + ` and $` + EnvPassword + `,
which can be set in a .env file.
`
}

func (c *loginCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "EasyEquities username")
	f.StringVar(&c.password, "p", "", "EasyEquities password")
}

func (c *loginCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	username := env(c.username, EnvUsername, "")
	password := env(c.password, EnvPassword, "")
	if username == "" || password == "" {
		fmt.Fprintf(os.Stderr, "Error: a username (-u or $%s) and a password (-p or $%s) are required.\n", EnvUsername, EnvPassword)
		return subcommands.ExitUsageError
	}

	s, err := easyequities.NewSession(platformURL(), easyequities.WithLogger(newLogger()))
	if err != nil {
		return failure("creating session", err)
	}
	if err := s.Login(ctx, username, password); err != nil {
		return failure("logging in", err)
	}
	path := sessionPath()
	if err := s.SaveSession(path); err != nil {
		return failure("saving session", err)
	}

	fmt.Printf("✅ Logged in as %s, session stored in %s\n", username, path)
	return subcommands.ExitSuccess
}
