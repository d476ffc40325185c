package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/decl"
	"github.com/google/subcommands"
)

type dumpCmd struct {
	declFile string
}

func (*dumpCmd) Name() string     { return "dump" }
func (*dumpCmd) Synopsis() string { return "show the foreign income block of a declaration" }
func (*dumpCmd) Usage() string {
	return `dcledit dump -d <declaration>

  Parses the declaration and lists its foreign income items.
`
}

func (c *dumpCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.declFile, "d", "", "Declaration file to read.")
}

func (c *dumpCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.declFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -d is required.")
		return subcommands.ExitUsageError
	}
	s, err := decl.ReadFile(c.declFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := dumpIncomes(s); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
