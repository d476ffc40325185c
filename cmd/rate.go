package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/decl"
	"github.com/etnz/decl/cbr"
	"github.com/etnz/decl/date"
	"github.com/google/subcommands"
)

type rateCmd struct {
	on string
}

func (*rateCmd) Name() string     { return "rate" }
func (*rateCmd) Synopsis() string { return "look up the official USD exchange rate for a date" }
func (*rateCmd) Usage() string {
	return `dcledit rate -on <date>

  Prints the official rate effective on the date: the latest quote
  published on or before it within its rate year.
`
}

func (c *rateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "on", date.Today().String(), "Date to look up (YYYY-MM-DD).")
}

func (c *rateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := date.Parse(c.on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	client := cbr.New(cbr.NewRates())
	rate, err := client.Rate(on)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("%s: %s (stored as %d/100)\n", on, rate, decl.RateOrdinal(rate))
	return subcommands.ExitSuccess
}
