package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/decl"
	"github.com/etnz/decl/broker"
	"github.com/etnz/decl/cbr"
	"github.com/etnz/decl/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	declFile      string
	statementFile string
	dump          bool
	mockRate      string
}

func (*addCmd) Name() string { return "add" }
func (*addCmd) Synopsis() string {
	return "inject broker statement dividends into a declaration file"
}
func (*addCmd) Usage() string {
	return `dcledit add -d <declaration> -s <statement.csv> [-dump] [-mock-rate <rate>]

  Parses the declaration, validates the template income item, appends one
  foreign income per statement dividend, and rewrites the file in place.
  Every byte outside the foreign income block is preserved.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.declFile, "d", "", "Declaration file to edit in place.")
	f.StringVar(&c.statementFile, "s", "", "Broker statement (CSV) with the dividends to inject.")
	f.BoolVar(&c.dump, "dump", false, "Show the foreign income block before and after editing.")
	f.StringVar(&c.mockRate, "mock-rate", "", "Use this fixed exchange rate instead of the official feed.")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.declFile == "" || c.statementFile == "" {
		fmt.Fprintln(os.Stderr, "Error: both -d and -s are required.")
		return subcommands.ExitUsageError
	}

	s, err := decl.ReadFile(c.declFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	sf, err := os.Open(c.statementFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening statement %q: %v\n", c.statementFile, err)
		return subcommands.ExitFailure
	}
	incomes, err := broker.ReadStatement(sf)
	sf.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	// When mocking, the template's recorded rates are not revalidated.
	var src decl.RateSource
	var validateSrc decl.RateSource
	if c.mockRate != "" {
		quote, err := decimal.NewFromString(c.mockRate)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid -mock-rate %q: %v\n", c.mockRate, err)
			return subcommands.ExitUsageError
		}
		src = cbr.Fixed{Quote: quote}
	} else {
		src = cbr.New(cbr.NewRates())
		validateSrc = src
	}

	if c.dump {
		if err := dumpIncomes(s); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	if err := s.ValidateIncomeBlock(validateSrc); err != nil {
		fmt.Fprintf(os.Stderr, "Declaration %q cannot be edited: %v\n", c.declFile, err)
		return subcommands.ExitFailure
	}

	for _, inc := range incomes {
		if err := s.AddIncome(inc, src); err != nil {
			fmt.Fprintf(os.Stderr, "Error adding income %q on %s: %v\n", inc.Issuer, inc.Date, err)
			return subcommands.ExitFailure
		}
	}

	if c.dump {
		if err := dumpIncomes(s); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}

	if err := decl.WriteFile(c.declFile, s); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Added %d income(s) to %s\n", len(incomes), c.declFile)
	return subcommands.ExitSuccess
}

// dumpIncomes renders the foreign income block to the terminal.
func dumpIncomes(s *decl.Statement) error {
	entries, err := s.Incomes()
	if err != nil {
		return err
	}
	printMarkdown(renderer.Incomes(s.Year, entries))
	return nil
}
