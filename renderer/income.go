// Package renderer renders declaration content as markdown for console
// display.
package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/decl"
	"github.com/shopspring/decimal"
)

// Incomes renders the foreign-income block as a markdown table.
func Incomes(year int, entries []decl.IncomeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Foreign income, declaration %d\n\n", year)
	fmt.Fprintf(&b, "| # | Date | Name | Gross | Tax | Rate |\n")
	fmt.Fprintf(&b, "|---|------|------|------:|----:|-----:|\n")
	for i, e := range entries {
		fmt.Fprintf(&b, "| %d | %s | %s | %s | %s | %d/%d |\n",
			i, e.Date, e.Name, usd(e.Gross), usd(e.Tax), e.Rate, e.RateUnits)
	}
	fmt.Fprintf(&b, "\n%d item(s)\n", len(entries))
	return b.String()
}

// usd formats a dollar amount for display.
func usd(d decimal.Decimal) string {
	return money.New(d.Shift(2).IntPart(), money.USD).Display()
}
