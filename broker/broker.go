// Package broker reads dividend events from a CSV broker statement.
//
// The statement is spreadsheet-style CSV: a "date,issuer,amount,tax"
// header line, then one dividend per row, amounts in US dollars. The
// core never parses this format itself; this package converts it into
// typed [decl.Income] values.
package broker

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/decl"
	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
)

// statementNumericCode is the ISO numeric code of the fixed reporting
// currency of supported statements.
const statementNumericCode = "840"

var header = []string{"date", "issuer", "amount", "tax"}

// ReadStatement parses a broker statement and returns its dividends in
// statement order.
func ReadStatement(r io.Reader) ([]decl.Income, error) {
	cur := money.GetCurrencyByNumericCode(statementNumericCode)
	if cur == nil {
		return nil, fmt.Errorf("unknown statement currency code %q", statementNumericCode)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("cannot parse statement: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot parse statement: empty input, want a %q header", strings.Join(header, ","))
	}
	for i, name := range header {
		if got := strings.TrimSpace(strings.ToLower(rows[0][i])); got != name {
			return nil, fmt.Errorf("cannot parse statement: header column %d is %q, want %q", i+1, rows[0][i], name)
		}
	}

	var incomes []decl.Income
	for i, row := range rows[1:] {
		line := i + 2 // 1-based, after the header
		on, err := date.Parse(strings.TrimSpace(row[0]))
		if err != nil {
			return nil, fmt.Errorf("statement line %d: %w", line, err)
		}
		issuer := strings.TrimSpace(row[1])
		if issuer == "" {
			return nil, fmt.Errorf("statement line %d: empty issuer", line)
		}
		gross, err := parseAmount(row[2], cur)
		if err != nil {
			return nil, fmt.Errorf("statement line %d: %w", line, err)
		}
		tax, err := parseAmount(row[3], cur)
		if err != nil {
			return nil, fmt.Errorf("statement line %d: %w", line, err)
		}
		incomes = append(incomes, decl.Income{Date: on, Issuer: issuer, Gross: gross, Tax: tax})
	}
	return incomes, nil
}

// parseAmount parses a money amount and checks it fits the currency's
// fraction: the declaration stores amounts at that exact granularity.
func parseAmount(s string, cur *money.Currency) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if !v.Equal(v.RoundBank(int32(cur.Fraction))) {
		return decimal.Decimal{}, fmt.Errorf("amount %q has more than %d decimal places", s, cur.Fraction)
	}
	return v, nil
}
