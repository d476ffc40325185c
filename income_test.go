package decl

import (
	"errors"
	"strings"
	"testing"

	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
)

func TestRateOrdinal(t *testing.T) {
	cases := []struct {
		rate string
		want int
	}{
		{"75.1234", 7512},
		{"73", 7300},
		{"73.005", 7300}, // half to even rounds down
		{"73.015", 7302}, // half to even rounds up
		{"0.01", 1},
	}
	for _, c := range cases {
		if got := RateOrdinal(decimal.RequireFromString(c.rate)); got != c.want {
			t.Errorf("RateOrdinal(%s) = %d, want %d", c.rate, got, c.want)
		}
	}
}

func sampleStatement(t *testing.T) *Statement {
	t.Helper()
	s, err := Parse(sampleStream())
	if err != nil {
		t.Fatalf("Parse() returned an unexpected error: %v", err)
	}
	return s
}

func TestValidateIncomeBlock(t *testing.T) {
	s := sampleStatement(t)
	// The template rates are 7300: an official rate of 73 must match.
	src := fixedRate(decimal.RequireFromString("73"))
	if err := s.ValidateIncomeBlock(src); err != nil {
		t.Errorf("ValidateIncomeBlock() returned an unexpected error: %v", err)
	}
}

func TestValidateIncomeBlock_RateDivergence(t *testing.T) {
	s := sampleStatement(t)
	src := fixedRate(decimal.RequireFromString("75.1234"))
	err := s.ValidateIncomeBlock(src)
	if err == nil || !strings.Contains(err.Error(), "7512") {
		t.Errorf("ValidateIncomeBlock() = %v, want a rate divergence error", err)
	}
}

// TestValidateIncomeBlock_BadTemplate mutates every invariant field in
// turn; each mutation must fail validation on its own.
func TestValidateIncomeBlock_BadTemplate(t *testing.T) {
	cases := []struct {
		name  string
		field int // position in the CurrencyIncome record
		value string
	}{
		{"income code", 0, "2010"},
		{"jurisdiction", 2, "826"},
		{"income date", 3, "44198"},
		{"tax payment date", 4, "44198"},
		{"automatic rate", 5, "1"},
		{"currency code", 6, "978"},
		{"income rate units", 8, "1000"},
		{"tax rate units", 10, "1000"},
		{"currency name", 11, "Euro"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := sampleStatement(t)
			pos, err := s.Doc.FindUnique("CurrencyIncome000")
			if err != nil {
				t.Fatalf("FindUnique() returned an unexpected error: %v", err)
			}
			s.Doc.records[pos].Fields[c.field] = c.value

			if err := s.ValidateIncomeBlock(nil); err == nil {
				t.Errorf("ValidateIncomeBlock() accepted a template with a bad %s", c.name)
			}
		})
	}
}

func TestValidateIncomeBlock_NoTemplate(t *testing.T) {
	s := sampleStatement(t)
	pos, err := s.Doc.FindUnique("CurrencyIncome000")
	if err != nil {
		t.Fatalf("FindUnique() returned an unexpected error: %v", err)
	}
	s.Doc.records[pos].Fields[1] = "Acme Corp (ACME)"

	if err := s.ValidateIncomeBlock(nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("ValidateIncomeBlock() = %v, want ErrNotFound", err)
	}
}

func TestValidateIncomeBlock_AmbiguousTemplate(t *testing.T) {
	s := sampleStatement(t)
	block, err := s.Doc.ReadBlock(DeclForeign, CurrencyIncome, fCount)
	if err != nil {
		t.Fatalf("ReadBlock() returned an unexpected error: %v", err)
	}
	if err := s.Doc.ReplaceBlock(DeclForeign, CurrencyIncome, fCount, append(block.Items, block.Items[0].Clone())); err != nil {
		t.Fatalf("ReplaceBlock() returned an unexpected error: %v", err)
	}

	if err := s.ValidateIncomeBlock(nil); !errors.Is(err, ErrAmbiguous) {
		t.Errorf("ValidateIncomeBlock() = %v, want ErrAmbiguous", err)
	}
}

func TestAddIncome_PreservesTemplate(t *testing.T) {
	s := sampleStatement(t)
	income := Income{
		Date:   date.MustParse("2021-05-14"),
		Issuer: "Acme Corp (ACME)",
		Gross:  decimal.RequireFromString("100"),
		Tax:    decimal.RequireFromString("15"),
	}
	src := fixedRate(decimal.RequireFromString("75.1234"))
	if err := s.AddIncome(income, src); err != nil {
		t.Fatalf("AddIncome() returned an unexpected error: %v", err)
	}

	// The template item itself stays untouched so further dividends can
	// be appended to the same document.
	if err := s.ValidateIncomeBlock(nil); err != nil {
		t.Errorf("ValidateIncomeBlock() after an edit returned: %v", err)
	}
	entries, err := s.Incomes()
	if err != nil {
		t.Fatalf("Incomes() returned an unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Incomes() returned %d entries, want 2", len(entries))
	}
	added := entries[1]
	if added.Name != "Acme Corp (ACME)" || added.Rate != 7512 {
		t.Errorf("added entry = %+v, want the injected dividend", added)
	}
	if !added.Gross.Equal(decimal.RequireFromString("100")) || !added.Tax.Equal(decimal.RequireFromString("15")) {
		t.Errorf("added entry amounts = %s/%s, want 100/15", added.Gross, added.Tax)
	}
}
