package decl

import (
	"fmt"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
)

// Field names of the foreign-income records.
const (
	fCount = "count"

	fIncomeCode      = "incomeCode"
	fIncomeName      = "name"
	fJurisdiction    = "jurisdiction"
	fIncomeDate      = "incomeDate"
	fTaxPaymentDate  = "taxPaymentDate"
	fAutoRate        = "autoRate"
	fCurrencyCode    = "currencyCode"
	fIncomeRate      = "incomeRate"
	fIncomeRateUnits = "incomeRateUnits"
	fTaxRate         = "taxRate"
	fTaxRateUnits    = "taxRateUnits"
	fCurrencyName    = "currencyName"
	fIncomeValue     = "incomeValue"
	fTaxValue        = "taxValue"
)

// DeclForeign is the counter record preceding the foreign-income block.
var DeclForeign = &ViewSpec{
	Tag:    "DeclForeign",
	Fields: []FieldSpec{{fCount, Integer{}}},
}

// CurrencyIncome is one foreign-income item. Its tag carries a
// three-digit zero-padded index: CurrencyIncome000, CurrencyIncome001...
var CurrencyIncome = &ViewSpec{
	Tag:        "CurrencyIncome",
	IndexWidth: 3,
	Fields: []FieldSpec{
		{fIncomeCode, Text{}},
		{fIncomeName, Text{}},
		{fJurisdiction, Integer{}},
		{fIncomeDate, SerialDate{}},
		{fTaxPaymentDate, SerialDate{}},
		{fAutoRate, Flag{}},
		{fCurrencyCode, Text{}},
		{fIncomeRate, Integer{}},
		{fIncomeRateUnits, Integer{}},
		{fTaxRate, Integer{}},
		{fTaxRateUnits, Integer{}},
		{fCurrencyName, Text{}},
		{fIncomeValue, Amount{}},
		{fTaxValue, Amount{}},
	},
}

// Values the template item must carry. They are the tool's hardcoded
// assumptions about the document; a divergence means the document was
// prepared differently and the tool must refuse to edit it.
const (
	templateName       = "dividend"
	dividendIncomeCode = "1010"
	usdJurisdiction    = 840
	usdNumericCode     = "840"
	usdCurrencyName    = "US Dollar"
	rateUnits          = 100
)

// RateSource yields the official exchange rate effective on a date.
type RateSource interface {
	Rate(on date.Date) (decimal.Decimal, error)
}

// Income is one dividend event to inject into the declaration.
type Income struct {
	Date   date.Date
	Issuer string
	Gross  decimal.Decimal // gross dividend, statement currency
	Tax    decimal.Decimal // tax withheld at source
}

// RateOrdinal converts a quoted exchange rate into the integer form the
// document stores: the 2-decimal half-to-even rounding scaled by the
// fixed 100-unit denominator.
func RateOrdinal(rate decimal.Decimal) int {
	return int(rate.RoundBank(2).Mul(decimal.NewFromInt(rateUnits)).IntPart())
}

// referenceDate is the day the template item must be dated: January 1 of
// the declaration year.
func (s *Statement) referenceDate() date.Date {
	return date.New(s.Year, time.January, 1)
}

// findTemplate locates the single block item whose name field equals the
// template marker.
func findTemplate(items []*View, name string) (*View, error) {
	var found *View
	for _, item := range items {
		if item.Text(fIncomeName) != name {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: several income items named %q", ErrAmbiguous, name)
		}
		found = item
	}
	if found == nil {
		return nil, fmt.Errorf("%w: no income item named %q", ErrNotFound, name)
	}
	return found, nil
}

// validateTemplate asserts the fixed set of invariant fields on the
// template item. src may be nil (rate-mocking mode) to skip the
// recomputed-rate checks only; the structural checks always run.
func (s *Statement) validateTemplate(template *View, src RateSource) error {
	if got := template.Text(fIncomeCode); got != dividendIncomeCode {
		return fmt.Errorf("template income code is %q, want %q", got, dividendIncomeCode)
	}
	if got := template.Int(fJurisdiction); got != usdJurisdiction {
		return fmt.Errorf("template jurisdiction code is %d, want %d", got, usdJurisdiction)
	}
	if got := template.Text(fCurrencyCode); got != usdNumericCode {
		return fmt.Errorf("template currency code is %q, want %q", got, usdNumericCode)
	}
	cur := money.GetCurrencyByNumericCode(template.Text(fCurrencyCode))
	if cur == nil || cur.Code != money.USD {
		return fmt.Errorf("template currency code %q does not resolve to %s", template.Text(fCurrencyCode), money.USD)
	}
	if got := template.Text(fCurrencyName); got != usdCurrencyName {
		return fmt.Errorf("template currency name is %q, want %q", got, usdCurrencyName)
	}
	ref := s.referenceDate()
	if got := template.Date(fIncomeDate); got != ref {
		return fmt.Errorf("template income date is %s, want %s", got, ref)
	}
	if got := template.Date(fTaxPaymentDate); got != ref {
		return fmt.Errorf("template tax payment date is %s, want %s", got, ref)
	}
	if template.Flag(fAutoRate) {
		return fmt.Errorf("template has automatic rate conversion enabled, want manual rates")
	}
	if got := template.Int(fIncomeRateUnits); got != rateUnits {
		return fmt.Errorf("template income rate units is %d, want %d", got, rateUnits)
	}
	if got := template.Int(fTaxRateUnits); got != rateUnits {
		return fmt.Errorf("template tax rate units is %d, want %d", got, rateUnits)
	}

	if src == nil {
		return nil
	}
	rate, err := src.Rate(ref)
	if err != nil {
		return err
	}
	want := RateOrdinal(rate)
	if got := template.Int(fIncomeRate); got != want {
		return fmt.Errorf("template income rate is %d, the official rate on %s gives %d", got, ref, want)
	}
	if got := template.Int(fTaxRate); got != want {
		return fmt.Errorf("template tax rate is %d, the official rate on %s gives %d", got, ref, want)
	}
	return nil
}

// ValidateIncomeBlock checks the foreign-income block and its template
// item against the tool's structural assumptions before any edit.
func (s *Statement) ValidateIncomeBlock(src RateSource) error {
	block, err := s.Doc.ReadBlock(DeclForeign, CurrencyIncome, fCount)
	if err != nil {
		return err
	}
	template, err := findTemplate(block.Items, templateName)
	if err != nil {
		return err
	}
	return s.validateTemplate(template, src)
}

// AddIncome clones the template item, overwrites its date, name, amount,
// rate and tax fields from the dividend, and appends it to the
// foreign-income block. The caller is expected to have run
// ValidateIncomeBlock first.
func (s *Statement) AddIncome(inc Income, src RateSource) error {
	block, err := s.Doc.ReadBlock(DeclForeign, CurrencyIncome, fCount)
	if err != nil {
		return err
	}
	template, err := findTemplate(block.Items, templateName)
	if err != nil {
		return err
	}
	rate, err := src.Rate(inc.Date)
	if err != nil {
		return err
	}

	item := template.Clone()
	item.SetText(fIncomeName, inc.Issuer)
	item.SetDate(fIncomeDate, inc.Date)
	item.SetDate(fTaxPaymentDate, inc.Date)
	item.SetAmount(fIncomeValue, inc.Gross)
	item.SetAmount(fTaxValue, inc.Tax)
	ordinal := RateOrdinal(rate)
	item.SetInt(fIncomeRate, ordinal)
	item.SetInt(fTaxRate, ordinal)

	items := append(block.Items, item)
	return s.Doc.ReplaceBlock(DeclForeign, CurrencyIncome, fCount, items)
}

// IncomeEntry is the decoded content of one foreign-income item, for
// display.
type IncomeEntry struct {
	Name      string
	Date      date.Date
	TaxDate   date.Date
	Rate      int
	RateUnits int
	Gross     decimal.Decimal
	Tax       decimal.Decimal
}

// Incomes decodes the foreign-income block into display entries.
func (s *Statement) Incomes() ([]IncomeEntry, error) {
	block, err := s.Doc.ReadBlock(DeclForeign, CurrencyIncome, fCount)
	if err != nil {
		return nil, err
	}
	entries := make([]IncomeEntry, 0, len(block.Items))
	for _, item := range block.Items {
		entries = append(entries, IncomeEntry{
			Name:      item.Text(fIncomeName),
			Date:      item.Date(fIncomeDate),
			TaxDate:   item.Date(fTaxPaymentDate),
			Rate:      item.Int(fIncomeRate),
			RateUnits: item.Int(fIncomeRateUnits),
			Gross:     item.Amount(fIncomeValue),
			Tax:       item.Amount(fTaxValue),
		})
	}
	return entries, nil
}
