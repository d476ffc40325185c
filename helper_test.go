package decl

import (
	"fmt"
	"strings"
)

// field frames one payload the way the document stream does.
func field(payload string) string {
	return fmt.Sprintf("%04d%s", len([]rune(payload)), payload)
}

// rec frames a whole record: the marked tag field then its data fields.
func rec(tag string, fields ...string) string {
	var b strings.Builder
	b.WriteString(field("@" + tag))
	for _, f := range fields {
		b.WriteString(field(f))
	}
	return b.String()
}

const sampleHeader = "DLSG            Decl20210102FL"

// sampleTemplateFields is a canonical template income item: dividends,
// USA, dated January 1st 2021 (serial 44197), manual rate 73.00.
func sampleTemplateFields() []string {
	return []string{
		"1010",      // income code: dividends
		"dividend",  // template name
		"840",       // jurisdiction
		"44197",     // income date: 2021-01-01
		"44197",     // tax payment date
		"0",         // no automatic rate conversion
		"840",       // currency code
		"7300",      // income rate
		"100",       // income rate units
		"7300",      // tax rate
		"100",       // tax rate units
		"US Dollar", // currency name
		"0.00",      // income value
		"0.00",      // tax value
	}
}

// sampleStream is a minimal valid 2021 declaration: one unrelated
// singleton record, a foreign income block holding the template item,
// and the terminal record.
func sampleStream() string {
	var b strings.Builder
	b.WriteString(sampleHeader)
	b.WriteString(rec("PersonName", "Doe J"))
	b.WriteString(rec("DeclForeign", "1"))
	b.WriteString(rec("CurrencyIncome000", sampleTemplateFields()...))
	b.WriteString(rec("Nalog", "0"))
	b.WriteString("\x00\x00")
	return b.String()
}
