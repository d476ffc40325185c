package cbr

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

// This file accesses the bank's XML_dynamic endpoint.
//
// https://www.cbr.ru/scripts/XML_dynamic.asp?date_req1=01/01/2021&date_req2=31/12/2021&VAL_NM_RQ=R01235
// <ValCurs ID="R01235" DateRange1="01.01.2021" DateRange2="31.12.2021" name="Foreign Currency Market Dynamic">
//   <Record Date="12.01.2021" Id="R01235">
//     <Nominal>1</Nominal>
//     <Value>74,1373</Value>
//   </Record>
//   ...

// fetchYear downloads the daily quotes of one rate year.
func (c *Client) fetchYear(year int) (map[date.Date]decimal.Decimal, error) {
	from := yearStart(year)
	to := yearStart(year + 1).Add(-1)
	addr := fmt.Sprintf("https://www.cbr.ru/scripts/XML_dynamic.asp?date_req1=%s&date_req2=%s&VAL_NM_RQ=%s",
		reqDate(from), reqDate(to), usdSeries)
	log.Printf("fetch-rates year=%d range=%s..%s", year, from, to)

	resp, err := c.http.Get(addr)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch rates for %d: %w", year, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot fetch rates for %d: %s", year, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot read rates payload for %d: %w", year, err)
	}
	return parseRates(body)
}

// reqDate formats a date the way the endpoint expects, dd/mm/yyyy.
func reqDate(d date.Date) string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day(), d.Month(), d.Year())
}

// parseRates decodes a ValCurs XML payload into daily quotes with 4
// fraction digits.
func parseRates(body []byte) (map[date.Date]decimal.Decimal, error) {
	var payload struct {
		Records []struct {
			Date    string `xml:"Date,attr"`
			Nominal string `xml:"Nominal"`
			Value   string `xml:"Value"`
		} `xml:"Record"`
	}

	dec := xml.NewDecoder(bytes.NewReader(body))
	// The feed declares the same legacy encoding the declaration files use.
	dec.CharsetReader = func(charset string, input io.Reader) (io.Reader, error) {
		switch strings.ToLower(charset) {
		case "windows-1251":
			return charmap.Windows1251.NewDecoder().Reader(input), nil
		}
		return nil, fmt.Errorf("unexpected charset %q in rates payload", charset)
	}
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("cannot parse rates payload: %w", err)
	}

	quotes := make(map[date.Date]decimal.Decimal, len(payload.Records))
	for _, r := range payload.Records {
		on, err := time.Parse("02.01.2006", r.Date)
		if err != nil {
			return nil, fmt.Errorf("cannot parse quote date %q: %w", r.Date, err)
		}
		// Quotes use a comma as the decimal separator.
		value, err := decimal.NewFromString(strings.ReplaceAll(r.Value, ",", "."))
		if err != nil {
			return nil, fmt.Errorf("cannot parse quote value %q: %w", r.Value, err)
		}
		nominal, err := decimal.NewFromString(r.Nominal)
		if err != nil {
			return nil, fmt.Errorf("cannot parse quote nominal %q: %w", r.Nominal, err)
		}
		quotes[date.New(on.Date())] = value.Div(nominal).Round(4)
	}
	return quotes, nil
}
