// Package cbr looks up the official daily USD exchange rates published
// by the central bank, caching each rate year per process.
package cbr

import (
	"fmt"
	"net/http"
	"time"

	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
)

// usdSeries is the bank's internal identifier for the US dollar series.
const usdSeries = "R01235"

// rateYearStartDay: a rate year runs from December 20 of the prior
// calendar year, because quotes published in late December already apply
// to the next filing year.
const rateYearStartDay = 20

// RateYear returns the rate year a date belongs to.
func RateYear(on date.Date) int {
	if on.Month() == time.December && on.Day() >= rateYearStartDay {
		return on.Year() + 1
	}
	return on.Year()
}

// yearStart returns the first day of a rate year.
func yearStart(year int) date.Date {
	return date.New(year-1, time.December, rateYearStartDay)
}

// Rates caches quotes by rate year, then by date. It is constructed once
// and passed by reference to whoever needs lookups; there is no
// process-wide singleton. Entries are never invalidated, the cache lives
// for the process's duration.
type Rates struct {
	years map[int]map[date.Date]decimal.Decimal
}

// NewRates returns an empty cache.
func NewRates() *Rates {
	return &Rates{years: make(map[int]map[date.Date]decimal.Decimal)}
}

// Client looks up official rates, fetching each rate year at most once.
type Client struct {
	cache *Rates
	http  *http.Client
}

// New returns a client backed by the given cache.
func New(cache *Rates) *Client {
	return &Client{cache: cache, http: newDailyCachingClient()}
}

// Rate returns the quote effective on a date: the latest quote published
// on or before it within the same rate year. The bank publishes no quote
// on holidays, so the lookup walks backward day by day; reaching the
// start of the rate year without a quote is an error.
func (c *Client) Rate(on date.Date) (decimal.Decimal, error) {
	year := RateYear(on)
	quotes, ok := c.cache.years[year]
	if !ok {
		var err error
		quotes, err = c.fetchYear(year)
		if err != nil {
			return decimal.Decimal{}, err
		}
		c.cache.years[year] = quotes
	}
	return lookup(quotes, on, yearStart(year))
}

// lookup walks backward from 'on' down to 'start' until a quote exists.
func lookup(quotes map[date.Date]decimal.Decimal, on, start date.Date) (decimal.Decimal, error) {
	for d := on; !d.Before(start); d = d.Add(-1) {
		if rate, ok := quotes[d]; ok {
			return rate, nil
		}
	}
	return decimal.Decimal{}, fmt.Errorf("no rate published on or before %s within its rate year", on)
}

// Fixed is a rate source quoting the same rate for every date, for rate
// mocking.
type Fixed struct {
	Quote decimal.Decimal
}

func (f Fixed) Rate(on date.Date) (decimal.Decimal, error) { return f.Quote, nil }

// Table is a date-keyed rate source for tests.
type Table map[date.Date]decimal.Decimal

func (t Table) Rate(on date.Date) (decimal.Decimal, error) {
	rate, ok := t[on]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("no rate for %s", on)
	}
	return rate, nil
}
