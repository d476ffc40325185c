package decl

import (
	"testing"
	"time"

	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
)

func TestFlag(t *testing.T) {
	for _, c := range []struct {
		s string
		v bool
	}{{"0", false}, {"1", true}} {
		got, err := Flag{}.Decode(c.s)
		if err != nil {
			t.Fatalf("Decode(%q) returned an unexpected error: %v", c.s, err)
		}
		if got != c.v {
			t.Errorf("Decode(%q) = %v, want %v", c.s, got, c.v)
		}
		back, err := Flag{}.Encode(got)
		if err != nil || back != c.s {
			t.Errorf("Encode(Decode(%q)) = %q, %v; want the original", c.s, back, err)
		}
	}

	for _, s := range []string{"", "2", "true", "01"} {
		if _, err := (Flag{}).Decode(s); err == nil {
			t.Errorf("Decode(%q) should have failed", s)
		}
	}
}

func TestInteger(t *testing.T) {
	got, err := Integer{}.Decode("7512")
	if err != nil {
		t.Fatalf("Decode() returned an unexpected error: %v", err)
	}
	if got != 7512 {
		t.Errorf("Decode(7512) = %v, want 7512", got)
	}

	// Non-canonical forms would not re-encode to the same bytes.
	for _, s := range []string{"007", "+7", " 7", "7 ", ""} {
		if _, err := (Integer{}).Decode(s); err == nil {
			t.Errorf("Decode(%q) should have failed", s)
		}
	}
}

func TestSerialDate(t *testing.T) {
	cases := []struct {
		s string
		d date.Date
	}{
		{"0", date.New(1899, time.December, 30)},
		{"44197", date.New(2021, time.January, 1)},
		{"44330", date.New(2021, time.May, 14)},
	}
	for _, c := range cases {
		got, err := SerialDate{}.Decode(c.s)
		if err != nil {
			t.Fatalf("Decode(%q) returned an unexpected error: %v", c.s, err)
		}
		if got != c.d {
			t.Errorf("Decode(%q) = %v, want %v", c.s, got, c.d)
		}
		back, err := SerialDate{}.Encode(c.d)
		if err != nil || back != c.s {
			t.Errorf("Encode(%v) = %q, %v; want %q", c.d, back, err, c.s)
		}
	}

	if _, err := (SerialDate{}).Decode("0044197"); err == nil {
		t.Error("Decode(0044197) should have failed: non-canonical offset")
	}
}

func TestAmount(t *testing.T) {
	v, err := Amount{}.Decode("100.00")
	if err != nil {
		t.Fatalf("Decode() returned an unexpected error: %v", err)
	}
	if !v.(decimal.Decimal).Equal(decimal.RequireFromString("100")) {
		t.Errorf("Decode(100.00) = %v, want 100", v)
	}

	s, err := Amount{}.Encode(v)
	if err != nil {
		t.Fatalf("Encode() returned an unexpected error: %v", err)
	}
	if s != "100.00" {
		t.Errorf("Encode(100) = %q, want \"100.00\"", s)
	}

	// A value with more than 2 fraction digits is an internal bug, not
	// something to round silently.
	if _, err := (Amount{}).Encode(decimal.RequireFromString("100.005")); err == nil {
		t.Error("Encode(100.005) should have failed")
	}
}
