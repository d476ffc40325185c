package decl

import (
	"fmt"
	"strconv"
	"time"

	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
)

// FieldCodec converts between a typed field value and the string form the
// document stores.
//
// For ordinal codecs (Flag, Integer, SerialDate) decoding is canonical:
// re-encoding a decoded value reproduces the original string exactly, and
// any string that would not survive that round trip is rejected.
type FieldCodec interface {
	Encode(v any) (string, error)
	Decode(s string) (any, error)
}

// Text passes field payloads through unchanged.
type Text struct{}

func (Text) Encode(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("text field holds %T, want string", v)
	}
	return s, nil
}

func (Text) Decode(s string) (any, error) { return s, nil }

// Flag encodes a boolean as the literal "1" or "0".
type Flag struct{}

func (Flag) Encode(v any) (string, error) {
	b, ok := v.(bool)
	if !ok {
		return "", fmt.Errorf("flag field holds %T, want bool", v)
	}
	if b {
		return "1", nil
	}
	return "0", nil
}

func (Flag) Decode(s string) (any, error) {
	switch s {
	case "1":
		return true, nil
	case "0":
		return false, nil
	}
	return nil, fmt.Errorf("invalid flag %q: want \"0\" or \"1\"", s)
}

// Integer encodes via the canonical decimal string.
type Integer struct{}

func (Integer) Encode(v any) (string, error) {
	n, ok := v.(int)
	if !ok {
		return "", fmt.Errorf("integer field holds %T, want int", v)
	}
	return strconv.Itoa(n), nil
}

func (Integer) Decode(s string) (any, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", s, err)
	}
	// Reject leading zeros, explicit signs and the like: such a value
	// would not re-encode to the same bytes.
	if strconv.Itoa(n) != s {
		return nil, fmt.Errorf("non-canonical integer %q", s)
	}
	return n, nil
}

// serialEpoch is the day zero of the document's serial date fields.
var serialEpoch = date.New(1899, time.December, 30)

// SerialDate encodes a date as the integer day offset from the 1899-12-30
// epoch.
type SerialDate struct{}

func (SerialDate) Encode(v any) (string, error) {
	d, ok := v.(date.Date)
	if !ok {
		return "", fmt.Errorf("date field holds %T, want date.Date", v)
	}
	return strconv.Itoa(d.Sub(serialEpoch)), nil
}

func (SerialDate) Decode(s string) (any, error) {
	offset, err := Integer{}.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid date offset: %w", err)
	}
	return serialEpoch.Add(offset.(int)), nil
}

// Amount is a fixed-point decimal with two fraction digits, rounded
// half-to-even. Decoding parses the stored literal verbatim; encoding
// requires the value to already equal its rounded form. A value that is
// not is an internal-consistency bug, never user input.
type Amount struct{}

func (Amount) Encode(v any) (string, error) {
	d, ok := v.(decimal.Decimal)
	if !ok {
		return "", fmt.Errorf("amount field holds %T, want decimal.Decimal", v)
	}
	if !d.Equal(d.RoundBank(2)) {
		return "", fmt.Errorf("amount %s is not rounded to 2 decimal places", d)
	}
	return d.StringFixed(2), nil
}

func (Amount) Decode(s string) (any, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}
