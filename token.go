package decl

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// This file turns the flat character stream into records and back.
//
// Lengths count characters of the legacy single-byte encoding, which map
// one-to-one onto runes after transcoding, so the tokenizer works on runes.

const lengthDigits = 4
const maxFieldLen = 9999 // largest count a 4-digit prefix can frame

// tokenizer splits the flat character stream into length-prefixed fields.
type tokenizer struct {
	src []rune
	pos int
}

// rest returns the not-yet-consumed part of the stream.
func (t *tokenizer) rest() string { return string(t.src[t.pos:]) }

// next reads one length-prefixed field.
func (t *tokenizer) next() (string, error) {
	if len(t.src)-t.pos < lengthDigits {
		return "", fmt.Errorf("unexpected end of stream at %d: want a %d-digit length prefix, have %q", t.pos, lengthDigits, t.rest())
	}
	prefix := string(t.src[t.pos : t.pos+lengthDigits])
	n, err := strconv.Atoi(prefix)
	if err != nil || n < 0 {
		return "", fmt.Errorf("invalid length prefix %q at %d", prefix, t.pos)
	}
	start := t.pos + lengthDigits
	if len(t.src)-start < n {
		return "", fmt.Errorf("unexpected end of stream at %d: field declares %d characters but only %d remain", start, n, len(t.src)-start)
	}
	t.pos = start + n
	return string(t.src[start:t.pos]), nil
}

// parseRecords assembles fields into records until the terminal record is
// read. A field whose payload starts with the record mark opens a new
// record; any other field is appended to the currently open one.
//
// The stream must end with a "Nalog" record holding the single field "0",
// immediately followed by the footer sentinel. Anything else at that
// point is a framing error.
func parseRecords(t *tokenizer) ([]RawRecord, error) {
	var records []RawRecord
	for {
		field, err := t.next()
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(field, recordMark) {
			records = append(records, RawRecord{Tag: strings.TrimPrefix(field, recordMark)})
			continue
		}
		if len(records) == 0 {
			return nil, fmt.Errorf("data field %q at %d before any record", field, t.pos)
		}
		last := &records[len(records)-1]
		last.Fields = append(last.Fields, field)
		if last.Tag != terminalTag {
			continue
		}
		if len(last.Fields) != 1 || last.Fields[0] != "0" {
			return nil, fmt.Errorf("malformed terminal record %q: fields %q", terminalTag, last.Fields)
		}
		if rest := t.rest(); rest != footer {
			return nil, fmt.Errorf("bad footer at %d: want %q, have %q", t.pos, footer, rest)
		}
		return records, nil
	}
}

// encodeField frames one payload with its 4-digit character count.
func encodeField(b *strings.Builder, payload string) error {
	n := utf8.RuneCountInString(payload)
	if n > maxFieldLen {
		return fmt.Errorf("field of %d characters exceeds the framing limit %d: %.40q...", n, maxFieldLen, payload)
	}
	fmt.Fprintf(b, "%0*d%s", lengthDigits, n, payload)
	return nil
}

// encodeRecords re-serializes the record list: for each record a tag
// field marked with "@", then its data fields, each length-prefixed.
// For a document produced by a successful parse with no field changes
// this is the exact inverse of parseRecords.
func encodeRecords(b *strings.Builder, records []RawRecord) error {
	for _, r := range records {
		if err := encodeField(b, recordMark+r.Tag); err != nil {
			return err
		}
		for _, f := range r.Fields {
			if err := encodeField(b, f); err != nil {
				return err
			}
		}
	}
	return nil
}
