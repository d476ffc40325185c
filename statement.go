package decl

import (
	"fmt"
	"strconv"
	"strings"
)

// Framing constants of the declaration stream.
const (
	headerPrefix = "DLSG            Decl"
	headerSuffix = "0102FL"
	recordMark   = "@"
	terminalTag  = "Nalog"
	footer       = "\x00\x00"
)

// headerLen is the fixed character count of the header: prefix, 4-digit
// year, suffix.
const headerLen = len(headerPrefix) + 4 + len(headerSuffix)

// Statement is a whole declaration document: the header year and the
// ordered record list.
type Statement struct {
	Year int
	Doc  *Document
}

// Parse reads a full declaration stream, already transcoded from the
// legacy encoding.
func Parse(stream string) (*Statement, error) {
	src := []rune(stream)
	if len(src) < headerLen {
		return nil, fmt.Errorf("stream of %d characters is shorter than the %d-character header", len(src), headerLen)
	}
	if got := string(src[:len(headerPrefix)]); got != headerPrefix {
		return nil, fmt.Errorf("bad header %q: want prefix %q", got, headerPrefix)
	}
	yearStr := string(src[len(headerPrefix) : len(headerPrefix)+4])
	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 1000 {
		return nil, fmt.Errorf("bad header year %q: want a 4-digit year", yearStr)
	}
	if got := string(src[len(headerPrefix)+4 : headerLen]); got != headerSuffix {
		return nil, fmt.Errorf("bad header %q: want suffix %q", got, headerSuffix)
	}

	records, err := parseRecords(&tokenizer{src: src, pos: headerLen})
	if err != nil {
		return nil, err
	}
	return &Statement{Year: year, Doc: NewDocument(records)}, nil
}

// Encode re-emits the full stream: header, records, footer. For an
// unmodified parse the result is byte-identical to the input; the whole
// editing feature depends on that contract.
func (s *Statement) Encode() (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%04d%s", headerPrefix, s.Year, headerSuffix)
	if err := encodeRecords(&b, s.Doc.Records()); err != nil {
		return "", err
	}
	b.WriteString(footer)
	return b.String(), nil
}
