package decl

import (
	"fmt"
	"os"

	"golang.org/x/text/encoding/charmap"
)

// Declaration files are stored in the windows-1251 legacy encoding; field
// lengths count characters of that encoding, so the stream is transcoded
// once at the file boundary and the codec works on runes.

// ReadFile loads, transcodes and parses a declaration document. Before
// returning it checks that re-encoding the fresh parse reproduces the
// file byte for byte: a document that does not survive the round trip
// must not be edited.
func ReadFile(path string) (*Statement, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read declaration %q: %w", path, err)
	}
	stream, err := charmap.Windows1251.NewDecoder().String(string(raw))
	if err != nil {
		return nil, fmt.Errorf("cannot transcode declaration %q: %w", path, err)
	}
	s, err := Parse(stream)
	if err != nil {
		return nil, fmt.Errorf("cannot parse declaration %q: %w", path, err)
	}
	out, err := s.Encode()
	if err != nil {
		return nil, fmt.Errorf("cannot re-encode declaration %q: %w", path, err)
	}
	if out != stream {
		return nil, fmt.Errorf("declaration %q does not survive a re-encode round trip, refusing to edit it", path)
	}
	return s, nil
}

// WriteFile encodes the document and writes it to the path in one shot.
func WriteFile(path string, s *Statement) error {
	stream, err := s.Encode()
	if err != nil {
		return fmt.Errorf("cannot encode declaration %q: %w", path, err)
	}
	raw, err := charmap.Windows1251.NewEncoder().String(stream)
	if err != nil {
		return fmt.Errorf("cannot transcode declaration %q: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		return fmt.Errorf("cannot write declaration %q: %w", path, err)
	}
	return nil
}
