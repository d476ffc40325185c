package decl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestReadFile_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decl.dc1")
	raw, err := charmap.Windows1251.NewEncoder().String(sampleStream())
	if err != nil {
		t.Fatalf("transcoding the sample failed: %v", err)
	}
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("writing the sample failed: %v", err)
	}

	s, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() returned an unexpected error: %v", err)
	}
	if s.Year != 2021 {
		t.Errorf("ReadFile() year = %d, want 2021", s.Year)
	}

	out := filepath.Join(t.TempDir(), "out.dc1")
	if err := WriteFile(out, s); err != nil {
		t.Fatalf("WriteFile() returned an unexpected error: %v", err)
	}
	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading back failed: %v", err)
	}
	if string(got) != raw {
		t.Errorf("WriteFile() bytes differ from the original file.\nGot:  %q\nWant: %q", got, raw)
	}
}

// Cyrillic payloads exercise the character-counted lengths: in
// windows-1251 each character is one byte, in the decoded stream one rune.
func TestReadFile_LegacyEncoding(t *testing.T) {
	stream := sampleHeader + rec("PersonName", "Иванов И") + rec("Nalog", "0") + footer
	raw, err := charmap.Windows1251.NewEncoder().String(stream)
	if err != nil {
		t.Fatalf("transcoding the sample failed: %v", err)
	}
	path := filepath.Join(t.TempDir(), "decl.dc1")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatalf("writing the sample failed: %v", err)
	}

	s, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() returned an unexpected error: %v", err)
	}
	if got := s.Doc.Records()[0].Fields[0]; got != "Иванов И" {
		t.Errorf("decoded name = %q, want the Cyrillic payload", got)
	}
}

func TestReadFile_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "decl.dc1")
	if err := os.WriteFile(path, []byte("not a declaration"), 0644); err != nil {
		t.Fatalf("writing the sample failed: %v", err)
	}
	if _, err := ReadFile(path); err == nil || !strings.Contains(err.Error(), "cannot parse") {
		t.Errorf("ReadFile() = %v, want a parse error", err)
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.dc1")); err == nil {
		t.Error("ReadFile() should have failed on a missing file")
	}
}
