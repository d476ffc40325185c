package decl

import (
	"fmt"

	"github.com/etnz/decl/date"
	"github.com/shopspring/decimal"
)

// RawRecord is a record as it sits in the stream: a type tag and the
// ordered field payloads, all still strings.
type RawRecord struct {
	Tag    string
	Fields []string
}

// FieldSpec names one positional field and the codec that reads it.
type FieldSpec struct {
	Name  string
	Codec FieldCodec
}

// ViewSpec declares the typed layout of one record type.
//
// IndexWidth > 0 means records of this type are part of a counted block
// and their effective tag carries a zero-padded index suffix.
type ViewSpec struct {
	Tag        string
	IndexWidth int
	Fields     []FieldSpec
}

// TypeTag returns the tag a record of this spec carries at the given
// index. The same function serves encoding and search, so the two can
// never diverge.
func (s *ViewSpec) TypeTag(index int) string {
	if s.IndexWidth == 0 {
		return s.Tag
	}
	return fmt.Sprintf("%s%0*d", s.Tag, s.IndexWidth, index)
}

// View is a typed projection of a RawRecord: the spec's fields decoded
// positionally into values.
type View struct {
	spec   *ViewSpec
	values []any
}

// FromRecord decodes a raw record positionally against the spec.
//
// A field-count mismatch means the document's structure no longer matches
// the schema this tool was built for; it is fatal, not user-recoverable.
func (s *ViewSpec) FromRecord(raw RawRecord) (*View, error) {
	if len(raw.Fields) != len(s.Fields) {
		return nil, fmt.Errorf("record %q has %d fields, schema %q declares %d", raw.Tag, len(raw.Fields), s.Tag, len(s.Fields))
	}
	values := make([]any, len(raw.Fields))
	for i, f := range s.Fields {
		v, err := f.Codec.Decode(raw.Fields[i])
		if err != nil {
			return nil, fmt.Errorf("record %q field %q: %w", raw.Tag, f.Name, err)
		}
		values[i] = v
	}
	return &View{spec: s, values: values}, nil
}

// ToRecord re-encodes the typed fields positionally into a raw record
// tagged for the given index.
func (v *View) ToRecord(index int) (RawRecord, error) {
	fields := make([]string, len(v.spec.Fields))
	for i, f := range v.spec.Fields {
		s, err := f.Codec.Encode(v.values[i])
		if err != nil {
			return RawRecord{}, fmt.Errorf("record %q field %q: %w", v.spec.Tag, f.Name, err)
		}
		fields[i] = s
	}
	return RawRecord{Tag: v.spec.TypeTag(index), Fields: fields}, nil
}

// Clone returns an independent copy of the view.
func (v *View) Clone() *View {
	values := make([]any, len(v.values))
	copy(values, v.values)
	return &View{spec: v.spec, values: values}
}

// index resolves a field name against the static schema table. An
// unknown name is a programming error.
func (v *View) index(name string) int {
	for i, f := range v.spec.Fields {
		if f.Name == name {
			return i
		}
	}
	panic(fmt.Sprintf("schema %q has no field %q", v.spec.Tag, name))
}

// Typed accessors. The value types are guaranteed by the codecs in the
// schema table; a type mismatch here is a schema bug.

func (v *View) Text(name string) string            { return v.values[v.index(name)].(string) }
func (v *View) Flag(name string) bool              { return v.values[v.index(name)].(bool) }
func (v *View) Int(name string) int                { return v.values[v.index(name)].(int) }
func (v *View) Date(name string) date.Date         { return v.values[v.index(name)].(date.Date) }
func (v *View) Amount(name string) decimal.Decimal { return v.values[v.index(name)].(decimal.Decimal) }

func (v *View) SetText(name, s string)                   { v.values[v.index(name)] = s }
func (v *View) SetFlag(name string, b bool)              { v.values[v.index(name)] = b }
func (v *View) SetInt(name string, n int)                { v.values[v.index(name)] = n }
func (v *View) SetDate(name string, d date.Date)         { v.values[v.index(name)] = d }
func (v *View) SetAmount(name string, d decimal.Decimal) { v.values[v.index(name)] = d }
