package decl

import (
	"errors"
	"fmt"
)

// Structural errors callers branch on.
var (
	// ErrNotFound reports that no record carries the requested tag.
	ErrNotFound = errors.New("record not found")
	// ErrAmbiguous reports that a singleton tag matches several records.
	ErrAmbiguous = errors.New("ambiguous record")
)

// Document holds the ordered record list of a parsed declaration.
//
// Record order is load-bearing: the format has no cross-references, a
// counter record is simply followed by the indexed records it counts.
// Records mutate only through ReplaceBlock, never field by field.
type Document struct {
	records []RawRecord
}

// NewDocument wraps an ordered record list.
func NewDocument(records []RawRecord) *Document { return &Document{records: records} }

// Records returns the ordered record list. Callers must treat it as
// read-only.
func (d *Document) Records() []RawRecord { return d.records }

// FindUnique returns the position of the single record carrying the tag.
// Duplicates are never valid for singleton record types, so more than one
// match fails as ambiguous rather than silently picking one.
func (d *Document) FindUnique(tag string) (int, error) {
	pos := -1
	for i, r := range d.records {
		if r.Tag != tag {
			continue
		}
		if pos >= 0 {
			return 0, fmt.Errorf("%w: %q at positions %d and %d", ErrAmbiguous, tag, pos, i)
		}
		pos = i
	}
	if pos < 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotFound, tag)
	}
	return pos, nil
}

// Block couples a counter view with the contiguous item views it counts.
type Block struct {
	counterPos int
	Counter    *View
	Items      []*View
}

// ReadBlock reads the counter record, then the item records at sequential
// indices. Item positions must follow the counter without a gap; any
// other layout means the document no longer matches the tool's structural
// assumptions.
func (d *Document) ReadBlock(counterSpec, itemSpec *ViewSpec, countField string) (*Block, error) {
	pos, err := d.FindUnique(counterSpec.TypeTag(0))
	if err != nil {
		return nil, err
	}
	counter, err := counterSpec.FromRecord(d.records[pos])
	if err != nil {
		return nil, err
	}
	count := counter.Int(countField)
	items := make([]*View, 0, count)
	for i := 0; i < count; i++ {
		tag := itemSpec.TypeTag(i)
		itemPos, err := d.FindUnique(tag)
		if err != nil {
			return nil, err
		}
		if itemPos != pos+1+i {
			return nil, fmt.Errorf("block %q is not contiguous: item %q at position %d, want %d", counterSpec.Tag, tag, itemPos, pos+1+i)
		}
		item, err := itemSpec.FromRecord(d.records[itemPos])
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return &Block{counterPos: pos, Counter: counter, Items: items}, nil
}

// ReplaceBlock is the only mutation entry point. It re-reads the block
// (re-checking every invariant), rewrites the counter's count field and
// replaces the contiguous record slice with the new counter followed by
// the items re-indexed 0..n-1. Records outside the slice are never
// touched.
func (d *Document) ReplaceBlock(counterSpec, itemSpec *ViewSpec, countField string, items []*View) error {
	block, err := d.ReadBlock(counterSpec, itemSpec, countField)
	if err != nil {
		return err
	}

	block.Counter.SetInt(countField, len(items))
	repl := make([]RawRecord, 0, len(items)+1)
	counterRaw, err := block.Counter.ToRecord(0)
	if err != nil {
		return err
	}
	repl = append(repl, counterRaw)
	for i, item := range items {
		raw, err := item.ToRecord(i)
		if err != nil {
			return err
		}
		repl = append(repl, raw)
	}

	head := d.records[:block.counterPos]
	tail := d.records[block.counterPos+1+len(block.Items):]
	records := make([]RawRecord, 0, len(head)+len(repl)+len(tail))
	records = append(records, head...)
	records = append(records, repl...)
	records = append(records, tail...)
	d.records = records
	return nil
}
