package reloc

import (
	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
)

// Table is a pointer table whose entries are addresses of data placed in the
// same rebuild. It is placed only after every entry is known.
type Table struct {
	b       *Builder
	target  string
	width   int
	entries []addr.Mapped
}

// Append adds an entry and returns its index.
func (t *Table) Append(a addr.Mapped) int {
	t.entries = append(t.entries, a)
	return len(t.entries) - 1
}

// Set overwrites entry i, growing the table with zero entries if needed.
func (t *Table) Set(i int, a addr.Mapped) {
	for len(t.entries) <= i {
		t.entries = append(t.entries, 0)
	}
	t.entries[i] = a
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Entries returns the entries appended so far.
func (t *Table) Entries() []addr.Mapped { return t.entries }

// Bytes encodes the table little-endian, width bytes per entry.
func (t *Table) Bytes() []byte {
	out := make([]byte, len(t.entries)*t.width)
	for i, a := range t.entries {
		buf.PutUintLE(out[i*t.width:], uint64(a), t.width)
	}
	return out
}

// Place allocates the encoded table under pred and relocates the table's
// target to it.
func (t *Table) Place(pred alloc.Predicate) (addr.Mapped, error) {
	a, err := t.b.Place(t.Bytes(), pred)
	if err != nil {
		return 0, err
	}
	if err := t.b.Relocate(t.target, a); err != nil {
		return 0, err
	}
	return a, nil
}

// WriteAt stores the encoded table at a fixed offset without relocating.
func (t *Table) WriteAt(off addr.Flat) error {
	return t.b.Write(off, t.Bytes())
}
