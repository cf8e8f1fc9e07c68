package alloc

import (
	"fmt"

	"github.com/joshuapare/romkit/rom/addr"
)

// Range is an inclusive span of flat offsets.
type Range struct {
	Start addr.Flat
	End   addr.Flat
}

// Span returns the range of size bytes starting at start.
func Span(start addr.Flat, size int) Range {
	return Range{Start: start, End: start + addr.Flat(size) - 1}
}

// Len returns the number of bytes in r.
func (r Range) Len() int { return int(r.End-r.Start) + 1 }

// Contains reports whether o lies entirely within r.
func (r Range) Contains(o Range) bool {
	return r.Start <= o.Start && o.End <= r.End
}

// Overlaps reports whether r and o share at least one byte.
func (r Range) Overlaps(o Range) bool {
	return r.Start <= o.End && o.Start <= r.End
}

func (r Range) String() string {
	return fmt.Sprintf("[%v, %v]", r.Start, r.End)
}

// check validates r against an image of size bytes.
func (r Range) check(size int) error {
	if r.End < r.Start {
		return fmt.Errorf("%w: %v ends before it starts", ErrBadRange, r)
	}
	if r.Start < 0 || int(r.End) >= size {
		return fmt.Errorf("%w: %v outside image of size %#x", ErrBadRange, r, size)
	}
	return nil
}
