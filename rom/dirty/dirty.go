package dirty

import (
	"context"
	"slices"
)

const (
	defaultRangeCapacity = 64

	// PageSize is the alignment used for flushing mapped files.
	PageSize = 4096
)

// Range is a dirty byte range.
type Range struct {
	Off int
	Len int
}

// End returns the exclusive end offset of r.
func (r Range) End() int { return r.Off + r.Len }

// Tracker accumulates dirty ranges.
type Tracker struct {
	ranges []Range
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{ranges: make([]Range, 0, defaultRangeCapacity)}
}

// Add records a dirty range. Zero or negative lengths are ignored.
func (t *Tracker) Add(off, length int) {
	if length <= 0 {
		return
	}
	t.ranges = append(t.ranges, Range{Off: off, Len: length})
}

// Len returns the number of recorded (uncoalesced) ranges.
func (t *Tracker) Len() int { return len(t.ranges) }

// Reset clears all tracked ranges.
func (t *Tracker) Reset() { t.ranges = t.ranges[:0] }

// Ranges returns a copy of the raw, uncoalesced ranges.
func (t *Tracker) Ranges() []Range {
	return slices.Clone(t.ranges)
}

// Coalesced returns the recorded ranges sorted and merged, with overlapping
// and adjacent ranges joined. When align > 1, each range is first widened
// to align boundaries.
func (t *Tracker) Coalesced(align int) []Range {
	if len(t.ranges) == 0 {
		return nil
	}

	aligned := make([]Range, len(t.ranges))
	for i, r := range t.ranges {
		start, end := r.Off, r.End()
		if align > 1 {
			start = (start / align) * align
			if end%align != 0 {
				end = (end/align + 1) * align
			}
		}
		aligned[i] = Range{Off: start, Len: end - start}
	}

	slices.SortFunc(aligned, func(a, b Range) int { return a.Off - b.Off })

	merged := make([]Range, 0, len(aligned))
	current := aligned[0]
	for _, next := range aligned[1:] {
		if next.Off <= current.End() {
			if next.End() > current.End() {
				current.Len = next.End() - current.Off
			}
			continue
		}
		merged = append(merged, current)
		current = next
	}
	return append(merged, current)
}

// Flush writes the page-aligned dirty ranges of data back to its mapping and
// clears the tracker. data must be the whole mapped region.
func (t *Tracker) Flush(ctx context.Context, data []byte) error {
	if len(t.ranges) == 0 || len(data) == 0 {
		t.Reset()
		return nil
	}
	for _, r := range t.Coalesced(PageSize) {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := min(r.End(), len(data))
		if r.Off >= end {
			continue
		}
		if err := msync(data[r.Off:end]); err != nil {
			return err
		}
	}
	t.Reset()
	return nil
}
