package alloc

import (
	"fmt"
	"slices"
	"sort"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/addr"
)

// Image is the byte access the allocator needs to place payloads.
type Image interface {
	Len() int
	Put(off int, p []byte) error
}

// Stats counts allocator activity.
type Stats struct {
	Allocs         int
	Frees          int
	BytesAllocated int
	BytesFreed     int
}

// Allocator tracks the free ranges of one image.
type Allocator struct {
	im    Image
	size  int
	free  []Range // sorted by Start, disjoint, never touching
	stats Stats
}

// New returns an allocator for im whose free set is seed. Overlapping or
// touching seed ranges are merged.
func New(im Image, seed []Range) (*Allocator, error) {
	a := &Allocator{im: im, size: im.Len()}
	for _, r := range seed {
		if err := r.check(a.size); err != nil {
			return nil, err
		}
	}
	a.free = normalize(seed)
	return a, nil
}

// normalize sorts ranges and merges those that overlap or touch.
func normalize(rs []Range) []Range {
	out := slices.Clone(rs)
	slices.SortFunc(out, func(x, y Range) int { return int(x.Start - y.Start) })
	merged := out[:0]
	for _, r := range out {
		if n := len(merged); n > 0 && r.Start <= merged[n-1].End+1 {
			if r.End > merged[n-1].End {
				merged[n-1].End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Alloc reserves size bytes satisfying pred and returns their offset. A nil
// pred allows any offset. On failure the free set is unchanged.
func (a *Allocator) Alloc(size int, pred Predicate) (addr.Flat, error) {
	if size <= 0 {
		return 0, fmt.Errorf("%w: size %d", ErrBadRequest, size)
	}
	if pred == nil {
		pred = Any()
	}

	for i, f := range a.free {
		if f.Len() < size {
			continue
		}
		start, ok := fit(f, size, pred)
		if !ok {
			continue
		}
		used := Span(start, size)
		a.take(i, used)
		a.stats.Allocs++
		a.stats.BytesAllocated += size
		logger.Debug("allocated", "size", size, "offset", start.String(), "predicate", pred.String())
		return start, nil
	}

	var most int
	if largest, ok := a.Largest(); ok {
		most = largest.Len()
	}
	return 0, fmt.Errorf("%w: need %d bytes (%s), %d free, largest range %d bytes",
		ErrOutOfSpace, size, pred, a.FreeBytes(), most)
}

// AllocData reserves len(p) bytes satisfying pred and copies p there.
func (a *Allocator) AllocData(p []byte, pred Predicate) (addr.Flat, error) {
	if len(p) == 0 {
		return 0, fmt.Errorf("%w: empty payload", ErrBadRequest)
	}
	off, err := a.Alloc(len(p), pred)
	if err != nil {
		return 0, err
	}
	if err := a.im.Put(int(off), p); err != nil {
		a.release(Span(off, len(p)))
		return 0, fmt.Errorf("alloc: write payload at %v: %w", off, err)
	}
	return off, nil
}

// fit returns the lowest offset in f starting a run of size bytes that all
// satisfy pred.
func fit(f Range, size int, pred Predicate) (addr.Flat, bool) {
	if _, ok := pred.(anyPred); ok {
		return f.Start, true
	}
	sk, _ := pred.(skipper)

	run := 0
	var runStart addr.Flat
	for p := f.Start; p <= f.End; {
		if int(f.End-p)+1+run < size {
			return 0, false
		}
		if !pred.Allow(p) {
			run = 0
			next := p + 1
			if sk != nil {
				next = max(next, sk.Next(p))
			}
			if next <= p {
				// Wrapped past the end of the address range.
				return 0, false
			}
			p = next
			continue
		}
		if run == 0 {
			runStart = p
		}
		run++
		if run == size {
			return runStart, true
		}
		p++
	}
	return 0, false
}

// take removes used from free range i, keeping what remains on each side.
func (a *Allocator) take(i int, used Range) {
	f := a.free[i]
	var rest []Range
	if used.Start > f.Start {
		rest = append(rest, Range{Start: f.Start, End: used.Start - 1})
	}
	if used.End < f.End {
		rest = append(rest, Range{Start: used.End + 1, End: f.End})
	}
	a.free = slices.Replace(a.free, i, i+1, rest...)
}

// Free returns r to the free set, merging it with touching free ranges.
// Freeing a range that is already entirely free is a no-op.
func (a *Allocator) Free(r Range) error {
	if err := r.check(a.size); err != nil {
		return err
	}

	i := a.search(r.Start)
	if i > 0 {
		prev := a.free[i-1]
		if prev.Contains(r) {
			return nil
		}
		if prev.Overlaps(r) {
			return fmt.Errorf("%w: %v overlaps free %v", ErrOverlappingFree, r, prev)
		}
	}
	if i < len(a.free) && a.free[i].Overlaps(r) {
		return fmt.Errorf("%w: %v overlaps free %v", ErrOverlappingFree, r, a.free[i])
	}

	a.release(r)
	a.stats.Frees++
	a.stats.BytesFreed += r.Len()
	logger.Debug("freed", "range", r.String())
	return nil
}

// release inserts r, known to be disjoint from the free set, and coalesces.
func (a *Allocator) release(r Range) {
	i := a.search(r.Start)
	lo, hi := i, i
	if i > 0 && a.free[i-1].End+1 == r.Start {
		r.Start = a.free[i-1].Start
		lo = i - 1
	}
	if i < len(a.free) && a.free[i].Start == r.End+1 {
		r.End = a.free[i].End
		hi = i + 1
	}
	a.free = slices.Replace(a.free, lo, hi, r)
}

// search returns the index of the first free range starting after f.
func (a *Allocator) search(f addr.Flat) int {
	return sort.Search(len(a.free), func(i int) bool { return a.free[i].Start > f })
}

// MarkUsed removes r from the free set. Every byte of r must be free.
func (a *Allocator) MarkUsed(r Range) error {
	if err := r.check(a.size); err != nil {
		return err
	}
	i := a.search(r.Start)
	if i == 0 || !a.free[i-1].Contains(r) {
		return fmt.Errorf("%w: %v", ErrNotFree, r)
	}
	a.take(i-1, r)
	return nil
}

// IsFree reports whether every byte of r is free.
func (a *Allocator) IsFree(r Range) bool {
	i := a.search(r.Start)
	return i > 0 && a.free[i-1].Contains(r)
}

// Ranges returns a copy of the free set in ascending order.
func (a *Allocator) Ranges() []Range { return slices.Clone(a.free) }

// FreeBytes returns the total number of free bytes.
func (a *Allocator) FreeBytes() int {
	n := 0
	for _, r := range a.free {
		n += r.Len()
	}
	return n
}

// Largest returns the largest free range; ties go to the lowest start.
func (a *Allocator) Largest() (Range, bool) {
	var best Range
	found := false
	for _, r := range a.free {
		if !found || r.Len() > best.Len() {
			best, found = r, true
		}
	}
	return best, found
}

// Snapshot returns the free set for a later Restore.
func (a *Allocator) Snapshot() []Range { return a.Ranges() }

// Restore replaces the free set with one returned by Snapshot.
func (a *Allocator) Restore(s []Range) { a.free = slices.Clone(s) }

// Stats returns allocation counters.
func (a *Allocator) Stats() Stats { return a.stats }

// Validate checks the free-set invariants.
func (a *Allocator) Validate() error {
	for i, r := range a.free {
		if err := r.check(a.size); err != nil {
			return fmt.Errorf("free range %d: %w", i, err)
		}
		if i == 0 {
			continue
		}
		prev := a.free[i-1]
		if r.Start <= prev.End+1 {
			return fmt.Errorf("alloc: free ranges %d %v and %d %v overlap or touch", i-1, prev, i, r)
		}
	}
	return nil
}
