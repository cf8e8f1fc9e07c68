// Package alloc tracks free byte ranges of a cartridge image and places new
// data into them.
//
// # Overview
//
// An Allocator owns the free/occupied partition of one image. It is seeded
// with the ranges callers declare free (image-wide free space plus each
// module's own data it is about to rewrite). Everything not in the free set
// is occupied.
//
//	a, err := alloc.New(im, []alloc.Range{{Start: 0x1000, End: 0x10FF}})
//	off, err := a.Alloc(4, nil)          // 0x1000
//	off, err = a.AllocData(payload, alloc.NotInBank(0x0F))
//	err = a.Free(alloc.Span(0x1000, 4))  // merges back into [0x1000, 0x10FF]
//
// # Placement
//
// Allocation is first-fit: free ranges are scanned in ascending start order
// and the lowest offset whose next size bytes all satisfy the Predicate is
// chosen. The chosen span is removed from its range, leaving any remainder
// on either side free. The same sequence of calls always yields the same
// offsets.
//
// # Invariants
//
// The free set is sorted by start, and no two ranges overlap or touch:
// Free coalesces a returned span with its neighbours. Free of a span already
// entirely free is a no-op; a span that partially overlaps free space is
// rejected with ErrOverlappingFree. Validate checks these invariants.
//
// # Thread Safety
//
// Allocator instances are not thread-safe. A rebuild pass owns its
// allocator; callers running modules concurrently must serialise every
// Alloc and Free behind one lock.
package alloc
