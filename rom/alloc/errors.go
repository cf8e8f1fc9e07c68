package alloc

import "errors"

var (
	// ErrOutOfSpace indicates that no free range under the active predicate can hold the request.
	ErrOutOfSpace = errors.New("alloc: not enough free space")

	// ErrOverlappingFree indicates a freed span that partially overlaps free space.
	ErrOverlappingFree = errors.New("alloc: free overlaps unallocated space")

	// ErrBadRange indicates a range with end < start or outside the image.
	ErrBadRange = errors.New("alloc: invalid range")

	// ErrBadRequest indicates a non-positive allocation size.
	ErrBadRequest = errors.New("alloc: bad allocation request")

	// ErrNotFree indicates an attempt to mark a span used that is not entirely free.
	ErrNotFree = errors.New("alloc: range is not entirely free")
)
