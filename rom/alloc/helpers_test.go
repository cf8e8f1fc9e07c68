package alloc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/image"
)

// newTestAllocator returns an allocator over a zeroed image of size bytes.
func newTestAllocator(t testing.TB, size int, free ...Range) (*Allocator, *image.Image) {
	t.Helper()
	im := image.New(size)
	a, err := New(im, free)
	require.NoError(t, err)
	return a, im
}

// requireInvariants fails the test if the free set is not sorted, disjoint
// and fully coalesced.
func requireInvariants(t testing.TB, a *Allocator) {
	t.Helper()
	require.NoError(t, a.Validate())
}

func r(start, end addr.Flat) Range { return Range{Start: start, End: end} }

func image0x100() *image.Image { return image.New(0x100) }
