package modules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/image"
	"github.com/joshuapare/romkit/rom/ptr"
	"github.com/joshuapare/romkit/rom/reloc"
)

// run rebuilds mods on a fresh image of size bytes seeded with free.
func run(t *testing.T, size int, free []alloc.Range, mods ...reloc.Module) (*image.Image, *alloc.Allocator, error) {
	t.Helper()
	im := image.New(size)
	al, err := alloc.New(im, free)
	require.NoError(t, err)
	err = reloc.NewRebuild(im, al, addr.HiROM).Run(context.Background(), mods...)
	return im, al, err
}

func flat(t *testing.T, m addr.Mapped) addr.Flat {
	t.Helper()
	f, err := addr.ToFlat(m)
	require.NoError(t, err)
	return f
}

func readPtr(t *testing.T, im *image.Image, r ptr.Ref) addr.Mapped {
	t.Helper()
	a, err := ptr.Read(im, r)
	require.NoError(t, err)
	return a
}

func bytesAt(t *testing.T, im *image.Image, f addr.Flat, n int) []byte {
	t.Helper()
	b, err := im.Slice(int(f), n)
	require.NoError(t, err)
	return b
}

func u(t *testing.T, im *image.Image, off addr.Flat, n int) int {
	t.Helper()
	v, err := im.ReadMulti(int(off), n)
	require.NoError(t, err)
	return int(v)
}
