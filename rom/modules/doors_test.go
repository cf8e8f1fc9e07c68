package modules

import (
	"bytes"
	"context"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/image"
	"github.com/joshuapare/romkit/rom/ptr"
	"github.com/joshuapare/romkit/rom/reloc"
)

func testDoors(areas [][]Door) *Doors {
	plan := reloc.NewPlan(DoorsName).
		Reserve(alloc.Range{Start: 0x0F0010, End: 0x0F010F}).
		Bind("area_table", ptr.Split(0x100))
	return NewDoors(plan, areas)
}

func TestDoorsPlacement(t *testing.T) {
	destA := []byte{0xA1, 0xA2, 0xA3}
	destB := []byte{0xB1, 0xB2}
	areas := [][]Door{
		{{Y: 1, X: 2, Type: 3, Dest: destA}, {Y: 4, X: 5, Type: 6, Dest: slices.Clone(destA)}},
		nil,
		{{Y: 7, X: 8, Type: 9, Dest: destB}, {Y: 10, X: 11, Type: 12}},
		{},
	}
	im, al, err := run(t, 0x100000, []alloc.Range{{Start: 0x20000, End: 0x2FFFF}}, testDoors(areas))
	require.NoError(t, err)
	require.NoError(t, al.Validate())

	tableAt := flat(t, readPtr(t, im, ptr.Split(0x100)))
	entries := make([]addr.Mapped, 4)
	for i := range entries {
		entries[i] = addr.Mapped(u(t, im, tableAt+addr.Flat(i*4), 4))
	}
	assert.Equal(t, entries[1], entries[3], "empty areas share one record")
	assert.Equal(t, []byte{0, 0}, bytesAt(t, im, flat(t, entries[1]), 2))

	for _, e := range entries {
		assert.NotEqual(t, 0x0F, addr.FlatBank(flat(t, e)), "areas stay out of the destination bank")
	}

	a0 := flat(t, entries[0])
	require.Equal(t, 2, u(t, im, a0, 2))
	assert.Equal(t, []byte{1, 2, 3}, bytesAt(t, im, a0+2, 3))
	assert.Equal(t, []byte{4, 5, 6}, bytesAt(t, im, a0+7, 3))
	lo1, lo2 := u(t, im, a0+5, 2), u(t, im, a0+10, 2)
	assert.Equal(t, lo1, lo2, "equal destinations are stored once")

	destAt := addr.Flat(0x0F<<16 | lo1)
	assert.Equal(t, destA, bytesAt(t, im, destAt, 3))

	a2 := flat(t, entries[2])
	require.Equal(t, 2, u(t, im, a2, 2))
	loB := u(t, im, a2+5, 2)
	assert.NotEqual(t, lo1, loB)
	assert.Equal(t, destB, bytesAt(t, im, addr.Flat(0x0F<<16|loB), 2))
	assert.Equal(t, 0, u(t, im, a2+10, 2), "door without destination")
}

func TestDoorsDestinationBankFull(t *testing.T) {
	// 0x101 bytes of distinct destinations against a 0x100-byte window.
	d := testDoors([][]Door{{{Dest: make([]byte, 0x80)}, {Dest: make([]byte, 0x81)}}})
	im, al, err := run(t, 0x100000, []alloc.Range{{Start: 0x20000, End: 0x2FFFF}}, d)
	require.ErrorIs(t, err, alloc.ErrOutOfSpace)
	assert.Contains(t, err.Error(), "rebuild doors")
	assert.True(t, bytes.Equal(make([]byte, 0x100000), im.Bytes()), "image restored")
	assert.Equal(t, []alloc.Range{{Start: 0x20000, End: 0x2FFFF}}, al.Ranges())
}

func TestDoorsWindowFromPlan(t *testing.T) {
	tests := []struct {
		name     string
		reserved []alloc.Range
	}{
		{name: "none"},
		{name: "two", reserved: []alloc.Range{{Start: 0x0F0000, End: 0x0F00FF}, {Start: 0x0F1000, End: 0x0F10FF}}},
		{name: "crosses bank", reserved: []alloc.Range{{Start: 0x0EFF00, End: 0x0F00FF}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := reloc.NewPlan(DoorsName).Reserve(tt.reserved...).Bind("area_table", ptr.Split(0x100))
			_, _, err := run(t, 0x100000, []alloc.Range{{Start: 0x20000, End: 0x2FFFF}}, NewDoors(plan, nil))
			require.ErrorIs(t, err, ErrNoWindow)
		})
	}

	// The window's bank, not a fixed one, decides where destinations go.
	plan := reloc.NewPlan(DoorsName).
		Reserve(alloc.Range{Start: 0x0C0100, End: 0x0C01FF}).
		Bind("area_table", ptr.Split(0x100))
	d := NewDoors(plan, [][]Door{{{Y: 1, Dest: []byte{0xD1, 0xD2}}}})
	im, _, err := run(t, 0x100000, []alloc.Range{{Start: 0x20000, End: 0x2FFFF}}, d)
	require.NoError(t, err)
	area := flat(t, addr.Mapped(u(t, im, flat(t, readPtr(t, im, ptr.Split(0x100))), 4)))
	lo := u(t, im, area+5, 2)
	assert.Equal(t, 0x0100, lo)
	assert.Equal(t, []byte{0xD1, 0xD2}, bytesAt(t, im, addr.Flat(0x0C<<16|lo), 2))
}

func TestDoorsEmptyAreaAtMappedZero(t *testing.T) {
	// With no bias below the threshold, flat 0 is mapped 0.
	space := addr.Space{Bias: 0xC00000, Threshold: 0}
	im := image.New(0x100000)
	al, err := alloc.New(im, []alloc.Range{{Start: 0, End: 0xFF}})
	require.NoError(t, err)

	d := testDoors([][]Door{nil, {}, nil})
	require.NoError(t, reloc.NewRebuild(im, al, space).Run(context.Background(), d))

	tableAt, err := space.ToFlat(readPtr(t, im, ptr.Split(0x100)))
	require.NoError(t, err)
	for i := range 3 {
		assert.Equal(t, 0, u(t, im, tableAt+addr.Flat(i*4), 4), "entry %d", i)
	}
	assert.Equal(t, 0x200-2-12, al.FreeBytes(), "seed and window, less one empty record and the table")
}
