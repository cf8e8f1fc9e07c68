package modules

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/image"
	"github.com/joshuapare/romkit/rom/ptr"
	"github.com/joshuapare/romkit/rom/reloc"
)

func spritePlan() *reloc.Plan {
	return reloc.NewPlan(SpriteGroupsName).
		Bind("group_table", ptr.Split(0x100), ptr.Split(0x120)).
		Patch("palettes", 0x3000)
}

// spriteAt returns the flat offset of sprite j in the group record at rec.
func spriteAt(t *testing.T, im *image.Image, rec addr.Flat, j int) addr.Flat {
	t.Helper()
	bank := u(t, im, rec+SpriteHeaderSize, 1)
	lo := u(t, im, rec+SpriteHeaderSize+1+addr.Flat(2*j), 2)
	return flat(t, addr.Mapped(bank<<16|lo))
}

func TestSpriteGroupsPlacement(t *testing.T) {
	a := bytes.Repeat([]byte{0xAA}, 6)
	b := bytes.Repeat([]byte{0xBB}, 4)
	groups := []SpriteGroup{
		{Header: [SpriteHeaderSize]byte{1, 2, 3, 4, 5, 6, 7, 8}, Sprites: [][]byte{a, b, bytes.Clone(a)}},
		{Header: [SpriteHeaderSize]byte{9}},
	}
	pals := bytes.Repeat([]byte{0x7F}, PaletteTableSize)

	im, al, err := run(t, 0x100000, []alloc.Range{{Start: 0x20000, End: 0x2FFFF}},
		NewSpriteGroups(spritePlan(), groups, pals))
	require.NoError(t, err)
	require.NoError(t, al.Validate())

	tbl := readPtr(t, im, ptr.Split(0x100))
	assert.Equal(t, tbl, readPtr(t, im, ptr.Split(0x120)))
	e0 := addr.Mapped(u(t, im, flat(t, tbl), 4))
	e1 := addr.Mapped(u(t, im, flat(t, tbl)+4, 4))
	assert.Equal(t, addr.Mapped(SpriteHeaderSize+1+2*3), e1-e0, "records are packed")

	r0 := flat(t, e0)
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, bytesAt(t, im, r0, SpriteHeaderSize))
	assert.Equal(t, spriteAt(t, im, r0, 0), spriteAt(t, im, r0, 2), "equal sprites stored once")
	assert.Equal(t, a, bytesAt(t, im, spriteAt(t, im, r0, 0), len(a)))
	assert.Equal(t, b, bytesAt(t, im, spriteAt(t, im, r0, 1), len(b)))

	r1 := flat(t, e1)
	assert.Equal(t, byte(9), bytesAt(t, im, r1, 1)[0])
	assert.Equal(t, 0, u(t, im, r1+SpriteHeaderSize, 1), "no sprites, no bank")

	assert.Equal(t, pals, bytesAt(t, im, 0x3000, PaletteTableSize))
	used := len(a) + len(b) + (SpriteHeaderSize + 1 + 6) + (SpriteHeaderSize + 1) + 8
	assert.Equal(t, 0x10000-used, al.FreeBytes())
}

func TestSpriteGroupsSpritesShareBank(t *testing.T) {
	// The first range straddles banks 2 and 3 with 16 bytes on each side.
	free := []alloc.Range{{Start: 0x2FFF0, End: 0x3000F}, {Start: 0x40000, End: 0x4FFFF}}
	g := SpriteGroup{Sprites: [][]byte{bytes.Repeat([]byte{1}, 10), bytes.Repeat([]byte{2}, 10)}}

	im, _, err := run(t, 0x100000, free, NewSpriteGroups(spritePlan(), []SpriteGroup{g}, nil))
	require.NoError(t, err)

	rec := flat(t, addr.Mapped(u(t, im, flat(t, readPtr(t, im, ptr.Split(0x100))), 4)))
	assert.Equal(t, addr.Flat(0x30000), spriteAt(t, im, rec, 0))
	assert.Equal(t, addr.Flat(0x3000A), spriteAt(t, im, rec, 1))
	assert.Equal(t, make([]byte, 2), bytesAt(t, im, 0x3000, 2), "palettes untouched without new ones")
}

func TestSpriteGroupsErrors(t *testing.T) {
	free := []alloc.Range{{Start: 0x20000, End: 0x2FFFF}}
	one := []SpriteGroup{{Sprites: [][]byte{{1}}}}

	_, _, err := run(t, 0x100000, free, NewSpriteGroups(spritePlan(), nil, nil))
	require.ErrorIs(t, err, ErrBadTable)

	_, _, err = run(t, 0x100000, free, NewSpriteGroups(spritePlan(), one, make([]byte, 10)))
	require.ErrorIs(t, err, ErrBadTable)

	noSite := reloc.NewPlan(SpriteGroupsName).Bind("group_table", ptr.Split(0x100))
	_, _, err = run(t, 0x100000, free, NewSpriteGroups(noSite, one, make([]byte, PaletteTableSize)))
	require.ErrorIs(t, err, reloc.ErrUnknownPatch)

	empty := []SpriteGroup{{Sprites: [][]byte{nil}}}
	_, _, err = run(t, 0x100000, free, NewSpriteGroups(spritePlan(), empty, nil))
	require.ErrorIs(t, err, ErrBadTable)
}
