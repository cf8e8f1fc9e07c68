package modules

import (
	"context"
	"fmt"

	"github.com/joshuapare/romkit/internal/buf"
	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/dedup"
	"github.com/joshuapare/romkit/rom/reloc"
)

// SpriteGroupsName is the sprite group module's layout key.
const SpriteGroupsName = "sprite_groups"

const (
	// SpriteHeaderSize is the caller-encoded part of a group record. The
	// sprite bank byte follows it.
	SpriteHeaderSize = 8
	// PaletteTableSize is eight 16-color palettes of 2-byte colors.
	PaletteTableSize = 8 * 16 * 2
)

// SpriteGroup is one group's header and its sprite images.
type SpriteGroup struct {
	Header  [SpriteHeaderSize]byte
	Sprites [][]byte
}

// recordSize is the group's size in the packed group block: header, bank
// byte and a 2-byte pointer per sprite.
func (g SpriteGroup) recordSize() int { return SpriteHeaderSize + 1 + 2*len(g.Sprites) }

// SpriteGroups rebuilds sprite groups. Sprites go to free space one bank per
// group, the group records are packed into one block, and the group pointer
// table is written last. Palettes, when set, are rewritten in place.
type SpriteGroups struct {
	plan     *reloc.Plan
	Groups   []SpriteGroup
	Palettes []byte
}

func NewSpriteGroups(plan *reloc.Plan, groups []SpriteGroup, palettes []byte) *SpriteGroups {
	return &SpriteGroups{plan: plan, Groups: groups, Palettes: palettes}
}

func (m *SpriteGroups) Name() string      { return SpriteGroupsName }
func (m *SpriteGroups) Plan() *reloc.Plan { return m.plan }

func (m *SpriteGroups) Build(ctx context.Context, b *reloc.Builder) error {
	if len(m.Groups) == 0 {
		return fmt.Errorf("%w: no sprite groups", ErrBadTable)
	}
	var palSites []addr.Flat
	if m.Palettes != nil {
		if len(m.Palettes) != PaletteTableSize {
			return fmt.Errorf("%w: palettes are %d bytes, want %d", ErrBadTable, len(m.Palettes), PaletteTableSize)
		}
		if palSites = b.Sites("palettes"); len(palSites) == 0 {
			return fmt.Errorf("%w: palettes", reloc.ErrUnknownPatch)
		}
	}

	size := 0
	for _, g := range m.Groups {
		size += g.recordSize()
	}
	block := make([]byte, size)
	offsets := make([]int, len(m.Groups))

	off := 0
	for i, g := range m.Groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec := block[off : off+g.recordSize()]
		copy(rec, g.Header[:])
		if err := m.placeSprites(b, g, rec[SpriteHeaderSize:]); err != nil {
			return fmt.Errorf("group %d: %w", i, err)
		}
		offsets[i] = off
		off += len(rec)
	}

	tbl, err := b.Table("group_table", 4)
	if err != nil {
		return err
	}
	base, err := b.Place(block, alloc.Any())
	if err != nil {
		return fmt.Errorf("group block: %w", err)
	}
	for _, o := range offsets {
		tbl.Append(base + addr.Mapped(o))
	}
	if _, err := tbl.Place(alloc.Any()); err != nil {
		return err
	}

	for _, s := range palSites {
		if err := b.Write(s, m.Palettes); err != nil {
			return fmt.Errorf("palettes: %w", err)
		}
	}
	return nil
}

// placeSprites stores g's distinct sprites contiguously inside one bank and
// fills out with the bank byte followed by each sprite's low word.
func (m *SpriteGroups) placeSprites(b *reloc.Builder, g SpriteGroup, out []byte) error {
	if len(g.Sprites) == 0 {
		return nil
	}
	// Addresses in seen are offsets into blob until it is placed.
	seen := dedup.New[[]byte]("sprites")
	var blob []byte
	at := make([]int, len(g.Sprites))
	for j, s := range g.Sprites {
		if len(s) == 0 {
			return fmt.Errorf("%w: sprite %d is empty", ErrBadTable, j)
		}
		rel, err := seen.FindOrInsert(s, func() (addr.Mapped, error) {
			o := len(blob)
			blob = append(blob, s...)
			return addr.Mapped(o), nil
		})
		if err != nil {
			return err
		}
		at[j] = int(rel)
	}

	base, err := placeInOneBank(b, blob)
	if err != nil {
		return fmt.Errorf("sprites: %w", err)
	}
	out[0] = byte(addr.Bank(base))
	for j, o := range at {
		buf.PutUintLE(out[1+2*j:], uint64(int(base)+o)&0xFFFF, 2)
	}
	return nil
}
