package modules

import (
	"context"
	"fmt"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/dedup"
	"github.com/joshuapare/romkit/rom/reloc"
)

// BattleBackgroundsName is the battle background module's layout key.
const BattleBackgroundsName = "battle_bgs"

// Background is one battle background's encoded parts.
type Background struct {
	Graphics    []byte
	Arrangement []byte
	Palette     []byte
}

// gfxPair is the dedup key for graphics: a tileset is only shared when its
// arrangement matches too.
type gfxPair struct {
	Graphics    []byte
	Arrangement []byte
}

// BattleBackgrounds rebuilds battle background graphics, arrangements and
// palettes, storing each distinct one once.
type BattleBackgrounds struct {
	plan        *reloc.Plan
	Backgrounds []Background

	// RowSize is the width of a bg_table row. Bytes 0 and 1 of each row
	// hold the graphics and palette numbers.
	RowSize int
}

func NewBattleBackgrounds(plan *reloc.Plan, bgs []Background) *BattleBackgrounds {
	return &BattleBackgrounds{plan: plan, Backgrounds: bgs, RowSize: 17}
}

func (m *BattleBackgrounds) Name() string      { return BattleBackgroundsName }
func (m *BattleBackgrounds) Plan() *reloc.Plan { return m.plan }

func (m *BattleBackgrounds) Build(ctx context.Context, b *reloc.Builder) error {
	sites := b.Sites("bg_table")
	if len(sites) == 0 {
		return fmt.Errorf("%w: bg_table", reloc.ErrUnknownPatch)
	}
	rows := sites[0]

	gfxTbl, err := b.Table("gfx_table", 4)
	if err != nil {
		return err
	}
	arrTbl, err := b.Table("arr_table", 4)
	if err != nil {
		return err
	}
	palTbl, err := b.Table("pal_table", 4)
	if err != nil {
		return err
	}

	pairs := dedup.New[gfxPair]("battle bg graphics")
	pals := dedup.New[[]byte]("battle bg palettes")

	for i, bg := range m.Backgrounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := gfxPair{Graphics: bg.Graphics, Arrangement: bg.Arrangement}
		_, err := pairs.FindOrInsert(key, func() (addr.Mapped, error) {
			g, err := b.Place(bg.Graphics, alloc.Any())
			if err != nil {
				return 0, err
			}
			a, err := b.Place(bg.Arrangement, alloc.Any())
			if err != nil {
				return 0, err
			}
			gfxTbl.Append(g)
			arrTbl.Append(a)
			return g, nil
		})
		if err != nil {
			return fmt.Errorf("background %d graphics: %w", i, err)
		}
		_, err = pals.FindOrInsert(bg.Palette, func() (addr.Mapped, error) {
			p, err := b.Place(bg.Palette, alloc.Any())
			if err != nil {
				return 0, err
			}
			palTbl.Append(p)
			return p, nil
		})
		if err != nil {
			return fmt.Errorf("background %d palette: %w", i, err)
		}

		gi, pi := pairs.Index(key), pals.Index(bg.Palette)
		if gi > 0xFF || pi > 0xFF {
			return fmt.Errorf("%w: background %d", ErrTooMany, i)
		}
		row := rows + addr.Flat(i*m.RowSize)
		if err := b.Write(row, []byte{byte(gi), byte(pi)}); err != nil {
			return fmt.Errorf("background %d row: %w", i, err)
		}
	}

	for _, t := range []*reloc.Table{gfxTbl, arrTbl, palTbl} {
		if _, err := t.Place(alloc.Any()); err != nil {
			return err
		}
	}
	return nil
}
