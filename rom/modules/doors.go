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

// DoorsName is the doors module's layout key.
const DoorsName = "doors"

const doorSize = 5

// Door is one door record. Dest is the destination payload; doors are
// stored with only the low word of its address, so every destination lives
// in one bank. Doors with equal Dest share one copy.
type Door struct {
	Y, X uint8
	Type uint8
	Dest []byte
}

// Doors rebuilds door areas and their destinations.
//
// The plan's single reserved range is the destination window. It is released
// before anything is placed, so destinations get first pick of the window's
// bank.
type Doors struct {
	plan  *reloc.Plan
	Areas [][]Door
}

func NewDoors(plan *reloc.Plan, areas [][]Door) *Doors {
	return &Doors{plan: plan, Areas: areas}
}

func (d *Doors) Name() string      { return DoorsName }
func (d *Doors) Plan() *reloc.Plan { return d.plan }

// destWindow returns the reserved destination window and its bank.
func (d *Doors) destWindow() (alloc.Range, int, error) {
	if len(d.plan.Reserved) != 1 {
		return alloc.Range{}, 0, fmt.Errorf("%w: %d reserved ranges", ErrNoWindow, len(d.plan.Reserved))
	}
	w := d.plan.Reserved[0]
	if addr.FlatBank(w.Start) != addr.FlatBank(w.End) {
		return alloc.Range{}, 0, fmt.Errorf("%w: %v crosses a bank", ErrNoWindow, w)
	}
	return w, addr.FlatBank(w.Start), nil
}

// Build places every area and the area pointer table outside the
// destination bank and every distinct destination inside it. Empty areas
// share one zero-count record.
func (d *Doors) Build(ctx context.Context, b *reloc.Builder) error {
	window, bank, err := d.destWindow()
	if err != nil {
		return err
	}
	if err := b.Free(window); err != nil {
		return fmt.Errorf("release destination window: %w", err)
	}
	outside := alloc.NotInBank(bank)
	inside := alloc.InBank(bank)

	tbl, err := b.Table("area_table", 4)
	if err != nil {
		return err
	}
	dests := dedup.New[[]byte]("door destinations")

	var (
		empty       addr.Mapped
		emptyPlaced bool
	)
	for i, area := range d.Areas {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(area) == 0 {
			if !emptyPlaced {
				if empty, err = b.Place([]byte{0, 0}, outside); err != nil {
					return fmt.Errorf("empty area: %w", err)
				}
				emptyPlaced = true
			}
			tbl.Append(empty)
			continue
		}

		rec := make([]byte, 2+len(area)*doorSize)
		buf.PutUintLE(rec, uint64(len(area)), 2)
		for j, door := range area {
			var dest addr.Mapped
			if len(door.Dest) > 0 {
				dest, err = dests.FindOrInsert(door.Dest, func() (addr.Mapped, error) {
					return b.Place(door.Dest, inside)
				})
				if err != nil {
					return fmt.Errorf("area %d door %d destination: %w", i, j, err)
				}
			}
			o := 2 + j*doorSize
			rec[o] = door.Y
			rec[o+1] = door.X
			rec[o+2] = door.Type
			buf.PutUintLE(rec[o+3:], uint64(dest)&0xFFFF, 2)
		}
		a, err := b.Place(rec, outside)
		if err != nil {
			return fmt.Errorf("area %d: %w", i, err)
		}
		tbl.Append(a)
	}

	_, err = tbl.Place(outside)
	return err
}
