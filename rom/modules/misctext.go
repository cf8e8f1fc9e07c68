package modules

import (
	"context"
	"fmt"

	"github.com/joshuapare/romkit/internal/ebtext"
	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/image"
	"github.com/joshuapare/romkit/rom/ptr"
	"github.com/joshuapare/romkit/rom/reloc"
)

// MiscTextName is the misc text module's layout key.
const MiscTextName = "misc_text"

// TextSlot describes one string field. Its location comes from the plan:
// a target bound under Name makes it pointer-backed (placed in free space and
// relocated), a patch site under Name makes it fixed (rewritten in place).
type TextSlot struct {
	Name           string
	Max            int
	NullTerminated bool
}

// DefaultTextSlots covers the slots in the embedded layout.
var DefaultTextSlots = []TextSlot{
	{Name: "start_new_game", Max: 14},
	{Name: "text_speed", Max: 11},
	{Name: "continue", Max: 25, NullTerminated: true},
	{Name: "copy", Max: 25, NullTerminated: true},
	{Name: "delete", Max: 25, NullTerminated: true},
	{Name: "set_up", Max: 25, NullTerminated: true},
	{Name: "copy_to_where", Max: 14},
	{Name: "bash", Max: 16},
	{Name: "goods", Max: 16},
	{Name: "talk_to", Max: 9},
	{Name: "level", Max: 6, NullTerminated: true},
	{Name: "hit_points", Max: 11, NullTerminated: true},
	{Name: "use", Max: 5},
}

// MiscText rewrites menu strings. Slots missing from Strings are left alone.
type MiscText struct {
	plan    *reloc.Plan
	Slots   []TextSlot
	Strings map[string]string
}

func NewMiscText(plan *reloc.Plan, strs map[string]string) *MiscText {
	return &MiscText{plan: plan, Slots: DefaultTextSlots, Strings: strs}
}

func (m *MiscText) Name() string      { return MiscTextName }
func (m *MiscText) Plan() *reloc.Plan { return m.plan }

func (m *MiscText) Build(ctx context.Context, b *reloc.Builder) error {
	for _, s := range m.Slots {
		v, ok := m.Strings[s.Name]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		enc, err := ebtext.EncodeField(v, s.Max, s.NullTerminated)
		if err != nil {
			return fmt.Errorf("%s: %w", s.Name, err)
		}
		switch {
		case len(m.plan.Refs(s.Name)) > 0:
			a, err := b.Place(enc, alloc.Any())
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
			if err := b.Relocate(s.Name, a); err != nil {
				return err
			}
		case len(b.Sites(s.Name)) > 0:
			for _, off := range b.Sites(s.Name) {
				if err := b.Write(off, enc); err != nil {
					return fmt.Errorf("%s: %w", s.Name, err)
				}
			}
		default:
			return fmt.Errorf("%w: %s", ErrNoSlot, s.Name)
		}
	}
	return nil
}

// ReadText decodes every slot's current string from im.
func ReadText(im *image.Image, plan *reloc.Plan, space addr.Space, slots []TextSlot) (map[string]string, error) {
	out := make(map[string]string, len(slots))
	for _, s := range slots {
		var off addr.Flat
		if refs := plan.Refs(s.Name); len(refs) > 0 {
			a, err := ptr.Read(im, refs[0])
			if err != nil {
				return nil, fmt.Errorf("%s: %w", s.Name, err)
			}
			if off, err = space.ToFlat(a); err != nil {
				return nil, fmt.Errorf("%s: %w", s.Name, err)
			}
		} else if sites := plan.Patches[s.Name]; len(sites) > 0 {
			off = sites[0]
		} else {
			return nil, fmt.Errorf("%w: %s", ErrNoSlot, s.Name)
		}
		raw, err := im.Slice(int(off), s.Max)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		str, err := ebtext.DecodeField(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", s.Name, err)
		}
		out[s.Name] = str
	}
	return out, nil
}
