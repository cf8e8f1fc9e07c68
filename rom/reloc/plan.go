package reloc

import (
	"fmt"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/ptr"
)

// Binding ties one relocatable target of a module to the references that
// point at it.
type Binding struct {
	Target string
	Refs   []ptr.Ref
	// Size is the target's byte size when it is fixed by the layout rather
	// than computed by the module. Zero means unknown.
	Size int
}

// Plan is a module's static relocation table.
type Plan struct {
	Module string
	Free   []alloc.Range
	// Reserved ranges are not released at rebuild start. The module frees
	// them itself when it wants first pick of that space.
	Reserved []alloc.Range
	Bindings []Binding
	// Patches names raw value sites (bounds checks, fixed-offset strings)
	// that are rewritten in place rather than relocated.
	Patches map[string][]addr.Flat
}

// NewPlan returns an empty plan for the named module.
func NewPlan(module string) *Plan {
	return &Plan{Module: module, Patches: map[string][]addr.Flat{}}
}

// Bind appends refs to target, creating the binding if needed.
func (p *Plan) Bind(target string, refs ...ptr.Ref) *Plan {
	if b := p.binding(target); b != nil {
		b.Refs = append(b.Refs, refs...)
		return p
	}
	p.Bindings = append(p.Bindings, Binding{Target: target, Refs: refs})
	return p
}

// Owns appends flat ranges released at rebuild start.
func (p *Plan) Owns(rs ...alloc.Range) *Plan {
	p.Free = append(p.Free, rs...)
	return p
}

// Reserve appends ranges the module releases itself during Build.
func (p *Plan) Reserve(rs ...alloc.Range) *Plan {
	p.Reserved = append(p.Reserved, rs...)
	return p
}

// Patch appends raw value sites under name.
func (p *Plan) Patch(name string, offs ...addr.Flat) *Plan {
	if p.Patches == nil {
		p.Patches = map[string][]addr.Flat{}
	}
	p.Patches[name] = append(p.Patches[name], offs...)
	return p
}

// Refs returns the references bound to target, or nil.
func (p *Plan) Refs(target string) []ptr.Ref {
	if b := p.binding(target); b != nil {
		return b.Refs
	}
	return nil
}

// Lookup returns the binding for target.
func (p *Plan) Lookup(target string) (Binding, bool) {
	if b := p.binding(target); b != nil {
		return *b, true
	}
	return Binding{}, false
}

// Targets lists bound targets in declaration order.
func (p *Plan) Targets() []string {
	out := make([]string, 0, len(p.Bindings))
	for _, b := range p.Bindings {
		out = append(out, b.Target)
	}
	return out
}

func (p *Plan) binding(target string) *Binding {
	for i := range p.Bindings {
		if p.Bindings[i].Target == target {
			return &p.Bindings[i]
		}
	}
	return nil
}

// Validate checks that every reference and patch site lies inside an image
// of size bytes and that free ranges are well formed.
func (p *Plan) Validate(size int) error {
	for _, r := range p.Free {
		if r.End < r.Start || r.Start < 0 || int(r.End) >= size {
			return fmt.Errorf("%s: free %v: %w", p.Module, r, alloc.ErrBadRange)
		}
	}
	for _, r := range p.Reserved {
		if r.End < r.Start || r.Start < 0 || int(r.End) >= size {
			return fmt.Errorf("%s: reserved %v: %w", p.Module, r, alloc.ErrBadRange)
		}
	}
	for _, b := range p.Bindings {
		for _, ref := range b.Refs {
			for _, w := range ref.Span() {
				if w[0] < 0 || w[0]+w[1] > size {
					return fmt.Errorf("%s: %s: %v outside image: %w", p.Module, b.Target, ref, ptr.ErrOutOfRange)
				}
			}
		}
	}
	for name, offs := range p.Patches {
		for _, off := range offs {
			if off < 0 || int(off) >= size {
				return fmt.Errorf("%s: patch %s at %v outside image: %w", p.Module, name, off, ptr.ErrOutOfRange)
			}
		}
	}
	return nil
}
