package layout

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/ptr"
	"github.com/joshuapare/romkit/rom/reloc"
)

//go:embed earthbound.yml
var earthbound []byte

var (
	// ErrUnknownModule indicates a module name the layout does not describe.
	ErrUnknownModule = errors.New("layout: unknown module")

	// ErrInvalid indicates a structurally valid YAML document with bad values.
	ErrInvalid = errors.New("layout: invalid layout")
)

// SpaceSpec is the address space section.
type SpaceSpec struct {
	Bias      Hex `yaml:"bias"`
	Threshold Hex `yaml:"threshold"`
}

// RefSpec declares one pointer reference.
type RefSpec struct {
	Kind    string `yaml:"kind"`
	Offset  *Hex   `yaml:"offset,omitempty"`
	Address *Hex   `yaml:"address,omitempty"`
	Adjust  int    `yaml:"adjust,omitempty"`
}

// TargetSpec declares a relocatable target.
type TargetSpec struct {
	Size Hex       `yaml:"size,omitempty"`
	Refs []RefSpec `yaml:"refs"`
}

// ModuleSpec is one module's section.
type ModuleSpec struct {
	Free    []Span                `yaml:"free,omitempty"`
	Reserve []Span                `yaml:"reserve,omitempty"`
	Targets map[string]TargetSpec `yaml:"targets,omitempty"`
	Patches map[string][]Hex      `yaml:"patches,omitempty"`
}

// Layout is a parsed layout document.
type Layout struct {
	Space   SpaceSpec             `yaml:"space"`
	Free    []Span                `yaml:"free,omitempty"`
	Modules map[string]ModuleSpec `yaml:"modules"`
}

// Load parses a layout. Unknown keys are rejected.
func Load(data []byte) (*Layout, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var l Layout
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("layout: decode: %w", err)
	}
	if l.Space.Bias == 0 && l.Space.Threshold == 0 {
		l.Space = SpaceSpec{Bias: Hex(addr.HiROM.Bias), Threshold: Hex(addr.HiROM.Threshold)}
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads and parses a layout file.
func LoadFile(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// Default returns the embedded EarthBound layout.
func Default() (*Layout, error) {
	return Load(earthbound)
}

// AddrSpace returns the layout's flat/mapped mapping.
func (l *Layout) AddrSpace() addr.Space {
	return addr.Space{Bias: int(l.Space.Bias), Threshold: int(l.Space.Threshold)}
}

// ModuleNames lists described modules in sorted order.
func (l *Layout) ModuleNames() []string {
	names := make([]string, 0, len(l.Modules))
	for n := range l.Modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// FreeRanges returns the image-wide free ranges for an image of size bytes,
// as flat ranges sorted by start. Ranges that do not fit entirely inside the
// image are dropped.
func (l *Layout) FreeRanges(size int) []alloc.Range {
	var out []alloc.Range
	for _, s := range l.Free {
		r := l.toRange(s)
		if r.Start < 0 || int(r.End) >= size {
			continue
		}
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b alloc.Range) int { return int(a.Start - b.Start) })
	return out
}

// Allocator returns an allocator over im seeded with FreeRanges.
func (l *Layout) Allocator(im alloc.Image) (*alloc.Allocator, error) {
	return alloc.New(im, l.FreeRanges(im.Len()))
}

// Plan builds the relocation plan for module. Targets are bound in sorted
// name order.
func (l *Layout) Plan(module string) (*reloc.Plan, error) {
	spec, ok := l.Modules[module]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}
	p := reloc.NewPlan(module)
	for _, s := range spec.Free {
		p.Owns(l.toRange(s))
	}
	for _, s := range spec.Reserve {
		p.Reserve(l.toRange(s))
	}

	targets := make([]string, 0, len(spec.Targets))
	for t := range spec.Targets {
		targets = append(targets, t)
	}
	sort.Strings(targets)
	for _, t := range targets {
		ts := spec.Targets[t]
		refs := make([]ptr.Ref, 0, len(ts.Refs))
		for i, rs := range ts.Refs {
			ref, err := l.toRef(rs)
			if err != nil {
				return nil, fmt.Errorf("%s.%s[%d]: %w", module, t, i, err)
			}
			refs = append(refs, ref)
		}
		p.Bind(t, refs...)
		p.Bindings[len(p.Bindings)-1].Size = int(ts.Size)
	}

	for name, sites := range spec.Patches {
		for _, v := range sites {
			p.Patch(name, l.toFlat(v))
		}
	}
	return p, nil
}

func (l *Layout) toFlat(v Hex) addr.Flat {
	// Values are validated non-negative at load.
	return l.AddrSpace().MustFlat(addr.Mapped(v))
}

func (l *Layout) toRange(s Span) alloc.Range {
	return alloc.Range{Start: l.toFlat(s.Start), End: l.toFlat(s.End)}
}

func (l *Layout) toRef(rs RefSpec) (ptr.Ref, error) {
	kind, err := ptr.ParseKind(rs.Kind)
	if err != nil {
		return ptr.Ref{}, err
	}
	var off addr.Flat
	switch {
	case rs.Offset != nil && rs.Address != nil:
		return ptr.Ref{}, fmt.Errorf("%w: both offset and address given", ErrInvalid)
	case rs.Offset != nil:
		off = addr.Flat(*rs.Offset)
	case rs.Address != nil:
		off = l.toFlat(*rs.Address)
	default:
		return ptr.Ref{}, fmt.Errorf("%w: reference needs offset or address", ErrInvalid)
	}
	return ptr.Ref{Kind: kind, Offset: off, Adjust: rs.Adjust}, nil
}

// validate checks value ranges and that no two declared free or reserved
// ranges overlap, since a module releasing space another declaration already
// released is an error at rebuild time.
func (l *Layout) validate() error {
	if l.Space.Bias <= 0 || l.Space.Threshold <= 0 {
		return fmt.Errorf("%w: space bias and threshold must be positive", ErrInvalid)
	}

	type owned struct {
		who string
		r   alloc.Range
	}
	var all []owned
	addSpans := func(who string, spans []Span) error {
		for _, s := range spans {
			if s.Start < 0 || s.End < 0 {
				return fmt.Errorf("%w: %s: negative range", ErrInvalid, who)
			}
			r := l.toRange(s)
			if r.End < r.Start {
				return fmt.Errorf("%w: %s: range %v ends before it starts", ErrInvalid, who, r)
			}
			all = append(all, owned{who, r})
		}
		return nil
	}
	if err := addSpans("free", l.Free); err != nil {
		return err
	}
	var errs []string
	for _, name := range l.ModuleNames() {
		m := l.Modules[name]
		if err := addSpans(name, m.Free); err != nil {
			return err
		}
		if err := addSpans(name+" reserve", m.Reserve); err != nil {
			return err
		}
		for t, ts := range m.Targets {
			for _, rs := range ts.Refs {
				if (rs.Offset != nil && *rs.Offset < 0) || (rs.Address != nil && *rs.Address < 0) {
					return fmt.Errorf("%w: %s.%s: negative offset", ErrInvalid, name, t)
				}
			}
		}
		for p, sites := range m.Patches {
			for _, v := range sites {
				if v < 0 {
					return fmt.Errorf("%w: %s patch %s: negative offset", ErrInvalid, name, p)
				}
			}
		}
		if _, err := l.Plan(name); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(errs, "; "))
	}

	slices.SortFunc(all, func(a, b owned) int { return int(a.r.Start - b.r.Start) })
	for i := 1; i < len(all); i++ {
		if all[i].r.Overlaps(all[i-1].r) {
			return fmt.Errorf("%w: %s range %v overlaps %s range %v",
				ErrInvalid, all[i].who, all[i].r, all[i-1].who, all[i-1].r)
		}
	}
	return nil
}
