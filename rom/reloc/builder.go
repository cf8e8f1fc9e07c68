package reloc

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/image"
	"github.com/joshuapare/romkit/rom/ptr"
)

// Report summarises one module's rebuild.
type Report struct {
	Module    string
	Placed    int // payloads placed
	Bytes     int // bytes allocated
	Relocated int // references written
}

// Builder is the surface a Module sees during Build. It is only valid for the
// duration of that call.
type Builder struct {
	im    *image.Image
	al    *alloc.Allocator
	space addr.Space
	plan  *Plan
	rep   Report
}

func newBuilder(im *image.Image, al *alloc.Allocator, space addr.Space, plan *Plan) *Builder {
	return &Builder{im: im, al: al, space: space, plan: plan, rep: Report{Module: plan.Module}}
}

// Image returns the image being rebuilt.
func (b *Builder) Image() *image.Image { return b.im }

// Space returns the address space used for flat/mapped conversion.
func (b *Builder) Space() addr.Space { return b.space }

// Plan returns the module's plan.
func (b *Builder) Plan() *Plan { return b.plan }

// Mapped converts a flat offset with the builder's space.
func (b *Builder) Mapped(f addr.Flat) addr.Mapped { return b.space.ToMapped(f) }

// Flat converts a mapped address with the builder's space.
func (b *Builder) Flat(m addr.Mapped) (addr.Flat, error) { return b.space.ToFlat(m) }

// Reserve allocates size bytes under pred without writing them.
func (b *Builder) Reserve(size int, pred alloc.Predicate) (addr.Flat, error) {
	f, err := b.al.Alloc(size, pred)
	if err != nil {
		return 0, err
	}
	b.rep.Placed++
	b.rep.Bytes += size
	return f, nil
}

// Place allocates room for p under pred, copies it in and returns its
// mapped address.
func (b *Builder) Place(p []byte, pred alloc.Predicate) (addr.Mapped, error) {
	f, err := b.al.AllocData(p, pred)
	if err != nil {
		return 0, err
	}
	b.rep.Placed++
	b.rep.Bytes += len(p)
	return b.space.ToMapped(f), nil
}

// Write copies p to a flat offset.
func (b *Builder) Write(off addr.Flat, p []byte) error {
	return b.im.Put(int(off), p)
}

// Free releases r back to the allocator. Modules use it for ranges they must
// get first pick of, ahead of the plan's own free list.
func (b *Builder) Free(r alloc.Range) error {
	return b.al.Free(r)
}

// Relocate writes a through every reference bound to target.
func (b *Builder) Relocate(target string, a addr.Mapped) error {
	refs := b.plan.Refs(target)
	if len(refs) == 0 {
		return fmt.Errorf("%s: %w", target, ErrUnbound)
	}
	if err := ptr.WriteAll(b.im, refs, a); err != nil {
		return fmt.Errorf("relocate %s: %w", target, err)
	}
	b.rep.Relocated += len(refs)
	logger.Debug("target relocated", "module", b.plan.Module, "target", target, "address", a.String(), "refs", len(refs))
	return nil
}

// Locate reads target's current address through its first readable
// reference.
func (b *Builder) Locate(target string) (addr.Mapped, error) {
	refs := b.plan.Refs(target)
	if len(refs) == 0 {
		return 0, fmt.Errorf("%s: %w", target, ErrUnbound)
	}
	for _, r := range refs {
		if r.Readable() {
			return ptr.Read(b.im, r)
		}
	}
	return 0, fmt.Errorf("%s: %w", target, ErrNoReadableRef)
}

// Patch writes v as a size-byte little-endian value at every site named
// name.
func (b *Builder) Patch(name string, v uint64, size int) error {
	offs, ok := b.plan.Patches[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownPatch)
	}
	for _, off := range offs {
		if err := b.im.WriteMulti(int(off), v, size); err != nil {
			return fmt.Errorf("patch %s at %v: %w", name, off, err)
		}
	}
	return nil
}

// Sites returns the offsets of the patch sites named name.
func (b *Builder) Sites(name string) []addr.Flat { return b.plan.Patches[name] }

// Table starts a second-order pointer table bound to target.
func (b *Builder) Table(target string, entrySize int) (*Table, error) {
	if entrySize < 1 || entrySize > 4 {
		return nil, fmt.Errorf("%s: %d: %w", target, entrySize, ErrBadEntrySize)
	}
	return &Table{b: b, target: target, width: entrySize}, nil
}
