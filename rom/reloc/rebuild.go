package reloc

import (
	"context"
	"fmt"
	"time"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/image"
)

// Module is a structural consumer of the allocator.
type Module interface {
	Name() string
	Plan() *Plan
	Build(ctx context.Context, b *Builder) error
}

// Rebuild runs modules against one image and allocator.
//
// Rebuild is not safe for concurrent use.
type Rebuild struct {
	im      *image.Image
	al      *alloc.Allocator
	space   addr.Space
	reports []Report
}

// NewRebuild returns a Rebuild over im and al using space for conversions.
func NewRebuild(im *image.Image, al *alloc.Allocator, space addr.Space) *Rebuild {
	return &Rebuild{im: im, al: al, space: space}
}

// Run rebuilds each module in order and stops at the first failure.
//
// For each module: its plan's free ranges are released, Build runs, and the
// image transaction commits. On failure the image and the free set are
// restored to their state before that module, and the error is returned
// wrapped with the module name.
func (r *Rebuild) Run(ctx context.Context, mods ...Module) error {
	for _, m := range mods {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.runOne(ctx, m); err != nil {
			return fmt.Errorf("rebuild %s: %w", m.Name(), err)
		}
	}
	return nil
}

func (r *Rebuild) runOne(ctx context.Context, m Module) error {
	plan := m.Plan()
	if plan == nil {
		plan = NewPlan(m.Name())
	}
	if err := plan.Validate(r.im.Len()); err != nil {
		return err
	}

	start := time.Now()
	logger.Debug("module rebuild started", "module", m.Name(), "free_bytes", r.al.FreeBytes())

	r.im.Begin()
	snap := r.al.Snapshot()
	fail := func(err error) error {
		r.im.Rollback()
		r.al.Restore(snap)
		logger.Debug("module rebuild rolled back", "module", m.Name(), "error", err)
		return err
	}

	for _, fr := range plan.Free {
		if err := r.al.Free(fr); err != nil {
			return fail(fmt.Errorf("free %v: %w", fr, err))
		}
	}

	b := newBuilder(r.im, r.al, r.space, plan)
	if err := m.Build(ctx, b); err != nil {
		return fail(err)
	}
	r.im.Commit()

	r.reports = append(r.reports, b.rep)
	logger.Info("module rebuilt",
		"module", m.Name(),
		"placed", b.rep.Placed,
		"bytes", b.rep.Bytes,
		"relocated", b.rep.Relocated,
		"took", time.Since(start))
	return nil
}

// Reports returns one report per committed module, in run order.
func (r *Rebuild) Reports() []Report { return r.reports }
