package modules

import (
	"context"
	"fmt"
	"slices"

	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/reloc"
)

// ExpandedTablesName is the expanded tables module's layout key.
const ExpandedTablesName = "expanded_tables"

// ExpandedTables moves fixed-location tables into free space so they can
// grow. Every bound target is moved; Tables supplies new contents by target
// name, and a target without an entry is moved with its current bytes.
type ExpandedTables struct {
	plan   *reloc.Plan
	Tables map[string][]byte
}

func NewExpandedTables(plan *reloc.Plan, tables map[string][]byte) *ExpandedTables {
	return &ExpandedTables{plan: plan, Tables: tables}
}

func (m *ExpandedTables) Name() string      { return ExpandedTablesName }
func (m *ExpandedTables) Plan() *reloc.Plan { return m.plan }

func (m *ExpandedTables) Build(ctx context.Context, b *reloc.Builder) error {
	targets := m.plan.Targets()

	// Every old copy is taken before the first placement: a released range
	// may hold another target's current bytes.
	data := make([][]byte, len(targets))
	for i, target := range targets {
		if t, ok := m.Tables[target]; ok {
			data[i] = t
			continue
		}
		cur, err := m.current(b, target)
		if err != nil {
			return err
		}
		data[i] = cur
	}

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(data[i]) == 0 {
			return fmt.Errorf("%w: %s is empty", ErrBadTable, target)
		}
		a, err := b.Place(data[i], alloc.Any())
		if err != nil {
			return fmt.Errorf("%s: %w", target, err)
		}
		if err := b.Relocate(target, a); err != nil {
			return err
		}
	}
	return nil
}

// current copies target's bytes from where its first readable reference
// says it lives.
func (m *ExpandedTables) current(b *reloc.Builder, target string) ([]byte, error) {
	bind, _ := m.plan.Lookup(target)
	if bind.Size <= 0 {
		return nil, fmt.Errorf("%w: %s has no size and no new contents", ErrBadTable, target)
	}
	at, err := b.Locate(target)
	if err != nil {
		return nil, err
	}
	f, err := b.Flat(at)
	if err != nil {
		return nil, err
	}
	raw, err := b.Image().Slice(int(f), bind.Size)
	if err != nil {
		return nil, fmt.Errorf("%s at %v: %w", target, at, err)
	}
	return slices.Clone(raw), nil
}
