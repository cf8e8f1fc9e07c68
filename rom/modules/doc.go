// Package modules holds the structural modules that rebuild data into an
// image through the allocator and relocation plans.
//
// Each module takes its decoded data in memory (project file parsing is the
// caller's business) plus its reloc.Plan, usually from layout.Layout.Plan, and
// implements reloc.Module. Run them with reloc.Rebuild.
//
//	l, _ := layout.Default()
//	plan, _ := l.Plan(modules.ExpandedTablesName)
//	al, _ := l.Allocator(im)
//	err := reloc.NewRebuild(im, al, l.AddrSpace()).Run(ctx, modules.NewExpandedTables(plan, nil))
package modules
