package main

import (
	"context"
	"fmt"

	"github.com/joshuapare/romkit/rom/image"
	"github.com/joshuapare/romkit/rom/layout"
	"github.com/joshuapare/romkit/rom/reloc"
)

// rebuildOpts selects where rebuilt bytes go. With neither field set the ROM
// is modified in place.
type rebuildOpts struct {
	dryRun bool
	output string
}

// runRebuild opens the ROM, runs the modules returned by build and writes the
// result according to opts.
func runRebuild(ctx context.Context, path string, opts rebuildOpts,
	build func(l *layout.Layout) ([]reloc.Module, error),
) ([]reloc.Report, error) {
	l, err := loadLayout()
	if err != nil {
		return nil, err
	}
	mods, err := build(l)
	if err != nil {
		return nil, err
	}

	var im *image.Image
	if opts.dryRun || opts.output != "" {
		im, err = readImage(path)
	} else {
		im, err = image.Open(path)
	}
	if err != nil {
		return nil, err
	}
	defer im.Close()

	al, err := l.Allocator(im)
	if err != nil {
		return nil, err
	}
	rb := reloc.NewRebuild(im, al, l.AddrSpace())
	if err := rb.Run(ctx, mods...); err != nil {
		return nil, err
	}

	switch {
	case opts.dryRun:
	case opts.output != "":
		if err := im.Save(opts.output); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", opts.output, err)
		}
	default:
		if err := im.Flush(ctx); err != nil {
			return nil, err
		}
	}
	return rb.Reports(), nil
}

func printReports(reps []reloc.Report) error {
	if jsonOut {
		return printJSON(reps)
	}
	rows := make([][]string, 0, len(reps))
	for _, r := range reps {
		rows = append(rows, []string{
			r.Module,
			fmt.Sprintf("%d", r.Placed),
			fmt.Sprintf("%d", r.Bytes),
			fmt.Sprintf("%d", r.Relocated),
		})
	}
	printInfo("%s\n", renderTable([]string{"Module", "Placed", "Bytes", "Relocated"}, rows))
	return nil
}
