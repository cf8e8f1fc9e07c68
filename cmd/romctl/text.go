package main

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/rom/layout"
	"github.com/joshuapare/romkit/rom/modules"
	"github.com/joshuapare/romkit/rom/reloc"
)

var (
	textSet    []string
	textDryRun bool
	textOutput string
)

func init() {
	rootCmd.AddCommand(newTextCmd())
}

func newTextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "text <rom>",
		Short: "Show or rewrite menu strings",
		Long: `The text command prints every menu string slot. With --set the named slots
are rewritten; pointer-backed slots move to free space, fixed slots are
overwritten in place.

Control codes are written as [XX] in hex.

Example:
  romctl text game.smc
  romctl text game.smc --set bash=Punch --set goods=Stuff -o new.smc`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(textSet) > 0 {
				return runTextSet(cmd.Context(), args)
			}
			return runText(args)
		},
	}
	cmd.Flags().StringArrayVar(&textSet, "set", nil, "Rewrite a slot (name=text)")
	cmd.Flags().BoolVar(&textDryRun, "dry-run", false, "Rebuild in memory only")
	cmd.Flags().StringVarP(&textOutput, "output", "o", "", "Write the result here instead of modifying the ROM")
	return cmd
}

func runText(args []string) error {
	l, err := loadLayout()
	if err != nil {
		return err
	}
	plan, err := l.Plan(modules.MiscTextName)
	if err != nil {
		return err
	}
	im, err := readImage(args[0])
	if err != nil {
		return err
	}
	slots := slotsIn(plan)
	strs, err := modules.ReadText(im, plan, l.AddrSpace(), slots)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(strs)
	}
	rows := make([][]string, 0, len(strs))
	for _, s := range slots {
		rows = append(rows, []string{s.Name, strs[s.Name], fmt.Sprintf("%d", s.Max)})
	}
	printInfo("%s\n", renderTable([]string{"Slot", "Text", "Max"}, rows))
	return nil
}

func runTextSet(ctx context.Context, args []string) error {
	strs := make(map[string]string, len(textSet))
	for _, s := range textSet {
		name, val, ok := strings.Cut(s, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid --set %q, want name=text", s)
		}
		if !knownSlot(name) {
			return fmt.Errorf("unknown text slot %q", name)
		}
		strs[name] = val
	}
	reps, err := runRebuild(ctx, args[0], rebuildOpts{dryRun: textDryRun, output: textOutput},
		func(l *layout.Layout) ([]reloc.Module, error) {
			plan, err := l.Plan(modules.MiscTextName)
			if err != nil {
				return nil, err
			}
			return []reloc.Module{modules.NewMiscText(plan, strs)}, nil
		})
	if err != nil {
		return err
	}
	return printReports(reps)
}

func knownSlot(name string) bool {
	return slices.ContainsFunc(modules.DefaultTextSlots, func(s modules.TextSlot) bool { return s.Name == name })
}

// slotsIn returns the default slots the plan gives a location.
func slotsIn(plan *reloc.Plan) []modules.TextSlot {
	var out []modules.TextSlot
	for _, s := range modules.DefaultTextSlots {
		if len(plan.Refs(s.Name)) > 0 || len(plan.Patches[s.Name]) > 0 {
			out = append(out, s)
		}
	}
	return out
}
