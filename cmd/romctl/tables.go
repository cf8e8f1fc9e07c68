package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/rom/layout"
	"github.com/joshuapare/romkit/rom/modules"
	"github.com/joshuapare/romkit/rom/reloc"
)

var (
	tablesDryRun bool
	tablesOutput string
	tablesFiles  []string
)

func init() {
	rootCmd.AddCommand(newTablesCmd())
}

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables <rom>",
		Short: "Move fixed tables into free space so they can grow",
		Long: `The tables command runs the expanded tables module: every table the layout
binds is placed in free space and each reference to it is rewritten. A table
is moved with its current bytes unless --table supplies new contents.

Example:
  romctl tables game.smc
  romctl tables game.smc --table psi_names=psi.bin --output expanded.smc
  romctl tables game.smc --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTables(cmd.Context(), args)
		},
	}
	cmd.Flags().BoolVar(&tablesDryRun, "dry-run", false, "Rebuild in memory only")
	cmd.Flags().StringVarP(&tablesOutput, "output", "o", "", "Write the result here instead of modifying the ROM")
	cmd.Flags().StringArrayVar(&tablesFiles, "table", nil, "Replace a table's contents (name=file)")
	return cmd
}

func runTables(ctx context.Context, args []string) error {
	contents, err := readTableFiles(tablesFiles)
	if err != nil {
		return err
	}
	reps, err := runRebuild(ctx, args[0], rebuildOpts{dryRun: tablesDryRun, output: tablesOutput},
		func(l *layout.Layout) ([]reloc.Module, error) {
			plan, err := l.Plan(modules.ExpandedTablesName)
			if err != nil {
				return nil, err
			}
			for name := range contents {
				if _, ok := plan.Lookup(name); !ok {
					return nil, fmt.Errorf("unknown table %q", name)
				}
			}
			return []reloc.Module{modules.NewExpandedTables(plan, contents)}, nil
		})
	if err != nil {
		return err
	}
	return printReports(reps)
}

func readTableFiles(specs []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(specs))
	for _, s := range specs {
		name, file, ok := strings.Cut(s, "=")
		if !ok || name == "" || file == "" {
			return nil, fmt.Errorf("invalid --table %q, want name=file", s)
		}
		data, err := os.ReadFile(filepath.Clean(file))
		if err != nil {
			return nil, fmt.Errorf("table %s: %w", name, err)
		}
		out[name] = data
	}
	return out, nil
}
