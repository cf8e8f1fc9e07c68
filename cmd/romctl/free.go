package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

var freeModules []string

func init() {
	rootCmd.AddCommand(newFreeCmd())
}

func newFreeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "free <rom>",
		Short: "Show the free space declared for a ROM image",
		Long: `The free command seeds an allocator from the layout's image-wide free
ranges and reports every range, the total and the largest. With --module the
ranges owned or reserved by those modules are released too, as a rebuild
would.

Example:
  romctl free game.smc
  romctl free game.smc --module map --module doors
  romctl free game.smc --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFree(args)
		},
	}
	cmd.Flags().StringSliceVarP(&freeModules, "module", "m", nil, "Also release ranges owned or reserved by this module")
	return cmd
}

type freeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Size  int `json:"size"`
}

type freeReport struct {
	Ranges  []freeRange `json:"ranges"`
	Total   int         `json:"total"`
	Largest int         `json:"largest"`
}

func runFree(args []string) error {
	l, err := loadLayout()
	if err != nil {
		return err
	}
	im, err := readImage(args[0])
	if err != nil {
		return err
	}
	al, err := l.Allocator(im)
	if err != nil {
		return err
	}
	for _, name := range freeModules {
		plan, err := l.Plan(name)
		if err != nil {
			return err
		}
		for _, r := range slices.Concat(plan.Free, plan.Reserved) {
			if err := al.Free(r); err != nil {
				return fmt.Errorf("module %s: %w", name, err)
			}
		}
	}

	rep := freeReport{Total: al.FreeBytes()}
	for _, r := range al.Ranges() {
		rep.Ranges = append(rep.Ranges, freeRange{Start: int(r.Start), End: int(r.End), Size: r.Len()})
	}
	if big, ok := al.Largest(); ok {
		rep.Largest = big.Len()
	}

	if jsonOut {
		return printJSON(rep)
	}
	printFree(rep)
	return nil
}

func printFree(rep freeReport) {
	if len(rep.Ranges) == 0 {
		printInfo("No free space.\n")
		return
	}
	rows := make([][]string, 0, len(rep.Ranges))
	for _, r := range rep.Ranges {
		rows = append(rows, []string{
			fmt.Sprintf("%#08x", r.Start),
			fmt.Sprintf("%#08x", r.End),
			fmt.Sprintf("%d", r.Size),
		})
	}
	printInfo("%s\n", renderTable([]string{"Start", "End", "Bytes"}, rows))

	var sb strings.Builder
	sb.WriteString(field("Ranges", fmt.Sprintf("%d", len(rep.Ranges))))
	sb.WriteString("\n")
	sb.WriteString(field("Total", fmt.Sprintf("%d bytes", rep.Total)))
	sb.WriteString("\n")
	sb.WriteString(field("Largest", fmt.Sprintf("%d bytes", rep.Largest)))
	printInfo("%s\n", sb.String())
}
