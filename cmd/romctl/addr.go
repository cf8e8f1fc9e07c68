package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/rom/addr"
)

func init() {
	rootCmd.AddCommand(newAddrCmd())
}

func newAddrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "addr <address>...",
		Short: "Convert between flat offsets and mapped addresses",
		Long: `The addr command converts each address between the flat file offset and
the mapped address used by on-image pointers. Values at or above the layout
bias are read as mapped addresses; smaller values are read as flat offsets.

Example:
  romctl addr 0x0A0000
  romctl addr '$C0A1DB' 0x300200`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAddr(args)
		},
	}
	return cmd
}

type addrResult struct {
	Input  string `json:"input"`
	Flat   int    `json:"flat"`
	Mapped int    `json:"mapped"`
	Bank   int    `json:"bank"`
}

func runAddr(args []string) error {
	l, err := loadLayout()
	if err != nil {
		return err
	}
	space := l.AddrSpace()

	results := make([]addrResult, 0, len(args))
	for _, a := range args {
		v, err := parseNumber(a)
		if err != nil {
			return err
		}
		var f addr.Flat
		if v >= space.Bias {
			if f, err = space.ToFlat(addr.Mapped(v)); err != nil {
				return err
			}
		} else {
			if v < 0 {
				return fmt.Errorf("%w: %s", addr.ErrInvalidAddress, a)
			}
			f = addr.Flat(v)
		}
		m := space.ToMapped(f)
		results = append(results, addrResult{Input: a, Flat: int(f), Mapped: int(m), Bank: addr.FlatBank(f)})
	}

	if jsonOut {
		return printJSON(results)
	}
	for _, r := range results {
		printInfo("%s  flat %v  mapped %v  bank %#02x\n",
			styled(headerStyle).Render(r.Input), addr.Flat(r.Flat), addr.Mapped(r.Mapped), r.Bank)
	}
	return nil
}
