package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/ptr"
)

var (
	ptrKind   string
	ptrAdjust int
)

func init() {
	rootCmd.AddCommand(newPtrCmd())
}

func newPtrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ptr <rom> <offset>",
		Short: "Read the pointer stored at an offset",
		Long: `The ptr command decodes the pointer reference at offset and prints the
address it points to. The offset may be flat or mapped. Only split and long
references hold a full address and can be read.

Example:
  romctl ptr game.smc 0x1C423
  romctl ptr game.smc '$C0A1E1' --kind long --adjust 2`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPtr(args)
		},
	}
	cmd.Flags().StringVarP(&ptrKind, "kind", "k", "split", "Reference kind (split, long)")
	cmd.Flags().IntVar(&ptrAdjust, "adjust", 0, "Constant added to the stored value (long only)")
	return cmd
}

type ptrResult struct {
	Ref    string `json:"ref"`
	Mapped int    `json:"mapped"`
	Flat   int    `json:"flat"`
}

func runPtr(args []string) error {
	l, err := loadLayout()
	if err != nil {
		return err
	}
	space := l.AddrSpace()

	kind, err := ptr.ParseKind(ptrKind)
	if err != nil {
		return err
	}
	v, err := parseNumber(args[1])
	if err != nil {
		return err
	}
	off, err := space.ToFlat(addr.Mapped(v))
	if err != nil {
		return err
	}

	im, err := readImage(args[0])
	if err != nil {
		return err
	}
	ref := ptr.Ref{Kind: kind, Offset: off, Adjust: ptrAdjust}
	m, err := ptr.Read(im, ref)
	if err != nil {
		return fmt.Errorf("read %v: %w", ref, err)
	}
	f, err := space.ToFlat(m)
	if err != nil {
		return err
	}

	res := ptrResult{Ref: ref.String(), Mapped: int(m), Flat: int(f)}
	if jsonOut {
		return printJSON(res)
	}
	printInfo("%s -> %v (flat %v)\n", styled(headerStyle).Render(res.Ref), m, f)
	return nil
}
