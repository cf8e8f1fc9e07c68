package modules

import (
	"errors"
	"fmt"

	"github.com/joshuapare/romkit/rom/addr"
	"github.com/joshuapare/romkit/rom/alloc"
	"github.com/joshuapare/romkit/rom/reloc"
)

// placeInOneBank places p so that all of it shares one bank, trying banks in
// ascending order.
func placeInOneBank(b *reloc.Builder, p []byte) (addr.Mapped, error) {
	if len(p) > addr.BankSize {
		return 0, fmt.Errorf("%w: %d bytes cannot share a bank", alloc.ErrBadRequest, len(p))
	}
	banks := (b.Image().Len() + addr.BankSize - 1) / addr.BankSize
	for bank := range banks {
		a, err := b.Place(p, alloc.InBank(bank))
		if err == nil {
			return a, nil
		}
		if !errors.Is(err, alloc.ErrOutOfSpace) {
			return 0, err
		}
	}
	return 0, fmt.Errorf("%w: need %d bytes within a single bank", alloc.ErrOutOfSpace, len(p))
}
