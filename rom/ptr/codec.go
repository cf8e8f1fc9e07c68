package ptr

import (
	"fmt"

	"github.com/joshuapare/romkit/internal/logger"
	"github.com/joshuapare/romkit/rom/addr"
)

// Image is the byte access a codec needs.
type Image interface {
	ReadMulti(off, size int) (uint64, error)
	WriteMulti(off int, v uint64, size int) error
}

const (
	maxLong  = 0xFFFFFF
	maxSplit = 0xFFFFFFFF
)

// Write stores the mapped address a through r.
//
// Values are validated before any byte is written, so a failed Write leaves
// the image unchanged.
func Write(im Image, r Ref, a addr.Mapped) error {
	if a < 0 {
		return fmt.Errorf("%w: %v via %v", ErrOutOfRange, a, r)
	}
	off := int(r.Offset)
	switch r.Kind {
	case KindSplit:
		v := uint64(a)
		if v > maxSplit {
			return fmt.Errorf("%w: %v via %v", ErrOutOfRange, a, r)
		}
		if err := checkWritable(im, r); err != nil {
			return err
		}
		if err := im.WriteMulti(off+1, v&0xFFFF, 2); err != nil {
			return err
		}
		if err := im.WriteMulti(off+6, v>>16, 2); err != nil {
			return err
		}
	case KindLong:
		v := int(a) + r.Adjust
		if v < 0 || v > maxLong {
			return fmt.Errorf("%w: %v%+d via %v", ErrOutOfRange, a, r.Adjust, r)
		}
		if err := im.WriteMulti(off, uint64(v), 3); err != nil {
			return err
		}
	case KindBank:
		if a > maxLong {
			return fmt.Errorf("%w: %v via %v", ErrOutOfRange, a, r)
		}
		if err := im.WriteMulti(off, uint64(addr.Bank(a)), 1); err != nil {
			return err
		}
	case KindShort:
		v := int(a) + r.Adjust
		if v < 0 {
			return fmt.Errorf("%w: %v%+d via %v", ErrOutOfRange, a, r.Adjust, r)
		}
		if err := im.WriteMulti(off, uint64(v)&0xFFFF, 2); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %v", ErrUnknownKind, r.Kind)
	}
	logger.Debug("pointer written", "kind", r.Kind.String(), "offset", r.Offset.String(), "address", a.String())
	return nil
}

// checkWritable checks both windows of a split reference so a bounds error
// on the second window cannot leave the first half written.
func checkWritable(im Image, r Ref) error {
	for _, w := range r.Span() {
		if _, err := im.ReadMulti(w[0], w[1]); err != nil {
			return err
		}
	}
	return nil
}

// Read recovers the mapped address stored through r.
func Read(im Image, r Ref) (addr.Mapped, error) {
	off := int(r.Offset)
	switch r.Kind {
	case KindSplit:
		lo, err := im.ReadMulti(off+1, 2)
		if err != nil {
			return 0, err
		}
		hi, err := im.ReadMulti(off+6, 2)
		if err != nil {
			return 0, err
		}
		return addr.Mapped(lo | hi<<16), nil
	case KindLong:
		v, err := im.ReadMulti(off, 3)
		if err != nil {
			return 0, err
		}
		a := int(v) - r.Adjust
		if a < 0 {
			return 0, fmt.Errorf("%w: stored %#x%+d via %v", ErrOutOfRange, v, -r.Adjust, r)
		}
		return addr.Mapped(a), nil
	case KindBank, KindShort:
		return 0, fmt.Errorf("%w: %v", ErrNotReadable, r)
	default:
		return 0, fmt.Errorf("%w: %v", ErrUnknownKind, r.Kind)
	}
}

// WriteAll stores a through every reference in refs, stopping at the first
// failure.
func WriteAll(im Image, refs []Ref, a addr.Mapped) error {
	for _, r := range refs {
		if err := Write(im, r, a); err != nil {
			return fmt.Errorf("write %v: %w", r, err)
		}
	}
	return nil
}
