package ptr

import (
	"fmt"

	"github.com/joshuapare/romkit/rom/addr"
)

// Kind selects a pointer encoding.
type Kind uint8

const (
	KindSplit Kind = iota + 1
	KindLong
	KindBank
	KindShort
)

var kindNames = map[Kind]string{
	KindSplit: "split",
	KindLong:  "long",
	KindBank:  "bank",
	KindShort: "short",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// ParseKind returns the Kind named s ("split", "long", "bank", "short").
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Ref is one stored pointer inside the image.
type Ref struct {
	Kind   Kind
	Offset addr.Flat
	// Adjust is added to the address on write and subtracted on read.
	// Only KindLong and KindShort use it.
	Adjust int
}

// Split returns a split-immediate reference at the instruction offset off.
func Split(off addr.Flat) Ref { return Ref{Kind: KindSplit, Offset: off} }

// Long returns a 3-byte reference at off with the given adjustment.
func Long(off addr.Flat, adjust int) Ref { return Ref{Kind: KindLong, Offset: off, Adjust: adjust} }

// BankByte returns a bank-byte reference at off.
func BankByte(off addr.Flat) Ref { return Ref{Kind: KindBank, Offset: off} }

// Short returns a 2-byte low-word reference at off with the given adjustment.
func Short(off addr.Flat, adjust int) Ref { return Ref{Kind: KindShort, Offset: off, Adjust: adjust} }

// Readable reports whether Read can recover a full address from r.
func (r Ref) Readable() bool {
	return r.Kind == KindSplit || r.Kind == KindLong
}

// Span returns the byte windows Write modifies, as (offset, length) pairs.
func (r Ref) Span() [][2]int {
	off := int(r.Offset)
	switch r.Kind {
	case KindSplit:
		return [][2]int{{off + 1, 2}, {off + 6, 2}}
	case KindLong:
		return [][2]int{{off, 3}}
	case KindBank:
		return [][2]int{{off, 1}}
	case KindShort:
		return [][2]int{{off, 2}}
	}
	return nil
}

func (r Ref) String() string {
	if r.Adjust != 0 {
		return fmt.Sprintf("%s@%v%+d", r.Kind, r.Offset, r.Adjust)
	}
	return fmt.Sprintf("%s@%v", r.Kind, r.Offset)
}
