package addr

import "fmt"

// Flat is a linear byte offset within the image.
type Flat int

// Mapped is a bank-aware address as stored by on-image code and tables.
type Mapped int

// BankSize is the number of bytes addressed by one bank.
const BankSize = 0x10000

// Space describes one flat/mapped mapping.
type Space struct {
	// Bias is added to flat offsets below Threshold.
	Bias int
	// Threshold is the first flat offset that maps to itself.
	Threshold int
}

// HiROM is the mapping used by HiROM cartridges such as EarthBound.
var HiROM = Space{Bias: 0xC00000, Threshold: 0x400000}

// ToFlat converts a mapped address to a flat offset.
func (s Space) ToFlat(m Mapped) (Flat, error) {
	if m < 0 {
		return 0, fmt.Errorf("%w: mapped %d is negative", ErrInvalidAddress, int(m))
	}
	if int(m) >= s.Bias {
		return Flat(int(m) - s.Bias), nil
	}
	return Flat(m), nil
}

// ToMapped converts a flat offset to a mapped address.
func (s Space) ToMapped(f Flat) Mapped {
	if int(f) >= s.Threshold {
		return Mapped(f)
	}
	return Mapped(int(f) + s.Bias)
}

// MustFlat is ToFlat for addresses known to be valid, such as layout constants.
// It panics on a negative address.
func (s Space) MustFlat(m Mapped) Flat {
	f, err := s.ToFlat(m)
	if err != nil {
		panic(err)
	}
	return f
}

// FlatBank returns the bank the flat offset f falls in.
func FlatBank(f Flat) int {
	return int(f) / BankSize
}

// Bank returns the bank byte of a mapped address.
func Bank(m Mapped) int {
	return (int(m) >> 16) & 0xff
}

// ToFlat converts using the HiROM mapping.
func ToFlat(m Mapped) (Flat, error) { return HiROM.ToFlat(m) }

// ToMapped converts using the HiROM mapping.
func ToMapped(f Flat) Mapped { return HiROM.ToMapped(f) }

func (f Flat) String() string   { return fmt.Sprintf("%#08x", int(f)) }
func (m Mapped) String() string { return fmt.Sprintf("$%06X", int(m)) }
