// Package addr converts between the two coordinate systems used over a
// bank-segmented cartridge image.
//
// A Flat offset is a linear byte position within the image file. A Mapped
// address is the bank-aware form that code and tables inside the image store
// and reference. The two are related by a single breakpoint:
//
//	ToMapped(flat) = flat + Bias   when flat <  Threshold
//	ToMapped(flat) = flat          when flat >= Threshold
//	ToFlat(mapped) = mapped - Bias when mapped >= Bias
//	ToFlat(mapped) = mapped        otherwise
//
// For the HiROM layout (Bias 0xC00000, Threshold 0x400000), flat 0x000000
// maps to 0xC00000 and flat 0x400000 (the first byte of an expanded 6MB
// image) maps to itself. ToFlat(ToMapped(x)) == x for every flat offset
// below Bias.
//
// # Banks
//
// The bank of an address is its top byte (bits 16-23). Bank returns the bank
// of a mapped address and FlatBank the bank a flat offset falls in, which is
// what allocation predicates test against.
//
// All functions are pure.
package addr
