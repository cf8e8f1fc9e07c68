// Package ptr encodes and decodes the pointer representations that machine
// code and tables inside a cartridge image use to reference data.
//
// A Ref is a tagged record naming one stored pointer: its Kind, the flat
// Offset it lives at, and an optional Adjust. Write and Read dispatch on
// Kind; there is no per-kind type to implement.
//
//	KindSplit  LDA #lo / STA / LDA #hi / STA: the low word sits at
//	           Offset+1..Offset+2 and the high word at Offset+6..Offset+7.
//	KindLong   3-byte little-endian value at Offset, stored as address+Adjust.
//	KindBank   1 byte at Offset holding the bank (bits 16-23) of the address.
//	KindShort  2-byte little-endian low word of address+Adjust at Offset.
//
// Only KindSplit and KindLong can be read back; KindBank and KindShort store
// a fragment of the address.
//
// Write touches exactly the bytes reported by Ref.Span and nothing else.
package ptr
