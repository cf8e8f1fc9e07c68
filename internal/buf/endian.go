// Package buf contains helpers for endian-safe decoding routines.
package buf

import "encoding/binary"

// U16LE reads a little-endian uint16 from b. Returns 0 when b is too short.
func U16LE(b []byte) uint16 {
	if len(b) < 2 {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

// U24LE reads a little-endian 24-bit value from b. Returns 0 when b is too short.
func U24LE(b []byte) uint32 {
	if len(b) < 3 {
		return 0
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
}

// U32LE reads a little-endian uint32 from b. Returns 0 when b is too short.
func U32LE(b []byte) uint32 {
	if len(b) < 4 {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

// UintLE reads an n-byte little-endian value (n <= 8) from b.
// Returns 0 when b is shorter than n.
func UintLE(b []byte, n int) uint64 {
	if n < 0 || n > 8 || len(b) < n {
		return 0
	}
	var v uint64
	for i := n - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// PutUintLE writes the low n bytes (n <= 8) of v into b in little-endian order.
// Does nothing when b is shorter than n.
func PutUintLE(b []byte, v uint64, n int) {
	if n < 0 || n > 8 || len(b) < n {
		return
	}
	for i := range n {
		b[i] = byte(v)
		v >>= 8
	}
}
