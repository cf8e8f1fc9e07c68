// Package layout loads the static description of an image: its address
// space, the free ranges available to every module, and per-module
// relocation plans.
//
// Layouts are YAML. Integers may be written in hex (0xC07486). Ranges are
// two-element sequences [start, end], inclusive. Any value at or above the
// space's bias is treated as a mapped address and converted to flat; smaller
// values are flat already. A reference may say "offset" for a flat operand
// offset or "address" for a mapped one.
//
//	space: {bias: 0xC00000, threshold: 0x400000}
//	free:
//	  - [0x300200, 0x3FFFFF]
//	modules:
//	  doors:
//	    free:
//	      - [0xD00000, 0xD013FF]
//	    targets:
//	      area_table:
//	        refs:
//	          - {kind: split, address: 0xC07486}
//
// Default returns the embedded EarthBound layout.
package layout
