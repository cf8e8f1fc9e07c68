package buf

import "testing"

func TestEndianHelpers(t *testing.T) {
	data := []byte{0x01, 0x23, 0x45, 0x67, 0x89, 0xab, 0xcd, 0xef}

	if got := U16LE(data); got != 0x2301 {
		t.Fatalf("U16LE = 0x%x, want 0x2301", got)
	}
	if got := U24LE(data); got != 0x452301 {
		t.Fatalf("U24LE = 0x%x, want 0x452301", got)
	}
	if got := U32LE(data); got != 0x67452301 {
		t.Fatalf("U32LE = 0x%x, want 0x67452301", got)
	}
	if got := UintLE(data, 8); got != 0xefcdab8967452301 {
		t.Fatalf("UintLE(8) = 0x%x, want 0xefcdab8967452301", got)
	}
	if got := UintLE(data, 0); got != 0 {
		t.Fatalf("UintLE(0) = 0x%x, want 0", got)
	}

	short := []byte{0xAA}
	if U16LE(short) != 0 || U24LE(short) != 0 || U32LE(short) != 0 || UintLE(short, 2) != 0 {
		t.Fatalf("short reads should return 0")
	}
}

func TestPutUintLE(t *testing.T) {
	b := make([]byte, 4)
	PutUintLE(b, 0xC0FFEE, 3)
	if b[0] != 0xEE || b[1] != 0xFF || b[2] != 0xC0 || b[3] != 0 {
		t.Fatalf("PutUintLE wrote %x", b)
	}
	if got := UintLE(b, 3); got != 0xC0FFEE {
		t.Fatalf("UintLE after PutUintLE = 0x%x", got)
	}

	// Too short: no write.
	PutUintLE(b[:1], 0x1234, 2)
	if b[0] != 0xEE {
		t.Fatalf("PutUintLE wrote into short buffer")
	}
}
