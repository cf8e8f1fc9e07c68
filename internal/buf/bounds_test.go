package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow when adding to MaxInt")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow when subtracting from MinInt")
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(1280, 4); !ok || p != 5120 {
		t.Fatalf("MulOverflowSafe(1280,4)=%d,%v want 5120,true", p, ok)
	}
	if p, ok := MulOverflowSafe(0, math.MaxInt); !ok || p != 0 {
		t.Fatalf("MulOverflowSafe(0,MaxInt)=%d,%v want 0,true", p, ok)
	}
	if _, ok := MulOverflowSafe(math.MaxInt/2, 3); ok {
		t.Fatalf("expected overflow")
	}
	if _, ok := MulOverflowSafe(-1, 3); ok {
		t.Fatalf("expected rejection of negative operand")
	}
}

func TestCheckSpan(t *testing.T) {
	if end, err := CheckSpan(16, 4, 12); err != nil || end != 16 {
		t.Fatalf("CheckSpan(16,4,12)=%d,%v want 16,nil", end, err)
	}
	if _, err := CheckSpan(16, 4, 13); err == nil {
		t.Fatalf("CheckSpan should fail past end")
	}
	if _, err := CheckSpan(16, -1, 1); err == nil {
		t.Fatalf("CheckSpan should reject negative offset")
	}
	if _, err := CheckSpan(16, 1, -1); err == nil {
		t.Fatalf("CheckSpan should reject negative length")
	}
	if _, err := CheckSpan(16, math.MaxInt, 1); err == nil {
		t.Fatalf("CheckSpan should reject overflow")
	}
}

func TestSliceAndHas(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4}
	if got, ok := Slice(data, 1, 3); !ok || len(got) != 3 || got[0] != 1 || got[2] != 3 {
		t.Fatalf("Slice returned unexpected result: %v, %v", got, ok)
	}
	if _, ok := Slice(data, 4, 2); ok {
		t.Fatalf("Slice should fail when extending beyond len")
	}
	if Has(data, 2, 4) {
		t.Fatalf("Has should be false for out-of-bounds range")
	}
	if !Has(data, 2, 1) {
		t.Fatalf("Has should be true for valid range")
	}
	if _, ok := Slice(data, -1, 1); ok {
		t.Fatalf("Slice should reject negative offset")
	}
	if _, ok := Slice(data, 1, -1); ok {
		t.Fatalf("Slice should reject negative length")
	}
}
