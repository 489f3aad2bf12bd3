package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(10, 5); !ok || sum != 15 {
		t.Fatalf("AddOverflowSafe(10,5)=%d,%v want 15,true", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxUint64, 1); ok {
		t.Fatalf("expected overflow when adding to MaxUint64")
	}
	if sum, ok := AddOverflowSafe(math.MaxUint64-4, 4); !ok || sum != math.MaxUint64 {
		t.Fatalf("AddOverflowSafe at the edge = %d,%v", sum, ok)
	}
}

func TestMulOverflowSafe(t *testing.T) {
	if p, ok := MulOverflowSafe(0, math.MaxUint64); !ok || p != 0 {
		t.Fatalf("zero operand should never overflow: %d,%v", p, ok)
	}
	if p, ok := MulOverflowSafe(1<<32, 1<<31); !ok || p != 1<<63 {
		t.Fatalf("MulOverflowSafe(2^32,2^31)=%d,%v", p, ok)
	}
	if _, ok := MulOverflowSafe(1<<32, 1<<32); ok {
		t.Fatalf("expected overflow for 2^32 * 2^32")
	}
	if _, ok := MulOverflowSafe(math.MaxUint64/2+1, 2); ok {
		t.Fatalf("expected overflow just past MaxUint64")
	}
}

func TestCheckRange(t *testing.T) {
	if end, err := CheckRange(16, 4, 8); err != nil || end != 12 {
		t.Fatalf("CheckRange(16,4,8)=%d,%v", end, err)
	}
	if _, err := CheckRange(16, 12, 8); err == nil {
		t.Fatalf("expected bounds error")
	}
	if _, err := CheckRange(16, math.MaxUint64, 2); err == nil {
		t.Fatalf("expected overflow error")
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
	if !Has(data, 5, 0) {
		t.Fatalf("Has should accept an empty range at the end")
	}
}

func TestWindow(t *testing.T) {
	data := make([]byte, 16)
	w, ok := Window(data, 4, 2, 6)
	if !ok {
		t.Fatalf("Window failed")
	}
	if len(w) != 2 || cap(w) != 6 {
		t.Fatalf("Window len/cap = %d/%d, want 2/6", len(w), cap(w))
	}
	w = append(w, 0xAA)
	if data[6] != 0xAA {
		t.Fatalf("append should write through into the backing buffer")
	}
	if _, ok := Window(data, 12, 2, 6); ok {
		t.Fatalf("Window past the end should fail")
	}
	if _, ok := Window(data, 0, 7, 6); ok {
		t.Fatalf("Window with n > max should fail")
	}
}
