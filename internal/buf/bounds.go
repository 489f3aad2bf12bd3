// Package buf contains overflow-checked size arithmetic and bounds-checked slicing.
package buf

import (
	"fmt"
	"math"
	"math/bits"
)

// AddOverflowSafe adds a and b, returning ok = false when the result would overflow uint64.
func AddOverflowSafe(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, false
	}
	return sum, true
}

// MulOverflowSafe multiplies a and b, returning ok = false when the result would overflow uint64.
// This is the count * elementSize check zero-allocation relies on.
func MulOverflowSafe(a, b uint64) (uint64, bool) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, false
	}
	return lo, true
}

// FitsInt reports whether n can be used as a Go slice length or index.
func FitsInt(n uint64) bool {
	return n <= math.MaxInt
}

// CheckRange validates that n bytes starting at off fit in a buffer of bufLen
// bytes. Returns the end offset if valid, or an error describing the specific
// failure (overflow or out of bounds).
//
//	end, err := buf.CheckRange(uint64(len(data)), off, n)
//	if err != nil {
//	    return fmt.Errorf("span: %w", err)
//	}
func CheckRange(bufLen, off, n uint64) (uint64, error) {
	end, ok := AddOverflowSafe(off, n)
	if !ok {
		return 0, fmt.Errorf("overflow: offset=%d + size=%d", off, n)
	}
	if end > bufLen {
		return 0, fmt.Errorf("bounds: end=%d > len=%d", end, bufLen)
	}
	return end, nil
}

// Slice returns the sub-slice [off:off+n] if it fits within len(b).
// The result keeps b's capacity beyond off+n.
func Slice(b []byte, off, n uint64) ([]byte, bool) {
	end, err := CheckRange(uint64(len(b)), off, n)
	if err != nil {
		return nil, false
	}
	return b[off:end], true
}

// Window returns b[off:off+n:off+max], a view of n bytes whose capacity
// extends to max bytes. It fails if off+max does not fit within len(b) or
// n > max.
func Window(b []byte, off, n, max uint64) ([]byte, bool) {
	if n > max {
		return nil, false
	}
	end, err := CheckRange(uint64(len(b)), off, max)
	if err != nil {
		return nil, false
	}
	return b[off : off+n : end], true
}

// Has reports whether b[off:off+n] is within bounds.
func Has(b []byte, off, n uint64) bool {
	_, ok := Slice(b, off, n)
	return ok
}
