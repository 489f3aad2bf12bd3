// Package canary writes and checks the sentinel word placed directly after
// every tracked payload. A release that finds the word changed reports a
// wild write.
package canary

import (
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

const (
	// Width is the number of bytes the canary occupies past the payload.
	Width = format.WordSize

	// Value is the sentinel, stored little-endian.
	Value uint32 = 0x0BADBEEF
)

// Write stores the canary at mem[off:off+Width].
func Write(mem []byte, off uint64) error {
	if !buf.Has(mem, off, Width) {
		return format.ErrTruncated
	}
	format.PutU32(mem, int(off), Value)
	return nil
}

// Read returns the word currently stored where the canary belongs.
func Read(mem []byte, off uint64) (uint32, error) {
	if !buf.Has(mem, off, Width) {
		return 0, format.ErrTruncated
	}
	return format.ReadU32(mem, int(off)), nil
}

// Intact reports whether the canary at off still holds Value. A canary that
// cannot be read is not intact.
func Intact(mem []byte, off uint64) bool {
	v, err := Read(mem, off)
	return err == nil && v == Value
}
