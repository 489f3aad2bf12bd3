package format

// Alignment utilities for block and span sizing.

// Align8 returns n aligned up to the next 8-byte boundary.
// Used for block sizes so every block start stays 8-byte aligned.
//
// Example:
//
//	Align8(1)  = 8
//	Align8(8)  = 8
//	Align8(9)  = 16
//	Align8(16) = 16
//
// The caller must ensure n <= math.MaxUint64-7.
func Align8(n uint64) uint64 {
	return (n + BlockAlignmentMask) &^ BlockAlignmentMask
}

// AlignPage returns n aligned up to the next 4KB (4096-byte) boundary.
// Used for arena spans, which are reserved in whole pages.
//
// Example:
//
//	AlignPage(1)    = 4096
//	AlignPage(4096) = 4096
//	AlignPage(4097) = 8192
func AlignPage(n uint64) uint64 {
	return (n + PageAlignmentMask) &^ PageAlignmentMask
}

// IsAligned8 reports whether n is a multiple of 8.
func IsAligned8(n uint64) bool {
	return n&BlockAlignmentMask == 0
}
