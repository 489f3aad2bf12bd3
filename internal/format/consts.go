// Package format houses the low-level byte layout shared by the tracking
// engine and the raw allocators: little-endian encoding of fixed-width words
// and the alignment rules blocks are carved with.
package format

const (
	// BlockAlignment is the alignment of every block start handed out by the
	// raw arena. Requested sizes are rounded up to a multiple of it.
	BlockAlignment = 8

	// BlockAlignmentMask is BlockAlignment - 1.
	BlockAlignmentMask = BlockAlignment - 1

	// PageSize is the granularity arena spans are reserved in.
	PageSize = 0x1000

	// PageAlignmentMask is PageSize - 1.
	PageAlignmentMask = PageSize - 1

	// WordSize is the size of the canary word written after each payload.
	WordSize = 4
)
