package raw

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/logger"
)

const (
	// minBlockSize is the smallest block the arena hands out or keeps on a
	// free list. A zero-byte request still consumes one.
	minBlockSize = 8

	// DefaultBase is the first address of a new arena.
	DefaultBase Addr = 0x10000

	// DefaultSpanSize is the reservation granularity.
	DefaultSpanSize = 64 << 10

	// DefaultCapacity bounds the total reservation of an arena.
	DefaultCapacity = 64 << 20
)

// ArenaOptions configures NewArena. Zero values select the defaults.
type ArenaOptions struct {
	Base     Addr             // First address handed out. Default: DefaultBase
	Capacity uint64           // Max bytes reserved across all spans. Default: DefaultCapacity
	SpanSize uint64           // Minimum span reservation. Default: DefaultSpanSize
	Source   SpanSource       // Span memory. Default: HeapSpans
	Classes  *SizeClassConfig // Free-list size classes. Default: DefaultConfig
}

// Arena is a span-backed allocator over an integer address space.
//   - Min-heaps per size class give best-fit reuse of freed addresses
//   - Spans are contiguous in address space and found by binary search
//   - A bump pointer carves fresh blocks from the newest span
type Arena struct {
	base     Addr
	capacity uint64
	spanSize uint64
	source   SpanSource

	sizeTable *sizeClassTable
	freeLists []freeList
	largeFree *largeBlock

	// spans is ordered by start address; the last one is the bump span.
	spans  []span
	cursor Addr // next fresh address in the bump span
	limit  Addr // end of the bump span

	reserved uint64
	live     map[Addr]uint64 // block start -> block size

	liveBytes  uint64
	freeBlocks int
	freeBytes  uint64

	stats  arenaCounters
	closed bool
}

// arenaCounters holds cumulative operation counts.
type arenaCounters struct {
	Allocs     uint64
	Frees      uint64
	Reuses     uint64 // allocations satisfied from a free list
	Splits     uint64
	Grows      uint64
	HeapPushes uint64
}

// Stats is a snapshot of arena occupancy and counters.
type Stats struct {
	Sizes      string // size class configuration name
	Spans      int
	Reserved   uint64
	Capacity   uint64
	LiveBlocks int
	LiveBytes  uint64
	FreeBlocks int
	FreeBytes  uint64
	Allocs     uint64
	Frees      uint64
	Reuses     uint64
	Splits     uint64
	Grows      uint64
}

// NewArena creates an arena. No memory is reserved until the first Alloc.
func NewArena(opts ArenaOptions) (*Arena, error) {
	if opts.Base == 0 {
		opts.Base = DefaultBase
	}
	if opts.Capacity == 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.SpanSize == 0 {
		opts.SpanSize = DefaultSpanSize
	}
	if opts.Source == nil {
		opts.Source = HeapSpans{}
	}
	if opts.Classes == nil {
		opts.Classes = &DefaultConfig
	}

	if !format.IsAligned8(uint64(opts.Base)) {
		return nil, fmt.Errorf("%w: base %s is not 8-byte aligned", ErrBadOptions, opts.Base)
	}
	if _, ok := buf.AddOverflowSafe(uint64(opts.Base), opts.Capacity); !ok {
		return nil, fmt.Errorf("%w: base %s + capacity %d overflows", ErrBadOptions, opts.Base, opts.Capacity)
	}

	sizeTable := newSizeClassTable(*opts.Classes)

	return &Arena{
		base:      opts.Base,
		capacity:  opts.Capacity,
		spanSize:  format.AlignPage(opts.SpanSize),
		source:    opts.Source,
		sizeTable: sizeTable,
		freeLists: make([]freeList, sizeTable.NumClasses()),
		spans:     make([]span, 0, 16),
		cursor:    opts.Base,
		limit:     opts.Base,
		live:      make(map[Addr]uint64, 256),
	}, nil
}

// Alloc allocates a block of n bytes. Freed blocks are reused best-fit before
// the bump span is consulted.
func (a *Arena) Alloc(n uint64) (Addr, []byte, error) {
	if a.closed {
		return 0, nil, ErrClosed
	}
	if n > a.capacity || !buf.FitsInt(n) {
		return 0, nil, fmt.Errorf("%w: request of %d bytes exceeds capacity %d", ErrOutOfMemory, n, a.capacity)
	}

	need := max(format.Align8(n), minBlockSize)

	var addr Addr
	var size uint64

	if b := a.takeFree(need); b != nil {
		a.stats.Reuses++
		addr, size = b.addr, b.size
		if rem := size - need; rem >= minBlockSize {
			a.stats.Splits++
			a.insertFree(addr+Addr(need), rem)
			size = need
		}
	} else {
		if uint64(a.limit-a.cursor) < need {
			if err := a.grow(need); err != nil {
				return 0, nil, err
			}
		}
		addr, size = a.cursor, need
		a.cursor += Addr(need)
	}

	s, ok := a.findSpan(addr)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s outside every span", ErrBadAddr, addr)
	}
	off := uint64(addr - s.start)
	mem, ok := buf.Window(s.mem, off, n, n)
	if !ok {
		return 0, nil, fmt.Errorf("%w: %s+%d crosses span end %s", ErrBadAddr, addr, n, s.end)
	}

	a.live[addr] = size
	a.liveBytes += size
	a.stats.Allocs++

	return addr, mem, nil
}

// Free returns a block to the free lists.
func (a *Arena) Free(addr Addr) error {
	if a.closed {
		return ErrClosed
	}
	size, ok := a.live[addr]
	if !ok {
		return fmt.Errorf("%w: %s", ErrBadAddr, addr)
	}
	delete(a.live, addr)
	a.liveBytes -= size
	a.stats.Frees++
	a.insertFree(addr, size)
	return nil
}

// BlockSize returns the aligned size of the live block at addr.
func (a *Arena) BlockSize(addr Addr) (uint64, bool) {
	size, ok := a.live[addr]
	return size, ok
}

// grow reserves a new span large enough for need bytes. The unused tail of
// the current bump span goes to the free lists.
func (a *Arena) grow(need uint64) error {
	spanSize := max(a.spanSize, format.AlignPage(need))
	if a.reserved+spanSize > a.capacity {
		// Fall back to exactly what remains when the full span would not fit.
		spanSize = a.capacity - a.reserved
		if spanSize < need {
			logger.Debug("raw: arena exhausted",
				"need", need, "reserved", a.reserved, "capacity", a.capacity)
			return fmt.Errorf("%w: need %d bytes, %d of %d reserved", ErrOutOfMemory, need, a.reserved, a.capacity)
		}
	}

	mem, release, err := a.source.Reserve(spanSize)
	if err != nil {
		return err
	}

	if tail := uint64(a.limit - a.cursor); tail >= minBlockSize {
		a.insertFree(a.cursor, tail)
	}

	start := a.limit
	a.spans = append(a.spans, span{
		start:   start,
		end:     start + Addr(spanSize),
		mem:     mem,
		release: release,
	})
	a.cursor = start
	a.limit = start + Addr(spanSize)
	a.reserved += spanSize
	a.stats.Grows++

	logger.Debug("raw: arena grew",
		"span", len(a.spans), "start", start.String(), "size", spanSize, "need", need)
	return nil
}

// Close releases every span. Further use returns ErrClosed.
func (a *Arena) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	for i := range a.spans {
		if err := a.spans[i].release(); err != nil {
			errs = append(errs, fmt.Errorf("span %s: %w", a.spans[i].start, err))
		}
		a.spans[i].mem = nil
	}
	a.spans = nil
	a.live = nil
	a.freeLists = nil
	a.largeFree = nil
	return errors.Join(errs...)
}

// Stats returns a snapshot of the arena.
func (a *Arena) Stats() Stats {
	return Stats{
		Sizes:      a.sizeTable.String(),
		Spans:      len(a.spans),
		Reserved:   a.reserved,
		Capacity:   a.capacity,
		LiveBlocks: len(a.live),
		LiveBytes:  a.liveBytes,
		FreeBlocks: a.freeBlocks,
		FreeBytes:  a.freeBytes,
		Allocs:     a.stats.Allocs,
		Frees:      a.stats.Frees,
		Reuses:     a.stats.Reuses,
		Splits:     a.stats.Splits,
		Grows:      a.stats.Grows,
	}
}

// PrintStats writes a human-readable summary of the arena to w.
func (a *Arena) PrintStats(w io.Writer) error {
	s := a.Stats()
	_, err := fmt.Fprintf(w,
		"arena (%s classes): %d spans, %s of %s reserved\n"+
			"  live: %d blocks, %s\n"+
			"  free: %d blocks, %s\n"+
			"  ops:  %d allocs (%d reused, %d split), %d frees, %d grows\n",
		s.Sizes, s.Spans, humanize.IBytes(s.Reserved), humanize.IBytes(s.Capacity),
		s.LiveBlocks, humanize.IBytes(s.LiveBytes),
		s.FreeBlocks, humanize.IBytes(s.FreeBytes),
		s.Allocs, s.Reuses, s.Splits, s.Frees, s.Grows,
	)
	return err
}
