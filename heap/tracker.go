package heap

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/joshuapare/heapkit/heap/canary"
	"github.com/joshuapare/heapkit/heap/raw"
	"github.com/joshuapare/heapkit/heap/registry"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/logger"
)

// Tracker is an allocation tracker over an injected raw allocator.
type Tracker struct {
	raw    raw.Allocator
	blocks *registry.Registry
	freed  *registry.Ledger
	extent Extent
	counts counters

	log      *slog.Logger
	onMisuse func(*MisuseError)
	heavy    HeavyHitterReporter
}

// counters holds the accumulator. Snapshots are taken by Statistics.
type counters struct {
	active      uint64
	activeBytes uint64
	total       uint64
	totalBytes  uint64
	failed      uint64
	failedBytes uint64
}

// New creates a tracker that obtains memory from r.
func New(r raw.Allocator, opts ...Option) *Tracker {
	t := &Tracker{
		raw:    r,
		blocks: registry.New(),
		freed:  registry.NewLedger(),
		log:    logger.L,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Allocate returns a block of size bytes. The returned slice has len == size
// and its capacity reaches over the canary, so writing past the payload
// through append is caught at release.
//
// A zero-byte request yields a distinct, trackable address. Failures count
// toward Failed and FailedBytes and leave everything else untouched.
func (t *Tracker) Allocate(size uint64, site Site) (Addr, []byte, error) {
	if size >= math.MaxUint64-canary.Width {
		return 0, nil, t.fail(size, site, fmt.Errorf("%w: %d bytes plus canary", ErrSizeOverflow, size))
	}
	padded := size + canary.Width

	addr, mem, err := t.raw.Alloc(padded)
	if err == nil && addr == 0 {
		err = errors.New("raw allocator returned null")
	}
	if err != nil {
		if !errors.Is(err, raw.ErrOutOfMemory) {
			err = fmt.Errorf("%w: %w", raw.ErrOutOfMemory, err)
		}
		return 0, nil, t.fail(size, site, err)
	}
	if !buf.Has(mem, 0, padded) {
		_ = t.raw.Free(addr)
		return 0, nil, t.fail(size, site,
			fmt.Errorf("%w: raw block of %d bytes, want %d", raw.ErrOutOfMemory, len(mem), padded))
	}

	// A recycled address is live again; it must not be mistaken for a double free.
	t.freed.Remove(addr)

	if err := canary.Write(mem, size); err != nil {
		return 0, nil, err
	}

	t.counts.total++
	t.counts.active++
	t.counts.totalBytes += size
	t.counts.activeBytes += size

	b := registry.NewBlock(addr, size, site, mem)
	t.blocks.Insert(b)
	t.extent.widen(addr, b.End())

	return addr, b.Payload(), nil
}

// Release validates and frees the block at addr. Releasing 0 is a no-op.
//
// Checks run in order: freed-address ledger (double free), registry lookup,
// canary (wild write), then heap extent for unknown addresses (not in heap
// or not allocated). Any misuse returns a *MisuseError and changes nothing.
// After a valid release the tracker state is updated before the raw
// allocator is called, so a raw failure is reported but not rolled back.
func (t *Tracker) Release(addr Addr, site Site) error {
	if addr == 0 {
		return nil
	}

	if t.freed.Contains(addr) {
		return t.misuse(KindDoubleFree, addr, site)
	}

	b, ok := t.blocks.Get(addr)
	if !ok {
		if !t.extent.Contains(addr) {
			return t.misuse(KindNotInHeap, addr, site)
		}
		return t.misuse(KindNotAllocated, addr, site)
	}

	if !b.CanaryIntact() {
		return t.misuse(KindWildWrite, addr, site)
	}

	t.counts.active--
	t.counts.activeBytes -= b.Size
	t.blocks.Delete(addr)
	t.freed.Add(addr)

	if err := t.raw.Free(addr); err != nil {
		t.log.Error("raw free failed", "addr", addr.String(), "site", site.String(), "err", err)
		return fmt.Errorf("heap: release %s: %w", addr, err)
	}
	return nil
}

// ZeroAllocate allocates count*size bytes and zeroes them. If the product
// overflows, the failure is recorded with size as the failing byte count and
// nothing is allocated.
func (t *Tracker) ZeroAllocate(count, size uint64, site Site) (Addr, []byte, error) {
	total := count * size
	if count != 0 && total/count != size {
		return 0, nil, t.fail(size, site,
			fmt.Errorf("%w: %d elements of %d bytes", ErrSizeOverflow, count, size))
	}

	addr, payload, err := t.Allocate(total, site)
	if err != nil {
		return 0, nil, err
	}
	clear(payload)
	return addr, payload, nil
}

// fail records a failed allocation and returns err.
func (t *Tracker) fail(size uint64, site Site, err error) error {
	t.counts.failed++
	t.counts.failedBytes += size
	t.log.Debug("allocation failed", "size", size, "site", site.String(), "err", err)
	return err
}

// misuse builds the error for a rejected release and runs the handler.
func (t *Tracker) misuse(kind MisuseKind, addr Addr, site Site) error {
	me := &MisuseError{Kind: kind, Addr: addr, Site: site}
	t.log.Warn("memory misuse", "kind", kind.String(), "addr", addr.String(), "site", site.String())
	if t.onMisuse != nil {
		t.onMisuse(me)
	}
	return me
}
