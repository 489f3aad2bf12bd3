package registry

import (
	"github.com/RoaringBitmap/roaring/roaring64"

	"github.com/joshuapare/heapkit/heap/raw"
)

// Ledger is the set of released addresses not yet handed out again.
type Ledger struct {
	bm *roaring64.Bitmap
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{bm: roaring64.New()}
}

// Add records addr as released.
func (l *Ledger) Add(addr raw.Addr) {
	l.bm.Add(uint64(addr))
}

// Remove forgets addr, typically because the raw allocator reused it.
func (l *Ledger) Remove(addr raw.Addr) {
	l.bm.Remove(uint64(addr))
}

// Contains reports whether addr was released and not reused.
func (l *Ledger) Contains(addr raw.Addr) bool {
	return l.bm.Contains(uint64(addr))
}

// Len returns the number of recorded addresses.
func (l *Ledger) Len() uint64 {
	return l.bm.GetCardinality()
}

// Iterate calls fn for every recorded address in ascending order until fn
// returns false.
func (l *Ledger) Iterate(fn func(raw.Addr) bool) {
	it := l.bm.Iterator()
	for it.HasNext() {
		if !fn(raw.Addr(it.Next())) {
			return
		}
	}
}
