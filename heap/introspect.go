package heap

import "github.com/joshuapare/heapkit/heap/registry"

// Lookup returns a copy of the record for the live block at addr.
func (t *Tracker) Lookup(addr Addr) (registry.Block, bool) {
	b, ok := t.blocks.Get(addr)
	if !ok {
		return registry.Block{}, false
	}
	return *b, true
}

// Freed reports whether addr is in the freed-address ledger.
func (t *Tracker) Freed(addr Addr) bool {
	return t.freed.Contains(addr)
}

// FreedCount returns the number of addresses in the ledger.
func (t *Tracker) FreedCount() uint64 {
	return t.freed.Len()
}

// Walk calls fn for each live block in address order until fn returns false.
func (t *Tracker) Walk(fn func(*registry.Block) bool) {
	t.blocks.Ascend(fn)
}

// WalkFreed calls fn for each ledger address in ascending order until fn
// returns false.
func (t *Tracker) WalkFreed(fn func(Addr) bool) {
	t.freed.Iterate(fn)
}

// Extent returns the current heap extent.
func (t *Tracker) Extent() Extent {
	return t.extent
}
