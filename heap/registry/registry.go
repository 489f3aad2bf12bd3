package registry

import (
	"github.com/google/btree"

	"github.com/joshuapare/heapkit/heap/raw"
)

// degree is the B-tree branching factor.
const degree = 32

// Registry is the address-ordered set of live blocks.
type Registry struct {
	tree *btree.BTreeG[*Block]
}

func lessByAddr(a, b *Block) bool { return a.Addr < b.Addr }

// New returns an empty registry.
func New() *Registry {
	return &Registry{tree: btree.NewG(degree, lessByAddr)}
}

// Get returns the record whose block starts at addr.
func (r *Registry) Get(addr raw.Addr) (*Block, bool) {
	return r.tree.Get(&Block{Addr: addr})
}

// Insert adds b, replacing any record at the same address. It reports
// whether a record was replaced.
func (r *Registry) Insert(b *Block) bool {
	_, replaced := r.tree.ReplaceOrInsert(b)
	return replaced
}

// Delete removes and returns the record at addr.
func (r *Registry) Delete(addr raw.Addr) (*Block, bool) {
	return r.tree.Delete(&Block{Addr: addr})
}

// Len returns the number of live records.
func (r *Registry) Len() int {
	return r.tree.Len()
}

// Ascend calls fn for every record in address order until fn returns false.
func (r *Registry) Ascend(fn func(*Block) bool) {
	r.tree.Ascend(btree.ItemIteratorG[*Block](fn))
}

// Min returns the lowest-addressed record.
func (r *Registry) Min() (*Block, bool) {
	return r.tree.Min()
}

// Max returns the highest-addressed record.
func (r *Registry) Max() (*Block, bool) {
	return r.tree.Max()
}
