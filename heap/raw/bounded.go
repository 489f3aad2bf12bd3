package raw

import "fmt"

// Bounded wraps an Allocator with a budget on live bytes. A zero budget
// means unlimited.
type Bounded struct {
	inner  Allocator
	budget uint64
	used   uint64
	sizes  map[Addr]uint64
}

// NewBounded wraps inner with the given live-byte budget.
func NewBounded(inner Allocator, budget uint64) *Bounded {
	return &Bounded{
		inner:  inner,
		budget: budget,
		sizes:  make(map[Addr]uint64),
	}
}

// Alloc implements Allocator. Requests that would push live bytes past the
// budget fail with ErrOutOfMemory without reaching the inner allocator.
func (b *Bounded) Alloc(n uint64) (Addr, []byte, error) {
	if b.budget != 0 && (n > b.budget || b.used > b.budget-n) {
		return 0, nil, fmt.Errorf("%w: %d bytes requested, %d of %d budget in use", ErrOutOfMemory, n, b.used, b.budget)
	}
	addr, mem, err := b.inner.Alloc(n)
	if err != nil {
		return 0, nil, err
	}
	b.sizes[addr] = n
	b.used += n
	return addr, mem, nil
}

// Free implements Allocator.
func (b *Bounded) Free(addr Addr) error {
	if err := b.inner.Free(addr); err != nil {
		return err
	}
	if n, ok := b.sizes[addr]; ok {
		b.used -= n
		delete(b.sizes, addr)
	}
	return nil
}

// Used returns the live bytes charged against the budget.
func (b *Bounded) Used() uint64 { return b.used }

// Budget returns the configured budget (0 = unlimited).
func (b *Bounded) Budget() uint64 { return b.budget }
