package raw

import "fmt"

// Addr is the integer address of a block. 0 is the null address and is never
// handed out by an allocator in this package.
type Addr uint64

// String renders the address as 0x-prefixed lowercase hex.
func (a Addr) String() string {
	return fmt.Sprintf("0x%x", uint64(a))
}

// Allocator is the raw allocation capability the tracker is built on.
//
// Implementations:
//   - Arena: span-backed allocator with size-class free lists
//   - Bounded: budget wrapper around another Allocator
//   - bindings.Libc: C malloc/free (separate cgo module)
type Allocator interface {
	// Alloc returns a block of exactly n usable bytes. The returned slice has
	// len == n and stays valid until the block is freed.
	Alloc(n uint64) (Addr, []byte, error)

	// Free returns a block obtained from Alloc.
	Free(addr Addr) error
}
