// Package raw provides the block allocators the tracking engine sits on top of.
//
// # Overview
//
// The tracker never touches memory directly. It asks an Allocator for a block
// of n bytes and receives an integer address plus a byte slice covering exactly
// those n bytes. Freeing hands the address back.
//
//	type Allocator interface {
//	    Alloc(n uint64) (Addr, []byte, error)
//	    Free(addr Addr) error
//	}
//
// # Implementations
//
// Arena: span-backed allocator with segregated free lists
//
//   - Address space starts at a non-zero base (0x10000 by default)
//   - Grown in spans (64 KiB by default, larger for big requests) up to a capacity
//   - Spans come from a SpanSource: HeapSpans (Go slices) or MmapSpans (anonymous mmap)
//   - Freed blocks go to size-class min-heaps, so addresses are recycled best-fit
//   - Exceeding the capacity returns ErrOutOfMemory
//
// Bounded: live-byte budget wrapper
//
//   - Delegates to any Allocator
//   - Returns ErrOutOfMemory once the budget would be exceeded
//   - Used by tests and by heapctl [limits] to provoke failure accounting
//
// # Usage Example
//
//	a, err := raw.NewArena(raw.ArenaOptions{Capacity: 1 << 20})
//	if err != nil {
//	    return err
//	}
//	defer a.Close()
//
//	addr, mem, err := a.Alloc(24)
//	if err != nil {
//	    return err
//	}
//	copy(mem, payload)
//	err = a.Free(addr)
//
// # Alignment
//
// Every Arena block starts on an 8-byte boundary and occupies at least 8 bytes,
// so a zero-byte request still yields a distinct address.
//
// # Thread Safety
//
// Allocators are not thread-safe. Callers must synchronize access externally.
package raw
