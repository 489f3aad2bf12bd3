// Package bindings provides a raw allocator backed by the C library's
// malloc and free, so a heap.Tracker can check blocks that live outside the
// Go heap.
package bindings

/*
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/joshuapare/heapkit/heap/raw"
)

// Libc implements raw.Allocator with C.malloc and C.free. It remembers every
// live pointer so freeing an address it never returned is an error instead
// of undefined behavior.
type Libc struct {
	mu     sync.Mutex
	live   map[raw.Addr]unsafe.Pointer
	closed bool
}

var _ raw.Allocator = (*Libc)(nil)

// NewLibc returns an empty allocator.
func NewLibc() *Libc {
	return &Libc{live: make(map[raw.Addr]unsafe.Pointer)}
}

// Alloc returns n bytes from malloc. A zero-byte request still gets a
// distinct pointer.
func (l *Libc) Alloc(n uint64) (raw.Addr, []byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, nil, raw.ErrClosed
	}
	if n > uint64(^uint(0)>>1) {
		return 0, nil, fmt.Errorf("%w: %d bytes", raw.ErrOutOfMemory, n)
	}

	p := C.malloc(C.size_t(max(n, 1)))
	if p == nil {
		return 0, nil, fmt.Errorf("%w: malloc(%d)", raw.ErrOutOfMemory, n)
	}
	addr := raw.Addr(uintptr(p))
	l.live[addr] = p
	return addr, unsafe.Slice((*byte)(p), int(n)), nil
}

// Free returns addr to the C heap.
func (l *Libc) Free(addr raw.Addr) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return raw.ErrClosed
	}
	p, ok := l.live[addr]
	if !ok {
		return fmt.Errorf("%w: %s", raw.ErrBadAddr, addr)
	}
	delete(l.live, addr)
	C.free(p)
	return nil
}

// Live returns the number of blocks not yet freed.
func (l *Libc) Live() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.live)
}

// Close frees every block still live. Further use returns raw.ErrClosed.
func (l *Libc) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	for addr, p := range l.live {
		C.free(p)
		delete(l.live, addr)
	}
	l.closed = true
	return nil
}
