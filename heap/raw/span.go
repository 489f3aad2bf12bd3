package raw

import (
	"fmt"
	"strings"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/mmfile"
)

// SpanSource reserves the backing memory for arena spans.
type SpanSource interface {
	// Reserve returns n bytes of zeroed memory and a function releasing it.
	Reserve(n uint64) ([]byte, func() error, error)
}

// HeapSpans backs spans with ordinary Go slices.
type HeapSpans struct{}

// Reserve implements SpanSource.
func (HeapSpans) Reserve(n uint64) ([]byte, func() error, error) {
	if !buf.FitsInt(n) {
		return nil, nil, fmt.Errorf("%w: span of %d bytes", ErrOutOfMemory, n)
	}
	return make([]byte, n), func() error { return nil }, nil
}

// MmapSpans backs spans with anonymous private mappings. On platforms without
// mmap it behaves like HeapSpans.
type MmapSpans struct{}

// Reserve implements SpanSource.
func (MmapSpans) Reserve(n uint64) ([]byte, func() error, error) {
	if !buf.FitsInt(n) {
		return nil, nil, fmt.Errorf("%w: span of %d bytes", ErrOutOfMemory, n)
	}
	mem, release, err := mmfile.Anon(int(n))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	return mem, release, nil
}

// SourceFor maps a backend name ("heap" or "mmap") to a SpanSource.
func SourceFor(name string) (SpanSource, error) {
	switch strings.ToLower(name) {
	case "", "heap":
		return HeapSpans{}, nil
	case "mmap":
		return MmapSpans{}, nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", ErrBadOptions, name)
}

// span is one contiguous reservation mapped at [start, end).
type span struct {
	start   Addr
	end     Addr
	mem     []byte
	release func() error
}

// findSpan finds the span containing addr.
// O(log S) via binary search on the address-ordered spans slice.
func (a *Arena) findSpan(addr Addr) (*span, bool) {
	lo, hi := 0, len(a.spans)-1

	for lo <= hi {
		mid := (lo + hi) >> 1
		s := &a.spans[mid]

		if addr < s.start {
			hi = mid - 1
		} else if addr >= s.end {
			lo = mid + 1
		} else {
			return s, true
		}
	}

	return nil, false
}
