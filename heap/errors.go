package heap

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrSizeOverflow indicates a size computation that does not fit in 64 bits:
	// the canary padding in Allocate or count*size in ZeroAllocate.
	ErrSizeOverflow = errors.New("heap: allocation size overflow")

	// ErrDoubleFree is the sentinel behind KindDoubleFree.
	ErrDoubleFree = errors.New("heap: double free")

	// ErrWildWrite is the sentinel behind KindWildWrite.
	ErrWildWrite = errors.New("heap: wild write")

	// ErrNotInHeap is the sentinel behind KindNotInHeap.
	ErrNotInHeap = errors.New("heap: free of address not in heap")

	// ErrNotAllocated is the sentinel behind KindNotAllocated.
	ErrNotAllocated = errors.New("heap: free of address not allocated")
)

// MisuseKind classifies a rejected release.
type MisuseKind uint8

const (
	KindDoubleFree MisuseKind = iota + 1
	KindWildWrite
	KindNotInHeap
	KindNotAllocated
)

// String returns a short name for the kind.
func (k MisuseKind) String() string {
	switch k {
	case KindDoubleFree:
		return "double free"
	case KindWildWrite:
		return "wild write"
	case KindNotInHeap:
		return "not in heap"
	case KindNotAllocated:
		return "not allocated"
	default:
		return fmt.Sprintf("MisuseKind(%d)", uint8(k))
	}
}

// MisuseError reports a release the tracker refused. Tracker state is left
// exactly as it was before the call.
type MisuseError struct {
	Kind MisuseKind
	Addr Addr
	Site Site // where the release was issued
}

// Error renders the diagnostic line, e.g.
// "a.c:7: invalid free of pointer 0x10000, double free".
func (e *MisuseError) Error() string {
	switch e.Kind {
	case KindWildWrite:
		return fmt.Sprintf("%s: detected wild write during free of pointer %s", e.Site, e.Addr)
	default:
		return fmt.Sprintf("%s: invalid free of pointer %s, %s", e.Site, e.Addr, e.Kind)
	}
}

// Unwrap returns the sentinel for the kind, so errors.Is(err, ErrDoubleFree)
// and friends work.
func (e *MisuseError) Unwrap() error {
	switch e.Kind {
	case KindDoubleFree:
		return ErrDoubleFree
	case KindWildWrite:
		return ErrWildWrite
	case KindNotInHeap:
		return ErrNotInHeap
	case KindNotAllocated:
		return ErrNotAllocated
	}
	return nil
}

// IsMisuse reports whether err carries a *MisuseError and returns it.
func IsMisuse(err error) (*MisuseError, bool) {
	var me *MisuseError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// Report writes err to w as a "MEMORY BUG: " line. Non-misuse errors are
// written the same way.
func Report(w io.Writer, err error) error {
	if err == nil {
		return nil
	}
	_, werr := fmt.Fprintf(w, "MEMORY BUG: %v\n", err)
	return werr
}
