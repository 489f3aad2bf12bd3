// Package verify checks the bookkeeping invariants of a live heap.Tracker.
// These helpers are used in tests and by heapctl run --verify.
package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/canary"
	"github.com/joshuapare/heapkit/heap/registry"
)

// ValidationError describes the first invariant found broken.
type ValidationError struct {
	Type    string
	Message string
	Addr    heap.Addr // block or ledger address involved, 0 if N/A
	Details map[string]any
}

func (e *ValidationError) Error() string {
	if e.Addr != 0 {
		return fmt.Sprintf("%s at %s: %s", e.Type, e.Addr, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all tracker invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(t *heap.Tracker) error {
	if err := Extent(t); err != nil {
		return err
	}
	if err := Layout(t); err != nil {
		return err
	}
	if err := Disjoint(t); err != nil {
		return err
	}
	if err := Counters(t); err != nil {
		return err
	}
	if err := Canaries(t); err != nil {
		return err
	}
	return nil
}

// Extent validates that every live block lies within [HeapMin, HeapMax].
func Extent(t *heap.Tracker) error {
	ext := t.Extent()
	var err error
	t.Walk(func(b *registry.Block) bool {
		if !ext.Contains(b.Addr) || !ext.Contains(b.End()) {
			err = &ValidationError{
				Type:    "Extent",
				Message: fmt.Sprintf("block [%s, %s] outside heap [%s, %s]", b.Addr, b.End(), ext.Min, ext.Max),
				Addr:    b.Addr,
			}
			return false
		}
		return true
	})
	return err
}

// Layout validates that live blocks, canary included, do not overlap.
func Layout(t *heap.Tracker) error {
	var prev *registry.Block
	var err error
	t.Walk(func(b *registry.Block) bool {
		if prev != nil {
			end := prev.End() + canary.Width
			if end > b.Addr {
				err = &ValidationError{
					Type:    "Layout",
					Message: fmt.Sprintf("block overlaps previous block ending at %s", end),
					Addr:    b.Addr,
					Details: map[string]any{"previous": prev.Addr, "previous_size": prev.Size},
				}
				return false
			}
		}
		prev = b
		return true
	})
	return err
}

// Disjoint validates that no freed-ledger address is also a live block.
func Disjoint(t *heap.Tracker) error {
	var err error
	t.WalkFreed(func(a heap.Addr) bool {
		if _, live := t.Lookup(a); live {
			err = &ValidationError{
				Type:    "Disjoint",
				Message: "address is both live and in the freed ledger",
				Addr:    a,
			}
			return false
		}
		return true
	})
	return err
}

// Counters validates the accumulator against the registry.
func Counters(t *heap.Tracker) error {
	s := t.Statistics()

	var blocks, bytes uint64
	t.Walk(func(b *registry.Block) bool {
		blocks++
		bytes += b.Size
		return true
	})

	if s.Active != blocks {
		return &ValidationError{
			Type:    "Counters",
			Message: fmt.Sprintf("active count %d, registry holds %d blocks", s.Active, blocks),
			Details: map[string]any{"active": s.Active, "registry": blocks},
		}
	}
	if s.ActiveBytes != bytes {
		return &ValidationError{
			Type:    "Counters",
			Message: fmt.Sprintf("active bytes %d, live blocks sum to %d", s.ActiveBytes, bytes),
			Details: map[string]any{"active_bytes": s.ActiveBytes, "sum": bytes},
		}
	}
	if s.Active > s.Total || s.ActiveBytes > s.TotalBytes {
		return &ValidationError{
			Type:    "Counters",
			Message: fmt.Sprintf("active %d/%d bytes exceeds total %d/%d bytes", s.Active, s.ActiveBytes, s.Total, s.TotalBytes),
		}
	}
	return nil
}

// Canaries validates that every live block's canary is intact.
func Canaries(t *heap.Tracker) error {
	var err error
	t.Walk(func(b *registry.Block) bool {
		if !b.CanaryIntact() {
			err = &ValidationError{
				Type:    "Canary",
				Message: fmt.Sprintf("canary after %d-byte payload from %s overwritten", b.Size, b.Site),
				Addr:    b.Addr,
			}
			return false
		}
		return true
	})
	return err
}
