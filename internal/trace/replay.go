package trace

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/canary"
	"github.com/joshuapare/heapkit/internal/logger"
)

// ErrUnknownID indicates an op naming an id no earlier op defined.
var ErrUnknownID = errors.New("trace: unknown id")

// ErrWriteOutOfBlock indicates a write past the block's canary.
var ErrWriteOutOfBlock = errors.New("trace: write outside block")

// Result summarizes a replay.
type Result struct {
	Ops    int // operations executed
	Failed int // allocations that returned an error
}

// Replayer executes ops against a tracker. "stats" and "leaks" ops write
// to Out.
type Replayer struct {
	Tracker *heap.Tracker
	Out     io.Writer

	ids map[string]heap.Addr
}

// NewReplayer returns a replayer writing reports to out.
func NewReplayer(t *heap.Tracker, out io.Writer) *Replayer {
	return &Replayer{Tracker: t, Out: out, ids: make(map[string]heap.Addr)}
}

// Run executes ops in order. It stops at the first misuse and returns the
// *heap.MisuseError unchanged; trace errors (unknown id, bad write) are
// returned wrapped with the line number. Allocation failures are counted and
// bind the id to the null address, so a later free of it is a no-op.
func (r *Replayer) Run(ops []Op) (Result, error) {
	var res Result
	for _, op := range ops {
		failed, err := r.step(op)
		if err != nil {
			if _, ok := heap.IsMisuse(err); ok {
				return res, err
			}
			return res, fmt.Errorf("trace line %d: %w", op.Line, err)
		}
		res.Ops++
		if failed {
			res.Failed++
		}
	}
	return res, nil
}

func (r *Replayer) step(op Op) (failed bool, err error) {
	t := r.Tracker
	switch op.Kind {
	case KindMalloc, KindCalloc:
		var addr heap.Addr
		if op.Kind == KindMalloc {
			addr, _, err = t.Allocate(op.Size, op.Site)
		} else {
			addr, _, err = t.ZeroAllocate(op.Count, op.Size, op.Site)
		}
		r.ids[op.ID] = addr
		if err != nil {
			logger.Debug("trace: allocation failed", "line", op.Line, "id", op.ID, "err", err)
			return true, nil
		}
		return false, nil

	case KindFree:
		addr := op.Addr
		if !op.HasAddr {
			var ok bool
			if addr, ok = r.ids[op.ID]; !ok {
				return false, fmt.Errorf("%w %q", ErrUnknownID, op.ID)
			}
		}
		return false, t.Release(addr, op.Site)

	case KindWrite:
		addr, ok := r.ids[op.ID]
		if !ok {
			return false, fmt.Errorf("%w %q", ErrUnknownID, op.ID)
		}
		b, ok := t.Lookup(addr)
		if !ok {
			return false, fmt.Errorf("%w: %q (%s) is not live", ErrWriteOutOfBlock, op.ID, addr)
		}
		p := b.Payload()
		if op.Offset >= b.Size+canary.Width {
			return false, fmt.Errorf("%w: offset %d, block %q has %d bytes plus canary", ErrWriteOutOfBlock, op.Offset, op.ID, b.Size)
		}
		p[:cap(p)][op.Offset] = op.Byte
		return false, nil

	case KindStats:
		return false, t.PrintStatistics(r.Out)

	case KindLeaks:
		return false, t.PrintLeakReport(r.Out)
	}
	return false, fmt.Errorf("unhandled op %q", op.Kind)
}

// Addr returns the address bound to id.
func (r *Replayer) Addr(id string) (heap.Addr, bool) {
	a, ok := r.ids[id]
	return a, ok
}

// ReplayFile parses path and runs it against t.
func ReplayFile(path string, t *heap.Tracker, out io.Writer) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	ops, err := Parse(f)
	if err != nil {
		return Result{}, err
	}
	return NewReplayer(t, out).Run(ops)
}
