// Package heap provides a diagnostic allocation tracker.
//
// # Overview
//
// A Tracker sits between a caller and a raw.Allocator. Every block it hands
// out carries a metadata record (size and call site) and a 4-byte canary
// written directly after the payload. Releases are checked before the raw
// allocator ever sees them:
//
//   - Double free: the address is in the freed-address ledger
//   - Wild write: the block's canary no longer holds 0x0BADBEEF
//   - Not in heap: the address lies outside every address ever handed out
//   - Not allocated: the address lies inside the heap but names no live block
//
// Misuse is returned as a *MisuseError and leaves all tracker state as it was.
// The fail-fast policy belongs to the caller: install WithMisuseHandler to
// abort on the first report, or inspect the error and carry on.
//
// # Usage Example
//
//	arena, err := raw.NewArena(raw.ArenaOptions{})
//	if err != nil {
//	    return err
//	}
//	defer arena.Close()
//
//	t := heap.New(arena)
//
//	addr, buf, err := t.Allocate(10, heap.Caller(0))
//	if err != nil {
//	    return err
//	}
//	copy(buf, "hello")
//
//	if err := t.Release(addr, heap.Caller(0)); err != nil {
//	    heap.Report(os.Stderr, err)
//	}
//
//	t.PrintStatistics(os.Stdout)
//	t.PrintLeakReport(os.Stdout)
//
// # Statistics
//
// Total, TotalBytes, Failed and FailedBytes only grow. Active and ActiveBytes
// track live blocks. HeapMin and HeapMax only widen, and read zero until the
// first successful allocation.
//
// # Thread Safety
//
// A Tracker is not thread-safe. Independent trackers share no state, so one
// per test or per goroutine is fine.
package heap
