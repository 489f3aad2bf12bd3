package heap

import (
	"fmt"
	"io"
)

// Statistics is a snapshot of the tracker's counters and heap extent.
type Statistics struct {
	Active      uint64 `json:"active"`
	ActiveBytes uint64 `json:"active_bytes"`
	Total       uint64 `json:"total"`
	TotalBytes  uint64 `json:"total_bytes"`
	Failed      uint64 `json:"failed"`
	FailedBytes uint64 `json:"failed_bytes"`
	HeapMin     Addr   `json:"heap_min"`
	HeapMax     Addr   `json:"heap_max"`
}

// Statistics returns a copy of the current counters.
func (t *Tracker) Statistics() Statistics {
	return Statistics{
		Active:      t.counts.active,
		ActiveBytes: t.counts.activeBytes,
		Total:       t.counts.total,
		TotalBytes:  t.counts.totalBytes,
		Failed:      t.counts.failed,
		FailedBytes: t.counts.failedBytes,
		HeapMin:     t.extent.Min,
		HeapMax:     t.extent.Max,
	}
}

// PrintStatistics writes the two-line count/size summary.
func (t *Tracker) PrintStatistics(w io.Writer) error {
	return t.Statistics().Print(w)
}

// Print writes s as the two-line count/size summary.
func (s Statistics) Print(w io.Writer) error {
	_, err := fmt.Fprintf(w,
		"alloc count: active %10d   total %10d   fail %10d\n"+
			"alloc size:  active %10d   total %10d   fail %10d\n",
		s.Active, s.Total, s.Failed,
		s.ActiveBytes, s.TotalBytes, s.FailedBytes,
	)
	return err
}
