package heap

import (
	"fmt"
	"io"

	"github.com/joshuapare/heapkit/heap/registry"
)

// LeakRecord describes a block still live at report time.
type LeakRecord struct {
	Addr Addr   `json:"addr"`
	Size uint64 `json:"size"`
	Site Site   `json:"site"`
}

// Leaks returns every live block in address order.
func (t *Tracker) Leaks() []LeakRecord {
	out := make([]LeakRecord, 0, t.blocks.Len())
	t.blocks.Ascend(func(b *registry.Block) bool {
		out = append(out, LeakRecord{Addr: b.Addr, Size: b.Size, Site: b.Site})
		return true
	})
	return out
}

// PrintLeakReport writes one line per live block, in address order.
func (t *Tracker) PrintLeakReport(w io.Writer) error {
	var err error
	t.blocks.Ascend(func(b *registry.Block) bool {
		_, err = fmt.Fprintf(w, "LEAK CHECK: %s:%d: allocated object %s with size %d\n",
			b.Site.File, b.Site.Line, b.Addr, b.Size)
		return err == nil
	})
	return err
}

// SiteUsage is the live footprint of one call site.
type SiteUsage struct {
	Site   Site
	Blocks uint64
	Bytes  uint64
}

// HeavyHitterReporter renders a heavy-hitter report. Ranking, thresholds and
// output format are up to the implementation.
type HeavyHitterReporter interface {
	Report(w io.Writer, sites []SiteUsage) error
}

// SiteUsage groups the live blocks by call site, in order of each site's
// lowest live address. It is unranked.
func (t *Tracker) SiteUsage() []SiteUsage {
	idx := make(map[Site]int)
	var out []SiteUsage
	t.blocks.Ascend(func(b *registry.Block) bool {
		i, ok := idx[b.Site]
		if !ok {
			i = len(out)
			idx[b.Site] = i
			out = append(out, SiteUsage{Site: b.Site})
		}
		out[i].Blocks++
		out[i].Bytes += b.Size
		return true
	})
	return out
}

// PrintHeavyHitterReport hands the per-site usage to the configured
// HeavyHitterReporter. Without one it writes nothing.
func (t *Tracker) PrintHeavyHitterReport(w io.Writer) error {
	if t.heavy == nil {
		return nil
	}
	return t.heavy.Report(w, t.SiteUsage())
}
