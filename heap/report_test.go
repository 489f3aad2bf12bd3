package heap_test

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/google/pprof/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/testutil"
)

type recordingReporter struct {
	sites []heap.SiteUsage
}

func (r *recordingReporter) Report(w io.Writer, sites []heap.SiteUsage) error {
	r.sites = sites
	for _, s := range sites {
		if _, err := fmt.Fprintf(w, "%s %d %d\n", s.Site, s.Blocks, s.Bytes); err != nil {
			return err
		}
	}
	return nil
}

func TestPrintStatistics_Format(t *testing.T) {
	var buf bytes.Buffer
	s := heap.Statistics{Active: 1, ActiveBytes: 20, Total: 2, TotalBytes: 30, Failed: 3, FailedBytes: 1234567}
	require.NoError(t, s.Print(&buf))

	assert.Equal(t,
		"alloc count: active          1   total          2   fail          3\n"+
			"alloc size:  active         20   total         30   fail    1234567\n",
		buf.String())
}

func TestPrintLeakReport_Empty(t *testing.T) {
	tr, _ := testutil.SetupTracker(t)
	var buf bytes.Buffer
	require.NoError(t, tr.PrintLeakReport(&buf))
	assert.Empty(t, buf.String())
	assert.Empty(t, tr.Leaks())
}

func TestLeaks_AddressOrder(t *testing.T) {
	tr, _ := testutil.SetupTracker(t)

	var addrs []heap.Addr
	for i := range 4 {
		a, _, err := tr.Allocate(uint64(8*(i+1)), site(i+1))
		require.NoError(t, err)
		addrs = append(addrs, a)
	}
	require.NoError(t, tr.Release(addrs[1], site(10)))

	leaks := tr.Leaks()
	require.Len(t, leaks, 3)
	for i := 1; i < len(leaks); i++ {
		assert.Less(t, leaks[i-1].Addr, leaks[i].Addr)
	}
	assert.Equal(t, heap.LeakRecord{Addr: addrs[0], Size: 8, Site: site(1)}, leaks[0])
}

func TestHeavyHitter_NoReporter(t *testing.T) {
	tr, _ := testutil.SetupTracker(t)
	_, _, err := tr.Allocate(100, site(1))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tr.PrintHeavyHitterReport(&buf))
	assert.Empty(t, buf.String())
}

func TestHeavyHitter_Reporter(t *testing.T) {
	rep := &recordingReporter{}
	tr, _ := testutil.SetupTracker(t, heap.WithHeavyHitterReporter(rep))

	for range 3 {
		_, _, err := tr.Allocate(10, site(1))
		require.NoError(t, err)
	}
	a, _, err := tr.Allocate(500, site(2))
	require.NoError(t, err)
	b, _, err := tr.Allocate(7, site(3))
	require.NoError(t, err)
	require.NoError(t, tr.Release(b, site(4)))

	var buf bytes.Buffer
	require.NoError(t, tr.PrintHeavyHitterReport(&buf))

	assert.Equal(t, []heap.SiteUsage{
		{Site: site(1), Blocks: 3, Bytes: 30},
		{Site: site(2), Blocks: 1, Bytes: 500},
	}, rep.sites)
	assert.Equal(t, "a.c:1 3 30\na.c:2 1 500\n", buf.String())

	require.NoError(t, tr.Release(a, site(5)))
	assert.Len(t, tr.SiteUsage(), 1)
}

func TestWriteLeakProfile(t *testing.T) {
	tr, _ := testutil.SetupTracker(t)

	for range 2 {
		_, _, err := tr.Allocate(16, heap.Site{File: "list.c", Line: 3})
		require.NoError(t, err)
	}
	_, _, err := tr.Allocate(40, heap.Site{File: "list.c", Line: 9})
	require.NoError(t, err)
	_, _, err = tr.Allocate(1, heap.Site{File: "main.c", Line: 1})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tr.WriteLeakProfile(&buf))

	p, err := profile.Parse(&buf)
	require.NoError(t, err)
	require.Len(t, p.SampleType, 2)
	assert.Equal(t, "inuse_space", p.SampleType[1].Type)
	assert.Len(t, p.Function, 2, "one function per file")
	require.Len(t, p.Sample, 3, "one sample per site")

	got := make(map[string][]int64)
	for _, s := range p.Sample {
		require.Len(t, s.Location, 1)
		ln := s.Location[0].Line[0]
		got[fmt.Sprintf("%s:%d", ln.Function.Filename, ln.Line)] = s.Value
	}
	assert.Equal(t, map[string][]int64{
		"list.c:3": {2, 32},
		"list.c:9": {1, 40},
		"main.c:1": {1, 1},
	}, got)
}

func TestLeakProfile_Empty(t *testing.T) {
	tr, _ := testutil.SetupTracker(t)
	p, err := tr.LeakProfile()
	require.NoError(t, err)
	assert.Empty(t, p.Sample)
}

func TestExtent(t *testing.T) {
	tr, _ := testutil.SetupTracker(t)
	assert.True(t, tr.Extent().Empty())
	assert.False(t, tr.Extent().Contains(0))

	a, _, err := tr.Allocate(10, site(1))
	require.NoError(t, err)
	b, _, err := tr.Allocate(20, site(2))
	require.NoError(t, err)

	e := tr.Extent()
	assert.False(t, e.Empty())
	assert.Equal(t, a, e.Min)
	assert.Equal(t, b+20, e.Max)
	assert.True(t, e.Contains(a))
	assert.True(t, e.Contains(b+20), "upper bound is inclusive")
	assert.False(t, e.Contains(b+21))

	require.NoError(t, tr.Release(a, site(3)))
	assert.Equal(t, e, tr.Extent(), "release never shrinks the extent")
}
