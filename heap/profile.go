package heap

import (
	"fmt"
	"io"
	"time"

	"github.com/google/pprof/profile"
)

// LeakProfile builds a pprof heap profile of the live blocks: one sample per
// call site with inuse_objects and inuse_space values.
func (t *Tracker) LeakProfile() (*profile.Profile, error) {
	p := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "inuse_objects", Unit: "count"},
			{Type: "inuse_space", Unit: "bytes"},
		},
		DefaultSampleType: "inuse_space",
		PeriodType:        &profile.ValueType{Type: "space", Unit: "bytes"},
		Period:            1,
		TimeNanos:         time.Now().UnixNano(),
	}

	funcs := make(map[string]*profile.Function)
	for _, u := range t.SiteUsage() {
		fn, ok := funcs[u.Site.File]
		if !ok {
			fn = &profile.Function{
				ID:         uint64(len(p.Function) + 1),
				Name:       u.Site.File,
				SystemName: u.Site.File,
				Filename:   u.Site.File,
			}
			funcs[u.Site.File] = fn
			p.Function = append(p.Function, fn)
		}

		loc := &profile.Location{
			ID:   uint64(len(p.Location) + 1),
			Line: []profile.Line{{Function: fn, Line: int64(u.Site.Line)}},
		}
		p.Location = append(p.Location, loc)

		p.Sample = append(p.Sample, &profile.Sample{
			Location: []*profile.Location{loc},
			Value:    []int64{int64(u.Blocks), int64(u.Bytes)},
		})
	}

	if err := p.CheckValid(); err != nil {
		return nil, fmt.Errorf("heap: leak profile: %w", err)
	}
	return p, nil
}

// WriteLeakProfile writes the live blocks to w as a gzipped pprof profile,
// readable with `go tool pprof`.
func (t *Tracker) WriteLeakProfile(w io.Writer) error {
	p, err := t.LeakProfile()
	if err != nil {
		return err
	}
	return p.Write(w)
}
