package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap"
)

var printer = message.NewPrinter(language.English)

// formatCount renders n, digit-grouped under --human.
func formatCount(n uint64) string {
	if humanOut {
		return printer.Sprintf("%d", n)
	}
	return strconv.FormatUint(n, 10)
}

// formatBytes renders a byte count, as "1.5 KiB" under --human.
func formatBytes(n uint64) string {
	if humanOut {
		return humanize.IBytes(n)
	}
	return strconv.FormatUint(n, 10)
}

// printStatistics writes s in the plain two-line format, or a humanized
// variant with the heap extent under --human.
func printStatistics(w io.Writer, s heap.Statistics) error {
	if !humanOut {
		return s.Print(w)
	}
	_, err := fmt.Fprintf(w,
		"alloc count: active %s   total %s   fail %s\n"+
			"alloc size:  active %s   total %s   fail %s\n",
		formatCount(s.Active), formatCount(s.Total), formatCount(s.Failed),
		formatBytes(s.ActiveBytes), formatBytes(s.TotalBytes), formatBytes(s.FailedBytes),
	)
	if err != nil {
		return err
	}
	if s.Total > 0 {
		_, err = fmt.Fprintf(w, "heap extent: %s - %s\n", s.HeapMin, s.HeapMax)
	}
	return err
}

// topSites is the heavy-hitter reporter behind --top: the n sites holding
// the most live bytes.
type topSites struct {
	n int
}

func (r topSites) Report(w io.Writer, sites []heap.SiteUsage) error {
	ranked := slices.Clone(sites)
	slices.SortStableFunc(ranked, func(a, b heap.SiteUsage) int {
		switch {
		case a.Bytes != b.Bytes:
			if a.Bytes > b.Bytes {
				return -1
			}
			return 1
		case a.Blocks != b.Blocks:
			if a.Blocks > b.Blocks {
				return -1
			}
			return 1
		}
		return 0
	})
	if r.n > 0 && len(ranked) > r.n {
		ranked = ranked[:r.n]
	}
	for _, s := range ranked {
		size := formatBytes(s.Bytes)
		if !humanOut {
			size += " bytes"
		}
		if _, err := fmt.Fprintf(w, "HEAVY HITTER: %s: %s in %s objects\n",
			s.Site, size, formatCount(s.Blocks)); err != nil {
			return err
		}
	}
	return nil
}
