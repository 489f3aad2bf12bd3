package heap

import (
	"path/filepath"
	"runtime"

	"github.com/joshuapare/heapkit/heap/raw"
	"github.com/joshuapare/heapkit/heap/registry"
)

// Addr is the integer address of a tracked block. 0 is null.
type Addr = raw.Addr

// Site is the file and line an operation was issued from.
type Site = registry.Site

// Caller returns the Site of the function skip frames above the caller of
// Caller. Caller(0) names the line that called Caller.
func Caller(skip int) Site {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{File: "???", Line: 0}
	}
	return Site{File: filepath.Base(file), Line: line}
}
