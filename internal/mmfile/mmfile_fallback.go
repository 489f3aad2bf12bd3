//go:build !unix

// Package mmfile provides platform-specific helpers for reserving anonymous
// memory regions that back raw arena spans.
package mmfile

import "fmt"

// Anon allocates a Go byte slice when mmap is not available.
func Anon(n int) ([]byte, func() error, error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("mmfile: negative mapping size %d", n)
	}
	return make([]byte, n), func() error { return nil }, nil
}

// Supported reports whether Anon returns real mappings on this platform.
func Supported() bool { return false }
