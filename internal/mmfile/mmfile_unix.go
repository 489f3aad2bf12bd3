//go:build unix

package mmfile

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// Anon maps n bytes of private, zero-filled anonymous memory and returns the
// mapping together with a cleanup func that unmaps it.
func Anon(n int) ([]byte, func() error, error) {
	if n < 0 {
		return nil, nil, fmt.Errorf("mmfile: negative mapping size %d", n)
	}
	if n == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	data, err := unix.Mmap(-1, 0, n, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, nil, fmt.Errorf("mmfile: mmap %d bytes: %w", n, err)
	}
	cleanup := func() error {
		if data == nil {
			return nil
		}
		err := unix.Munmap(data)
		data = nil
		if errors.Is(err, unix.EINVAL) {
			// Treat double-unmap as no-op for callers.
			return nil
		}
		return err
	}
	return data, cleanup, nil
}

// Supported reports whether Anon returns real mappings on this platform.
func Supported() bool { return true }
