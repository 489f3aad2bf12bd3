package testutil

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/raw"
)

// SmallArenaCapacity is the capacity of arenas built by SetupArena.
const SmallArenaCapacity = 1 << 20

// SetupArena creates a 1 MiB heap-backed arena with 4 KiB spans that is
// closed when the test ends.
func SetupArena(t testing.TB) *raw.Arena {
	t.Helper()

	a, err := raw.NewArena(raw.ArenaOptions{Capacity: SmallArenaCapacity, SpanSize: 4096})
	if err != nil {
		t.Fatalf("Failed to create arena: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Close(); err != nil {
			t.Errorf("Failed to close arena: %v", err)
		}
	})
	return a
}

// SetupTracker creates a tracker over a fresh SetupArena.
//
// Example:
//
//	tr, arena := testutil.SetupTracker(t)
//	addr, buf, err := tr.Allocate(10, heap.Site{File: "a.c", Line: 5})
func SetupTracker(t testing.TB, opts ...heap.Option) (*heap.Tracker, *raw.Arena) {
	t.Helper()
	a := SetupArena(t)
	return heap.New(a, opts...), a
}

// SetupBoundedTracker is like SetupTracker but caps live raw bytes at budget,
// so allocation failures are easy to provoke.
func SetupBoundedTracker(t testing.TB, budget uint64, opts ...heap.Option) (*heap.Tracker, *raw.Bounded) {
	t.Helper()
	b := raw.NewBounded(SetupArena(t), budget)
	return heap.New(b, opts...), b
}

// CopyFixture copies a fixture from the repository into a temporary
// directory and returns the new path. Calls t.Skip if the fixture is not found.
func CopyFixture(t testing.TB, relativePath string) string {
	t.Helper()

	src := ResolvePath(t, relativePath)
	dst := filepath.Join(t.TempDir(), filepath.Base(relativePath))
	copyFile(t, src, dst)
	return dst
}

// ResolvePath finds a repository fixture by trying multiple path resolutions.
// This handles the fact that tests may be run from different working directories.
func ResolvePath(t testing.TB, relativePath string) string {
	t.Helper()

	candidates := []string{
		relativePath,                  // Direct path (from repo root)
		"../" + relativePath,          // From a top-level package (e.g., heap/)
		"../../" + relativePath,       // From package two levels deep (e.g., heap/raw/)
		"../../../" + relativePath,    // From package three levels deep
		"../../../../" + relativePath, // From package four levels deep
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	t.Skipf("Fixture not found at any candidate path starting from: %s", relativePath)
	return "" // unreachable
}

// copyFile copies src to dst. Calls t.Fatal if the copy fails.
func copyFile(t testing.TB, src, dst string) {
	t.Helper()

	srcFile, err := os.Open(src)
	if err != nil {
		t.Skipf("Fixture not found: %v", err)
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		t.Fatalf("Failed to create temp fixture: %v", err)
	}
	defer dstFile.Close()

	if _, copyErr := io.Copy(dstFile, srcFile); copyErr != nil {
		t.Fatalf("Failed to copy fixture: %v", copyErr)
	}
}
