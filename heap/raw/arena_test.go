package raw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestArena creates an arena with small spans so growth is easy to trigger.
func newTestArena(t testing.TB, capacity, spanSize uint64) *Arena {
	t.Helper()
	a, err := NewArena(ArenaOptions{Capacity: capacity, SpanSize: spanSize})
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestArena_AllocShape(t *testing.T) {
	a := newTestArena(t, 0, 0)

	addr, mem, err := a.Alloc(10)
	require.NoError(t, err)
	assert.Equal(t, DefaultBase, addr, "first block starts at the base")
	assert.Len(t, mem, 10)
	assert.Equal(t, 10, cap(mem), "slice must not expose the alignment padding")

	addr2, _, err := a.Alloc(1)
	require.NoError(t, err)
	assert.Equal(t, addr+16, addr2, "10 bytes round up to 16")
	assert.Zero(t, uint64(addr2)%8)

	size, ok := a.BlockSize(addr)
	require.True(t, ok)
	assert.Equal(t, uint64(16), size)
}

func TestArena_ZeroSizeDistinct(t *testing.T) {
	a := newTestArena(t, 0, 0)

	seen := map[Addr]bool{}
	for range 16 {
		addr, mem, err := a.Alloc(0)
		require.NoError(t, err)
		assert.Empty(t, mem)
		assert.NotZero(t, addr)
		assert.False(t, seen[addr], "zero-size blocks must have distinct addresses")
		seen[addr] = true
	}
}

func TestArena_ReuseFreedAddress(t *testing.T) {
	a := newTestArena(t, 0, 0)

	first, _, err := a.Alloc(64)
	require.NoError(t, err)
	_, _, err = a.Alloc(64)
	require.NoError(t, err)

	require.NoError(t, a.Free(first))

	again, _, err := a.Alloc(64)
	require.NoError(t, err)
	assert.Equal(t, first, again, "freed address should be recycled")
	assert.Equal(t, uint64(1), a.Stats().Reuses)
}

func TestArena_BestFit(t *testing.T) {
	a := newTestArena(t, 0, 0)

	big, _, err := a.Alloc(256)
	require.NoError(t, err)
	_, _, err = a.Alloc(8) // separator
	require.NoError(t, err)
	small, _, err := a.Alloc(96)
	require.NoError(t, err)
	_, _, err = a.Alloc(8)
	require.NoError(t, err)

	require.NoError(t, a.Free(big))
	require.NoError(t, a.Free(small))

	got, _, err := a.Alloc(96)
	require.NoError(t, err)
	assert.Equal(t, small, got, "should pick the exact-fit 96-byte block, not the 256-byte one")

	got, _, err = a.Alloc(256)
	require.NoError(t, err)
	assert.Equal(t, big, got)
}

func TestArena_SplitsLargeFreeBlock(t *testing.T) {
	a := newTestArena(t, 0, 0)

	big, _, err := a.Alloc(256)
	require.NoError(t, err)
	_, _, err = a.Alloc(8)
	require.NoError(t, err)
	require.NoError(t, a.Free(big))

	head, _, err := a.Alloc(64)
	require.NoError(t, err)
	assert.Equal(t, big, head)

	tail, _, err := a.Alloc(64)
	require.NoError(t, err)
	assert.Equal(t, big+64, tail, "second request should come from the split remainder")

	s := a.Stats()
	assert.Equal(t, uint64(2), s.Splits)
	assert.Equal(t, 1, s.FreeBlocks)
	assert.Equal(t, uint64(128), s.FreeBytes)
}

func TestArena_GrowsSpans(t *testing.T) {
	a := newTestArena(t, 1<<20, 4096)

	first, _, err := a.Alloc(3000)
	require.NoError(t, err)
	second, _, err := a.Alloc(3000)
	require.NoError(t, err)

	assert.Equal(t, first+4096, second, "second block opens a new span")
	s := a.Stats()
	assert.Equal(t, 2, s.Spans)
	assert.Equal(t, uint64(8192), s.Reserved)

	// The tail of the first span went to the free lists.
	tail, _, err := a.Alloc(1000)
	require.NoError(t, err)
	assert.Equal(t, first+3000, tail)
}

func TestArena_OversizedRequestGetsOwnSpan(t *testing.T) {
	a := newTestArena(t, 1<<20, 4096)

	addr, mem, err := a.Alloc(10000)
	require.NoError(t, err)
	assert.Len(t, mem, 10000)
	assert.Equal(t, DefaultBase, addr)
	assert.Equal(t, uint64(12288), a.Stats().Reserved)
}

func TestArena_OutOfMemory(t *testing.T) {
	a := newTestArena(t, 64<<10, 64<<10)

	_, _, err := a.Alloc(64 << 10)
	require.NoError(t, err)

	_, _, err = a.Alloc(8)
	require.ErrorIs(t, err, ErrOutOfMemory)

	_, _, err = a.Alloc(1 << 30)
	require.ErrorIs(t, err, ErrOutOfMemory)

	s := a.Stats()
	assert.Equal(t, 1, s.LiveBlocks, "failed requests leave no trace")
}

func TestArena_MemoryIsStable(t *testing.T) {
	a := newTestArena(t, 1<<20, 4096)

	addr, mem, err := a.Alloc(16)
	require.NoError(t, err)
	copy(mem, "0123456789abcdef")

	// Force several new spans.
	for range 8 {
		_, _, err := a.Alloc(4000)
		require.NoError(t, err)
	}

	s, ok := a.findSpan(addr)
	require.True(t, ok)
	off := addr - s.start
	assert.Equal(t, "0123456789abcdef", string(s.mem[off:off+16]))
}

func TestArena_FreeErrors(t *testing.T) {
	a := newTestArena(t, 0, 0)

	require.ErrorIs(t, a.Free(0x1234), ErrBadAddr)

	addr, _, err := a.Alloc(32)
	require.NoError(t, err)
	require.NoError(t, a.Free(addr))
	require.ErrorIs(t, a.Free(addr), ErrBadAddr, "arena must reject a second free")
}

func TestArena_Close(t *testing.T) {
	a, err := NewArena(ArenaOptions{})
	require.NoError(t, err)

	addr, _, err := a.Alloc(32)
	require.NoError(t, err)

	require.NoError(t, a.Close())
	require.NoError(t, a.Close(), "close is idempotent")

	_, _, err = a.Alloc(8)
	require.ErrorIs(t, err, ErrClosed)
	require.ErrorIs(t, a.Free(addr), ErrClosed)
}

func TestArena_BadOptions(t *testing.T) {
	_, err := NewArena(ArenaOptions{Base: 0x10004})
	require.ErrorIs(t, err, ErrBadOptions)

	_, err = NewArena(ArenaOptions{Base: 0x10000, Capacity: ^uint64(0)})
	require.ErrorIs(t, err, ErrBadOptions)
}

func TestArena_MmapSpans(t *testing.T) {
	a, err := NewArena(ArenaOptions{Source: MmapSpans{}, SpanSize: 4096, Capacity: 1 << 20})
	require.NoError(t, err)
	defer a.Close()

	addr, mem, err := a.Alloc(128)
	require.NoError(t, err)
	assert.NotZero(t, addr)
	for i := range mem {
		assert.Zero(t, mem[i], "fresh span memory is zeroed")
		mem[i] = byte(i)
	}
	require.NoError(t, a.Free(addr))
}

func TestSourceFor(t *testing.T) {
	src, err := SourceFor("heap")
	require.NoError(t, err)
	assert.IsType(t, HeapSpans{}, src)

	src, err = SourceFor("MMAP")
	require.NoError(t, err)
	assert.IsType(t, MmapSpans{}, src)

	_, err = SourceFor("disk")
	require.ErrorIs(t, err, ErrBadOptions)
}

func TestArena_PrintStats(t *testing.T) {
	a := newTestArena(t, 0, 0)
	_, _, err := a.Alloc(100)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, a.PrintStats(&out))
	assert.Contains(t, out.String(), "Balanced")
	assert.Contains(t, out.String(), "64 KiB of 64 MiB reserved")
	assert.Contains(t, out.String(), "live: 1 blocks, 104 B")
}
