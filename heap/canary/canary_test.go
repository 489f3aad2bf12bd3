package canary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

func TestWriteLayout(t *testing.T) {
	mem := make([]byte, 10+Width)
	require.NoError(t, Write(mem, 10))

	assert.Equal(t, []byte{0xEF, 0xBE, 0xAD, 0x0B}, mem[10:], "canary is stored little-endian")
	assert.Equal(t, make([]byte, 10), mem[:10], "payload is untouched")
	assert.True(t, Intact(mem, 10))
}

func TestZeroSizePayload(t *testing.T) {
	mem := make([]byte, Width)
	require.NoError(t, Write(mem, 0))
	assert.True(t, Intact(mem, 0))
}

func TestDetectsCorruption(t *testing.T) {
	for i := range Width {
		mem := make([]byte, 8+Width)
		require.NoError(t, Write(mem, 8))
		mem[8+i] ^= 0xFF
		assert.False(t, Intact(mem, 8), "flipping canary byte %d must be detected", i)
	}
}

func TestAppendPastPayloadHitsCanary(t *testing.T) {
	mem := make([]byte, 4+Width)
	require.NoError(t, Write(mem, 4))

	payload := mem[:4:4+Width]
	_ = append(payload, 'x')

	assert.False(t, Intact(mem, 4))
	v, err := Read(mem, 4)
	require.NoError(t, err)
	assert.NotEqual(t, Value, v)
}

func TestTruncated(t *testing.T) {
	mem := make([]byte, 6)
	require.ErrorIs(t, Write(mem, 4), format.ErrTruncated)
	_, err := Read(mem, 4)
	require.ErrorIs(t, err, format.ErrTruncated)
	assert.False(t, Intact(mem, 4))
	assert.False(t, Intact(mem, ^uint64(0)))
}
