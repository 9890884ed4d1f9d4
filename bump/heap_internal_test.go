package bump

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestZeroSizeRequestNudgesFrontier(t *testing.T) {
	heap, err := New(Options{ReservedSize: 4096})
	require.NoError(t, err)
	require.Zero(t, heap.frontier)

	// The alignment bump lands even though no block is carved.
	require.Nil(t, heap.Alloc(0))
	require.Equal(t, headerSize, heap.frontier)

	// Once the frontier sits a header short of a boundary, further
	// zero-size requests add nothing.
	require.Nil(t, heap.Alloc(0))
	require.Equal(t, headerSize, heap.frontier)

	require.Equal(t, headerSize, heap.padBytes)
}

func TestHeaderKeepsOriginalSize(t *testing.T) {
	heap, err := New(Options{ReservedSize: 4096})
	require.NoError(t, err)

	p := heap.Alloc(24)
	require.NotNil(t, p)

	offset := heap.offsetOf(p)
	readHeader := func() int {
		return int(binary.LittleEndian.Uint64(heap.data[offset-headerSize : offset]))
	}
	require.Equal(t, 24, readHeader())

	// A shrinking resize leaves the header untouched.
	q := heap.Realloc(p, 12)
	require.Same(t, &p[0], &q[0])
	require.Equal(t, 24, readHeader())

	// So a later grow back within the original size is still in place.
	r := heap.Realloc(q, 20)
	require.Same(t, &p[0], &r[0])
}

func TestPaddingKeepsPayloadAligned(t *testing.T) {
	heap, err := New(Options{ReservedSize: 1 << 16})
	require.NoError(t, err)

	for _, size := range []int{1, 2, 3, 7, 8, 9, 15, 16, 17, 31, 33, 100} {
		before := heap.frontier
		padding := heap.paddingAt(before)
		require.Less(t, padding, int(Alignment))

		p := heap.Alloc(size)
		require.NotNil(t, p)
		require.Equal(t, before+padding+headerSize, heap.offsetOf(p))
	}
}

func TestPaddingBumpClampedAtRegionEnd(t *testing.T) {
	heap, err := New(Options{ReservedSize: 4096})
	require.NoError(t, err)

	require.NotNil(t, heap.Alloc(4074))
	require.Equal(t, 4090, heap.frontier)

	// A full alignment bump from 4090 would overrun the region; the
	// frontier stops at the end instead.
	require.Nil(t, heap.Alloc(1))
	require.Equal(t, len(heap.data), heap.frontier)

	require.Nil(t, heap.Alloc(1))
	require.Equal(t, len(heap.data), heap.frontier)
	require.NoError(t, heap.Validate())
}

func TestFailedAllocLeavesNoHeader(t *testing.T) {
	heap, err := New(Options{ReservedSize: 4096})
	require.NoError(t, err)

	require.Nil(t, heap.Alloc(1<<20))
	require.Zero(t, heap.allocCount)

	blocks := 0
	require.NoError(t, heap.VisitBlocks(func(int, int) error {
		blocks++
		return nil
	}))
	require.Zero(t, blocks)
}
