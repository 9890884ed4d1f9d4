package bump_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/stretchr/testify/require"

	"github.com/bumpalloc/bumpheap/heaputils"
)

func TestHeapStatistics(t *testing.T) {
	heap := newHeap(t, 1<<16)

	x := heap.Alloc(16)
	heap.Alloc(64)
	heap.Alloc(32)
	heap.Free(x)

	var stats heaputils.Statistics
	heap.AddStatistics(&stats)
	require.Equal(t, heaputils.Statistics{
		AllocationCount: 3,
		AllocationBytes: 112,
		PaddingBytes:    24,
		ReservedBytes:   1 << 16,
		UsedBytes:       160,
	}, stats)

	var detailed heaputils.DetailedStatistics
	detailed.Clear()
	heap.AddDetailedStatistics(&detailed)
	require.Equal(t, heaputils.DetailedStatistics{
		Statistics: heaputils.Statistics{
			AllocationCount: 3,
			AllocationBytes: 112,
			PaddingBytes:    24,
			ReservedBytes:   1 << 16,
			UsedBytes:       160,
		},
		FreedCount:        1,
		AllocationSizeMin: 16,
		AllocationSizeMax: 64,
	}, detailed)
}

func TestEmptyHeapDetailedStatistics(t *testing.T) {
	heap := newHeap(t, 4096)

	var detailed heaputils.DetailedStatistics
	detailed.Clear()
	heap.AddDetailedStatistics(&detailed)

	require.Zero(t, detailed.AllocationCount)
	require.Equal(t, math.MaxInt, detailed.AllocationSizeMin)
	require.Equal(t, 4096, detailed.ReservedBytes)
}

func TestHeapMetrics(t *testing.T) {
	heap := newHeap(t, 1<<16)

	p := heap.Alloc(100)
	heap.Alloc(50)
	heap.Free(p)

	metrics := heap.Metrics()
	require.Equal(t, 1<<16, metrics.ReservedBytes)
	require.Equal(t, 2, metrics.AllocationCount)
	require.Equal(t, 1, metrics.LiveCount)
	require.Equal(t, 1, metrics.FreedCount)
	require.Greater(t, metrics.UsedBytes, 150)
	require.InDelta(t, float64(metrics.UsedBytes)/float64(1<<16), metrics.Utilization, 1e-9)
}

func TestBuildStatsString(t *testing.T) {
	heap := newHeap(t, 1<<16)

	x := heap.Alloc(16)
	heap.Alloc(64)
	heap.Free(x)

	writer := jwriter.NewWriter()
	heap.BuildStatsString(&writer)
	require.NoError(t, writer.Error())

	var dump struct {
		ReservedBytes   int
		FrontierOffset  int
		Allocations     int
		AllocationBytes int
		Freed           int
		PaddingBytes    int
		Blocks          []struct {
			Offset int
			Size   int
			Live   bool
		}
	}
	require.NoError(t, json.Unmarshal(writer.Bytes(), &dump))

	require.Equal(t, 1<<16, dump.ReservedBytes)
	require.Equal(t, 2, dump.Allocations)
	require.Equal(t, 80, dump.AllocationBytes)
	require.Equal(t, 1, dump.Freed)
	require.Len(t, dump.Blocks, 2)

	require.Equal(t, 16, dump.Blocks[0].Size)
	require.False(t, dump.Blocks[0].Live)
	require.Equal(t, 64, dump.Blocks[1].Size)
	require.True(t, dump.Blocks[1].Live)
	require.Equal(t, dump.FrontierOffset, dump.Blocks[1].Offset+64)
}
