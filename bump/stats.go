package bump

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/bumpalloc/bumpheap/heaputils"
)

// HeapMetrics is a point-in-time snapshot of a heap's occupancy.
type HeapMetrics struct {
	ReservedBytes   int     // Span of reserved address space
	UsedBytes       int     // Bytes between the region start and the frontier
	AllocationCount int     // Successful allocations over the heap's lifetime
	LiveCount       int     // Allocations not yet passed to Free
	FreedCount      int     // Blocks reported freed (but retained)
	PaddingBytes    int     // Bytes spent on alignment padding
	Utilization     float64 // UsedBytes over ReservedBytes
}

// Metrics returns a snapshot of heap statistics.
func (h *Heap) Metrics() HeapMetrics {
	utilization := 0.0
	if len(h.data) > 0 {
		utilization = float64(h.frontier) / float64(len(h.data))
	}

	return HeapMetrics{
		ReservedBytes:   len(h.data),
		UsedBytes:       h.frontier,
		AllocationCount: h.allocCount,
		LiveCount:       h.live.Count(),
		FreedCount:      h.freedCount,
		PaddingBytes:    h.padBytes,
		Utilization:     utilization,
	}
}

// AddStatistics sums this heap's coarse occupancy numbers into the
// statistics currently present in stats.
func (h *Heap) AddStatistics(stats *heaputils.Statistics) {
	stats.AllocationCount += h.allocCount
	stats.AllocationBytes += h.allocBytes
	stats.PaddingBytes += h.padBytes
	stats.ReservedBytes += len(h.data)
	stats.UsedBytes += h.frontier
}

// AddDetailedStatistics sums this heap's occupancy numbers, including
// per-block extremes gathered from a header walk, into the statistics
// currently present in stats.
func (h *Heap) AddDetailedStatistics(stats *heaputils.DetailedStatistics) {
	_ = h.VisitBlocks(func(payloadOffset, size int) error {
		stats.AddAllocation(size)
		return nil
	})

	stats.PaddingBytes += h.padBytes
	stats.ReservedBytes += len(h.data)
	stats.UsedBytes += h.frontier
	stats.FreedCount += h.freedCount
}

// BuildStatsString populates a json object with the heap's state: region
// bounds, frontier, lifetime counters, and one entry per carved block.
func (h *Heap) BuildStatsString(writer *jwriter.Writer) {
	obj := writer.Object()
	defer obj.End()

	obj.Name("ReservedBytes").Int(len(h.data))
	obj.Name("FrontierOffset").Int(h.frontier)
	obj.Name("Allocations").Int(h.allocCount)
	obj.Name("AllocationBytes").Int(h.allocBytes)
	obj.Name("Freed").Int(h.freedCount)
	obj.Name("PaddingBytes").Int(h.padBytes)

	blocks := obj.Name("Blocks").Array()
	_ = h.VisitBlocks(func(payloadOffset, size int) error {
		blockObj := blocks.Object()

		blockObj.Name("Offset").Int(payloadOffset)
		blockObj.Name("Size").Int(size)
		_, live := h.live.Get(payloadOffset)
		blockObj.Name("Live").Bool(live)

		blockObj.End()
		return nil
	})
	blocks.End()
}
