package bump

import (
	"sync"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/bumpalloc/bumpheap/heaputils"
)

// SafeHeap is a mutex-protected wrapper around Heap for concurrent use.
// The frontier-advance sequence (read, pad, bound-check, bump) is not
// atomic, so a bare Heap shared between goroutines corrupts its frontier;
// SafeHeap serializes every operation behind a single mutex instead.
type SafeHeap struct {
	mu sync.Mutex
	h  *Heap
}

// NewSafe reserves a fresh region and returns a SafeHeap fronting it.
func NewSafe(options Options) (*SafeHeap, error) {
	h, err := New(options)
	if err != nil {
		return nil, err
	}
	return &SafeHeap{h: h}, nil
}

// Alloc carves a block of size bytes off the frontier. See Heap.Alloc.
func (s *SafeHeap) Alloc(size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Alloc(size)
}

// AllocZeroed allocates a zero-filled block of count*size bytes. See
// Heap.AllocZeroed.
func (s *SafeHeap) AllocZeroed(count, size int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.AllocZeroed(count, size)
}

// Realloc adjusts the block behind p to newSize. See Heap.Realloc.
func (s *SafeHeap) Realloc(p []byte, newSize int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Realloc(p, newSize)
}

// Free reports the block behind p and leaves it in place. See Heap.Free.
func (s *SafeHeap) Free(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.Free(p)
}

// Metrics returns a snapshot of heap statistics.
func (s *SafeHeap) Metrics() HeapMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Metrics()
}

// AddStatistics sums the wrapped heap's occupancy numbers into stats.
func (s *SafeHeap) AddStatistics(stats *heaputils.Statistics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.AddStatistics(stats)
}

// AddDetailedStatistics sums the wrapped heap's occupancy numbers,
// including per-block extremes, into stats.
func (s *SafeHeap) AddDetailedStatistics(stats *heaputils.DetailedStatistics) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.AddDetailedStatistics(stats)
}

// Validate performs internal consistency checks on the wrapped heap.
func (s *SafeHeap) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.Validate()
}

// VisitBlocks walks the carved blocks in address order. The heap stays
// locked for the duration of the walk.
func (s *SafeHeap) VisitBlocks(visit func(payloadOffset, size int) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.h.VisitBlocks(visit)
}

// BuildStatsString populates a json object with the wrapped heap's state.
func (s *SafeHeap) BuildStatsString(writer *jwriter.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.h.BuildStatsString(writer)
}
