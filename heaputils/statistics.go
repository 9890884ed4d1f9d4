package heaputils

import "math"

// Statistics describes the coarse state of a reserved heap region: how much
// address space is reserved, how much of it has been carved off the frontier,
// and how many allocations produced those carves.
type Statistics struct {
	AllocationCount int
	AllocationBytes int
	PaddingBytes    int
	ReservedBytes   int
	UsedBytes       int
}

func (s *Statistics) Clear() {
	s.AllocationCount = 0
	s.AllocationBytes = 0
	s.PaddingBytes = 0
	s.ReservedBytes = 0
	s.UsedBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.AllocationCount += other.AllocationCount
	s.AllocationBytes += other.AllocationBytes
	s.PaddingBytes += other.PaddingBytes
	s.ReservedBytes += other.ReservedBytes
	s.UsedBytes += other.UsedBytes
}

// DetailedStatistics extends Statistics with per-allocation extremes and a
// count of blocks that were handed to the deallocation path. Freed blocks
// are never reclaimed, so FreedCount never reduces AllocationBytes.
type DetailedStatistics struct {
	Statistics
	FreedCount        int
	AllocationSizeMin int
	AllocationSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.FreedCount = 0
	s.AllocationSizeMin = math.MaxInt
	s.AllocationSizeMax = 0
}

func (s *DetailedStatistics) AddAllocation(size int) {
	s.AllocationCount++
	s.AllocationBytes += size

	if size < s.AllocationSizeMin {
		s.AllocationSizeMin = size
	}

	if size > s.AllocationSizeMax {
		s.AllocationSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.FreedCount += other.FreedCount

	if other.AllocationSizeMin < s.AllocationSizeMin {
		s.AllocationSizeMin = other.AllocationSizeMin
	}

	if other.AllocationSizeMax > s.AllocationSizeMax {
		s.AllocationSizeMax = other.AllocationSizeMax
	}
}
