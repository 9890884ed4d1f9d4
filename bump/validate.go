package bump

import (
	"github.com/pkg/errors"

	"github.com/bumpalloc/bumpheap/heaputils"
)

// Validate performs internal consistency checks on the heap. When the
// allocator is functioning correctly it should not be possible for this
// method to return an error, but it may assist in diagnosing corruption.
// Every public operation runs Validate automatically when the module is
// built with the debug_heap_utils tag.
func (h *Heap) Validate() error {
	if h.frontier < 0 || h.frontier > len(h.data) {
		return errors.Errorf("frontier offset %d lies outside the %d-byte reserved region", h.frontier, len(h.data))
	}

	walkedBlocks := 0
	walkedLive := 0
	walkedBytes := 0

	err := h.VisitBlocks(func(payloadOffset, size int) error {
		if !heaputils.IsAligned(h.baseAddr()+uintptr(payloadOffset), Alignment) {
			return errors.Errorf("payload at offset %d is not %d-byte aligned", payloadOffset, Alignment)
		}
		if payloadOffset+size > h.frontier {
			return errors.Errorf("block at offset %d runs %d bytes past the frontier", payloadOffset, payloadOffset+size-h.frontier)
		}

		walkedBlocks++
		walkedBytes += size
		if _, tracked := h.live.Get(payloadOffset); tracked {
			walkedLive++
		}
		return nil
	})
	if err != nil {
		return err
	}

	if walkedBlocks != h.allocCount {
		return errors.Errorf("walked %d blocks, but %d successful allocations were recorded", walkedBlocks, h.allocCount)
	}
	if walkedBytes != h.allocBytes {
		return errors.Errorf("walked blocks total %d payload bytes, but %d were recorded", walkedBytes, h.allocBytes)
	}
	if walkedLive != h.live.Count() {
		return errors.Errorf("the ledger tracks %d live blocks, but only %d of them exist in the region", h.live.Count(), walkedLive)
	}
	if h.allocCount-h.freedCount != h.live.Count() {
		return errors.Errorf("%d allocations minus %d frees should leave %d live blocks, but the ledger tracks %d", h.allocCount, h.freedCount, h.allocCount-h.freedCount, h.live.Count())
	}

	return nil
}
