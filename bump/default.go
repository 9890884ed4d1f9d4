package bump

import (
	"sync"

	"github.com/bumpalloc/bumpheap/heaputils/diag"
)

var (
	defaultOnce sync.Once
	defaultHeap *Heap
)

// Default returns the process-wide heap, reserving its region on first
// use. Initialization happens exactly once; a failed reservation is the
// one unconditionally fatal condition in the allocator and is reported
// through diag.Error, which terminates the process.
func Default() *Heap {
	defaultOnce.Do(func() {
		heap, err := New(Options{})
		if err != nil {
			diag.Error("could not reserve the heap region")
		}
		defaultHeap = heap

		diag.Debug("bump heap initialized",
			heap.baseAddr(),
			heap.baseAddr()+uintptr(len(heap.data)))
	})

	return defaultHeap
}

// Alloc carves size bytes off the process-wide heap. See Heap.Alloc.
func Alloc(size int) []byte {
	return Default().Alloc(size)
}

// AllocZeroed allocates a zero-filled block of count*size bytes from the
// process-wide heap. See Heap.AllocZeroed.
func AllocZeroed(count, size int) []byte {
	return Default().AllocZeroed(count, size)
}

// Realloc resizes a block of the process-wide heap. See Heap.Realloc.
func Realloc(p []byte, newSize int) []byte {
	return Default().Realloc(p, newSize)
}

// Free reports a block of the process-wide heap as unused. See Heap.Free.
func Free(p []byte) {
	Default().Free(p)
}
