// Package bump implements a grow-only, pointer-bumping heap on top of a
// single reservation of anonymous virtual memory. Every allocation is
// carved off a monotonically advancing frontier; freed blocks are reported
// but never reclaimed or reused. The package exists to make allocator
// internals observable: block headers, alignment padding, and the frontier
// are all inspectable through VisitBlocks, Validate, and the statistics
// methods.
package bump

import (
	"encoding/binary"
	"math"
	"os"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"golang.org/x/exp/slog"

	"github.com/bumpalloc/bumpheap/heaputils"
	"github.com/bumpalloc/bumpheap/heaputils/diag"
)

const (
	// Alignment is the boundary every returned payload address satisfies:
	// twice the machine word size.
	Alignment uint = 2 * uint(unsafe.Sizeof(uintptr(0)))

	// headerSize is the number of metadata bytes placed immediately before
	// each payload. The header records the originally requested payload
	// size and is never rewritten, even when a resize logically shrinks
	// the block.
	headerSize = 8

	// DefaultReservedSize is the span of address space reserved when
	// Options.ReservedSize is zero: 2 GiB. The reservation is lazy on the
	// operating system's side, so the span is address space, not memory.
	DefaultReservedSize = 2 << 30
)

// Heap is a single reserved region of anonymous memory plus the offset of
// the next unused byte within it. The zero value is not usable; create
// heaps with New, or use the process-wide heap behind Default.
//
// Heap performs no internal locking. The frontier-advance sequence is not
// atomic, so concurrent callers must serialize every operation externally;
// SafeHeap does exactly that.
type Heap struct {
	data     []byte
	frontier int

	allocCount int
	allocBytes int
	freedCount int
	padBytes   int

	live   *swiss.Map[int, int]
	logger *slog.Logger
}

var _ heaputils.Validatable = &Heap{}

// Options controls heap construction. It is valid to leave every field
// blank.
type Options struct {
	// ReservedSize is the span of address space to reserve, rounded up to
	// the operating system's page size. Zero selects DefaultReservedSize.
	ReservedSize int

	// Logger receives coarse lifecycle events (region reservation, fatal
	// conditions surfaced by embedders). Nil selects slog.Default. The
	// logger is never invoked on the raw diagnostic path, which must not
	// allocate.
	Logger *slog.Logger
}

// New reserves a fresh region and returns a Heap fronting it. The
// reservation is the only point of failure in the allocator; the returned
// error wraps the operating system's refusal. The region is never released
// for the life of the process.
func New(options Options) (*Heap, error) {
	size := options.ReservedSize
	if size == 0 {
		size = DefaultReservedSize
	}
	if size < 0 {
		return nil, cerrors.Newf("requested reserved size %d is negative", size)
	}

	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pageSize := os.Getpagesize()
	heaputils.DebugCheckPow2(uint(pageSize), "page size")
	size = heaputils.AlignUp(size, uint(pageSize))

	data, err := reserveRegion(size)
	if err != nil {
		return nil, cerrors.Wrapf(err, "failed to reserve a %d-byte heap region", size)
	}

	h := &Heap{
		data:   data,
		live:   swiss.NewMap[int, int](64),
		logger: logger,
	}

	logger.Debug("heap region reserved",
		slog.Int("ReservedBytes", size),
		slog.Int("PageSize", pageSize))

	return h, nil
}

// ReservedSize returns the size of the reserved region in bytes.
func (h *Heap) ReservedSize() int { return len(h.data) }

// baseAddr is the address of the first byte of the reserved region.
func (h *Heap) baseAddr() uintptr {
	return uintptr(unsafe.Pointer(&h.data[0]))
}

// paddingAt computes how far the frontier must advance from offset so
// that a header placed there leaves its payload on an Alignment boundary.
// Alignment is of the absolute address, not the region offset.
func (h *Heap) paddingAt(offset int) int {
	addr := h.baseAddr() + uintptr(offset)
	align := uintptr(Alignment)
	return int((headerSize + align - addr%align) % align)
}

// offsetOf maps a payload slice previously returned by this heap back to
// its region offset.
func (h *Heap) offsetOf(p []byte) int {
	return int(uintptr(unsafe.Pointer(&p[0])) - h.baseAddr())
}

// Alloc carves a block of size bytes off the frontier and returns its
// payload, or nil when size is not positive or the region is exhausted.
// Every returned payload is Alignment-aligned and disjoint from all
// previously returned payloads.
//
// The alignment bump is applied to the frontier before the size and bounds
// checks, so a zero-size request can still advance the frontier by a few
// bytes without carving a block.
func (h *Heap) Alloc(size int) []byte {
	heaputils.DebugValidate(h)

	// The bump lands even for requests that will not carve a block, but
	// never past the end of the region.
	padding := h.paddingAt(h.frontier)
	if padding > len(h.data)-h.frontier {
		padding = len(h.data) - h.frontier
	}
	h.frontier += padding
	h.padBytes += padding

	if size <= 0 {
		return nil
	}

	// Exhaustion leaves the frontier where the padding bump put it.
	if size > len(h.data)-h.frontier-headerSize {
		diag.Debug("alloc failed, region exhausted", uintptr(size))
		return nil
	}

	headerOffset := h.frontier
	payloadOffset := headerOffset + headerSize
	h.frontier = payloadOffset + size

	binary.LittleEndian.PutUint64(h.data[headerOffset:payloadOffset], uint64(size))

	h.allocCount++
	h.allocBytes += size
	h.live.Put(payloadOffset, size)

	diag.Debug("alloc", h.baseAddr()+uintptr(payloadOffset), uintptr(size))

	return h.data[payloadOffset : payloadOffset+size : payloadOffset+size]
}

// AllocZeroed allocates a block of count*size bytes and zero-fills it.
// It returns nil when the product overflows, when the product is zero, or
// when the region cannot satisfy the request.
func (h *Heap) AllocZeroed(count, size int) []byte {
	if count < 0 || size < 0 {
		return nil
	}
	if count != 0 && size != 0 && count > math.MaxInt/size {
		diag.Debug("zeroed alloc failed, element count overflows", uintptr(count), uintptr(size))
		return nil
	}

	blockSize := count * size
	p := h.Alloc(blockSize)
	if p == nil {
		return nil
	}

	for i := range p {
		p[i] = 0
	}
	return p
}

// Realloc adjusts the block behind p to newSize, preserving content up to
// the smaller of the old and new sizes.
//
// A nil or empty p behaves as Alloc(newSize). A newSize of zero behaves
// as Free(p) and returns nil. When newSize fits within the block's
// original size the same slice is returned and the block is untouched;
// the header keeps the original size, so the returned slice's length
// still reflects the size the block was allocated with, not newSize.
// Growth allocates a new block, copies the old payload, and reports the
// old block as freed. A failed growth returns nil and leaves the old
// block intact.
func (h *Heap) Realloc(p []byte, newSize int) []byte {
	if len(p) == 0 {
		return h.Alloc(newSize)
	}
	if newSize == 0 {
		h.Free(p)
		return nil
	}
	if newSize < 0 {
		return nil
	}

	payloadOffset := h.offsetOf(p)
	oldSize := int(binary.LittleEndian.Uint64(h.data[payloadOffset-headerSize : payloadOffset]))

	if newSize <= oldSize {
		return p
	}

	grown := h.Alloc(newSize)
	if grown == nil {
		return nil
	}

	copy(grown, h.data[payloadOffset:payloadOffset+oldSize])
	h.Free(p)
	return grown
}

// Free reports the block behind p and leaves it in place: the region never
// shrinks and no block is ever reused. Passing nil, an empty slice, a
// foreign pointer, or an already-freed block is harmless; every call is
// reported the same way.
func (h *Heap) Free(p []byte) {
	heaputils.DebugValidate(h)

	var addr uintptr
	if len(p) > 0 {
		addr = uintptr(unsafe.Pointer(&p[0]))

		offset := h.offsetOf(p)
		if _, tracked := h.live.Get(offset); tracked {
			h.live.Delete(offset)
			h.freedCount++
		}
	}

	diag.Debug("free, block retained", addr)
}

// LiveCount returns the number of allocated blocks that have not been
// passed to Free.
func (h *Heap) LiveCount() int {
	return h.live.Count()
}

// VisitBlocks walks the carved blocks in address order, calling visit with
// each payload's region offset and originally requested size. The walk
// reconstructs block placement from the headers alone; it returns an error
// if a header is corrupt or if visit returns one.
func (h *Heap) VisitBlocks(visit func(payloadOffset, size int) error) error {
	offset := 0
	for {
		offset += h.paddingAt(offset)
		if offset+headerSize >= h.frontier {
			return nil
		}

		size := int(binary.LittleEndian.Uint64(h.data[offset : offset+headerSize]))
		if size <= 0 {
			return cerrors.Newf("header at offset %d records non-positive block size %d", offset, size)
		}

		payloadOffset := offset + headerSize
		if err := visit(payloadOffset, size); err != nil {
			return err
		}

		offset = payloadOffset + size
	}
}
