// Command bumpcheck exercises the bump allocator as an ordinary consumer:
// it allocates a handful of blocks, checks the allocator's advertised
// properties (alignment, block disjointness, resize semantics, zero
// filling), and prints a JSON dump of the heap's state. It exits non-zero
// on the first violated property.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"unsafe"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"

	"github.com/bumpalloc/bumpheap/bump"
)

func addrOf(p []byte) uintptr {
	return uintptr(unsafe.Pointer(&p[0]))
}

func check(logger *slog.Logger, ok bool, property string) {
	if !ok {
		logger.Error("property violated", slog.String("property", property))
		os.Exit(1)
	}
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout))

	heap, err := bump.New(bump.Options{Logger: logger})
	if err != nil {
		logger.Error("reservation failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Sequential carves: increasing, aligned, disjoint.
	x := heap.Alloc(16)
	y := heap.Alloc(64)
	z := heap.Alloc(32)
	check(logger, x != nil && y != nil && z != nil, "sequential allocations succeed")
	check(logger, addrOf(x) < addrOf(y) && addrOf(y) < addrOf(z), "addresses strictly increase")
	check(logger, addrOf(x)+16 <= addrOf(y) && addrOf(y)+64 <= addrOf(z), "blocks do not overlap")
	logger.Info("sequential carves",
		slog.String("x", fmt.Sprintf("%#x", addrOf(x))),
		slog.String("y", fmt.Sprintf("%#x", addrOf(y))),
		slog.String("z", fmt.Sprintf("%#x", addrOf(z))))

	for i := 0; i < 100; i++ {
		p := heap.Alloc(1 + rand.Intn(100))
		check(logger, p != nil, "random-size allocation succeeds")
		check(logger, addrOf(p)%uintptr(bump.Alignment) == 0, "payload is double-word aligned")
	}

	check(logger, heap.Alloc(0) == nil, "zero-size allocation returns nil")

	// Shrinking and same-size resizes keep pointer identity.
	for _, sizes := range [][2]int{{2, 1}, {16, 12}, {45, 32}, {25, 25}, {38, 38}} {
		p := heap.Alloc(sizes[0])
		q := heap.Realloc(p, sizes[1])
		check(logger, addrOf(p) == addrOf(q), "non-growing resize keeps pointer identity")
	}

	// Growth moves the block and preserves content.
	p := heap.Alloc(24)
	for i := range p {
		p[i] = byte(i * 7)
	}
	q := heap.Realloc(p, 75)
	check(logger, q != nil && addrOf(q) != addrOf(p), "growth relocates the block")
	for i := range p {
		check(logger, q[i] == byte(i*7), "growth preserves content")
	}

	zeroed := heap.AllocZeroed(4, 8)
	check(logger, len(zeroed) == 32, "zeroed allocation has the requested size")
	for _, b := range zeroed {
		check(logger, b == 0, "zeroed allocation is zero filled")
	}

	check(logger, heap.Validate() == nil, "heap validates")

	writer := jwriter.NewWriter()
	heap.BuildStatsString(&writer)
	if writer.Error() != nil {
		logger.Error("stats dump failed", slog.Any("error", writer.Error()))
		os.Exit(1)
	}
	fmt.Println(string(writer.Bytes()))

	logger.Info("all properties hold", slog.Int("LiveBlocks", heap.LiveCount()))
}
