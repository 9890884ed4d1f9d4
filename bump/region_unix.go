//go:build unix

package bump

import "golang.org/x/sys/unix"

// reserveRegion maps size bytes of anonymous, process-private, read/write
// memory. The mapping is deliberately never unmapped: the region outlives
// the allocator's logical use and is reclaimed by the kernel at process
// exit.
func reserveRegion(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}
