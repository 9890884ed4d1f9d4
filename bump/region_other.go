//go:build !unix

package bump

import "unsafe"

// reserveRegion falls back to garbage-collected memory on platforms
// without anonymous mappings. The slice is over-allocated so the usable
// window can be shifted onto an Alignment boundary, matching the
// page-aligned base an mmap reservation would provide.
func reserveRegion(size int) ([]byte, error) {
	raw := make([]byte, size+int(Alignment))

	shift := 0
	if rem := int(uintptr(unsafe.Pointer(&raw[0])) % uintptr(Alignment)); rem != 0 {
		shift = int(Alignment) - rem
	}

	return raw[shift : shift+size : shift+size], nil
}
