//go:build debug_alloc

package diag

// Debug emits a single DEBUG line. This method no-ops unless the
// debug_alloc build tag is present.
func Debug(msg string, values ...uintptr) {
	emit(debugPrefix, msg, values)
}
