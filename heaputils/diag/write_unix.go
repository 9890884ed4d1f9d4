//go:build unix

package diag

import "golang.org/x/sys/unix"

// writeLine pushes an assembled line straight at the file descriptor and
// asks the kernel to flush it. Fsync fails on pipes and terminals, which
// is harmless.
func writeLine(fd int, line []byte) {
	_, _ = unix.Write(fd, line)
	_ = unix.Fsync(fd)
}
