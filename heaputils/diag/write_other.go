//go:build !unix

package diag

import "os"

// writeLine on platforms without write(2) goes through os.Stderr, which
// the assembled fd always refers to outside of tests.
func writeLine(_ int, line []byte) {
	_, _ = os.Stderr.Write(line)
}
