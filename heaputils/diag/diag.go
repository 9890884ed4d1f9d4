// Package diag emits fixed-format diagnostic lines to the standard-error
// file descriptor without touching the heap. The allocator uses it to
// report on its own state, so the emit path keeps every buffer fixed-size
// and stack-resident and writes with raw system calls rather than any
// buffered or allocating I/O layer.
//
// Lines take the form
//
//	<PREFIX><message>(\t<hex-value>)*\n
//
// where PREFIX is "DEBUG: " or "ERROR: " and each value renders as
// lowercase hexadecimal with leading zero nybbles suppressed.
package diag

import (
	"os"
)

const (
	debugPrefix = "DEBUG: "
	errorPrefix = "ERROR: "

	// maxMessageLength bounds the message portion of a line; longer
	// messages are truncated.
	maxMessageLength = 256

	// maxValues bounds the number of hex tokens per line so the line
	// buffer can stay fixed-size.
	maxValues = 8

	bitsPerNybble  = 4
	nybbleMask     = 0xf
	nybblesPerWord = 16
)

const lineCap = len(errorPrefix) + maxMessageLength + maxValues*(nybblesPerWord+1) + 1

var (
	outputFD = int(os.Stderr.Fd())
	exit     = os.Exit
)

const hexDigits = "0123456789abcdef"

// appendHex renders value as lowercase hexadecimal with leading zero
// nybbles suppressed. A zero value renders as a lone "0".
func appendHex(buf []byte, value uint64) []byte {
	nonZero := false
	for i := nybblesPerWord - 1; i >= 0; i-- {
		nybble := (value >> uint(i*bitsPerNybble)) & nybbleMask
		if nonZero || nybble != 0 {
			nonZero = true
			buf = append(buf, hexDigits[nybble])
		}
	}

	if !nonZero {
		buf = append(buf, hexDigits[0])
	}

	return buf
}

// emit assembles a single line in a stack buffer and writes it to the
// output descriptor in one call, followed by a best-effort flush.
func emit(prefix, msg string, values []uintptr) {
	var line [lineCap]byte
	buf := line[:0]

	buf = append(buf, prefix...)
	if len(msg) > maxMessageLength {
		msg = msg[:maxMessageLength]
	}
	buf = append(buf, msg...)

	if len(values) > maxValues {
		values = values[:maxValues]
	}
	for _, value := range values {
		buf = append(buf, '\t')
		buf = appendHex(buf, uint64(value))
	}
	buf = append(buf, '\n')

	writeLine(outputFD, buf)
}

// Error emits a single ERROR line and terminates the process with a
// non-zero exit status. It does not return.
func Error(msg string, values ...uintptr) {
	emit(errorPrefix, msg, values)
	exit(1)
}
