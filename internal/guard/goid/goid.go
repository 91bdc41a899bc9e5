package goid

import (
	"runtime"
	"strconv"
)

// Current returns the ID of the calling goroutine.
//
// The ID is extracted by parsing runtime.Stack output for the current
// goroutine only. This costs roughly 1.5µs per call, which is acceptable
// here: it is paid once per acquire/release, not per guarded operation,
// and acquire is already a potential suspension point.
//
// Returns 0 only if the stack trace cannot be parsed, which would indicate
// a change in the runtime's stack trace format.
func Current() int64 {
	// The first line is all we need: "goroutine 123 [running]:".
	// 64 bytes is sufficient; runtime.Stack truncates the rest.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return Parse(buf[:n])
}

// Parse extracts the goroutine ID from a runtime.Stack header line.
//
// Input format:
//
//	"goroutine 123 [running]:\n..."
//
// Returns the parsed ID, or 0 if buf does not start with a well-formed
// goroutine header.
func Parse(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) || string(buf[:len(prefix)]) != prefix {
		return 0
	}
	buf = buf[len(prefix):]

	// The ID runs up to the space before "[running]".
	end := 0
	for end < len(buf) && buf[end] >= '0' && buf[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}

	id, err := strconv.ParseInt(string(buf[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
