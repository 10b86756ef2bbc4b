// Package ndjson turns a raw byte stream of newline-delimited JSON into a
// sequence of typed values. The server interleaves records with empty
// keep-alive lines, chunks arrive at arbitrary boundaries, and streams stay
// open indefinitely, so splitting is incremental and never depends on seeing
// the whole body.
package ndjson

import (
	"bytes"
	"strings"
)

// LineSplitter reassembles text lines from a sequence of byte chunks. The
// accumulation buffer holds only the suffix of the input that has not yet
// terminated in a newline; after every Push it is guaranteed to contain no
// line terminator.
//
// A LineSplitter belongs to exactly one stream and must not be shared.
type LineSplitter struct {
	buffer []byte
}

// Push appends a chunk to the accumulation buffer and returns every line
// completed by it, in wire order, with terminators stripped. A "\r\n"
// terminator split across two chunks is handled like any other boundary.
// Lines that are empty on the wire are returned as empty strings; filtering
// them is the caller's concern.
func (splitter *LineSplitter) Push(chunk []byte) []string {
	splitter.buffer = append(splitter.buffer, chunk...)

	var lines []string
	for {
		terminatorIndex := bytes.IndexByte(splitter.buffer, '\n')
		if terminatorIndex < 0 {
			break
		}
		lines = append(lines, strings.TrimSuffix(string(splitter.buffer[:terminatorIndex]), "\r"))
		splitter.buffer = splitter.buffer[terminatorIndex+1:]
	}
	if len(splitter.buffer) == 0 {
		// Release the backing array between records so an idle stream
		// does not pin the largest chunk seen so far.
		splitter.buffer = nil
	}
	return lines
}

// Finish reports the residual unterminated line left in the buffer at end of
// stream, and whether there is one. The buffer is reset either way. Whether a
// residual line is delivered to consumers is a stream-level policy (see
// WithTrailingLine); the splitter only reports it.
func (splitter *LineSplitter) Finish() (string, bool) {
	if len(splitter.buffer) == 0 {
		return "", false
	}
	residual := strings.TrimSuffix(string(splitter.buffer), "\r")
	splitter.buffer = nil
	return residual, true
}
