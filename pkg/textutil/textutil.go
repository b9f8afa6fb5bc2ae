// Package textutil provides byte-level text utilities for source input
// handling: binary detection, line counting, and source-file loading.
package textutil

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

// ErrBinaryInput indicates a file that cannot be treated as source text.
var ErrBinaryInput = errors.New("binary input")

// BinarySniffLength is the maximum number of bytes scanned for null-byte
// detection. Matches the heuristic used by Git and most editors.
const BinarySniffLength = 8000

// IsBinary returns true if data contains a null byte within the first
// BinarySniffLength bytes. Empty data is not binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}

	sniff := data
	if len(sniff) > BinarySniffLength {
		sniff = sniff[:BinarySniffLength]
	}

	return bytes.IndexByte(sniff, 0) >= 0
}

// CountLines returns the number of newline-delimited lines in data.
// A non-empty buffer without a trailing newline counts the last partial
// line. Returns 0 for empty data.
func CountLines(data []byte) int {
	if len(data) == 0 {
		return 0
	}

	lines := bytes.Count(data, []byte{'\n'})

	if data[len(data)-1] != '\n' {
		lines++
	}

	return lines
}

// ReadSource reads path and rejects binary content, since a parser fed a
// binary blob produces useless offsets before failing.
func ReadSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if IsBinary(data) {
		return nil, fmt.Errorf("%w: %s", ErrBinaryInput, path)
	}

	return data, nil
}
