package loader

import (
	"bytes"
	"errors"
)

var errBinary = errors.New("content looks binary (contains NUL bytes)")

// isBinary reports whether data is likely a binary blob rather than text.
// UTF-16 input carries a byte order mark and legitimately contains NUL bytes.
func isBinary(data []byte) bool {
	if bytes.HasPrefix(data, []byte{0xFE, 0xFF}) || bytes.HasPrefix(data, []byte{0xFF, 0xFE}) {
		return false
	}
	return bytes.IndexByte(data, 0) >= 0
}
