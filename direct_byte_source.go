// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import "io"

// directByteSource is a ByteSource over an io.ReaderAt with no buffering
// policy of its own: every Get is a direct ReadAt. HardAhead and SoftAhead
// behave identically, since there is no buffer to miss. Meant for small
// in-memory inputs (bytes.Reader) and tests, where a ring buffer's
// seek/scroll bookkeeping would be pure overhead.
type directByteSource struct {
	r    io.ReaderAt
	size int64
}

func newDirectByteSource(r io.ReaderAt, size int64) *directByteSource {
	return &directByteSource{r: r, size: size}
}

func (d *directByteSource) Get(pos int64, _ ReadMode) int {
	if pos < 0 || pos >= d.size {
		return EOF
	}

	var b [1]byte
	if _, err := d.r.ReadAt(b[:], pos); err != nil {
		return EOF
	}

	return int(b[0])
}

func (d *directByteSource) SeekCount() int64 { return 0 }
