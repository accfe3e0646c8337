// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

// ReadMode selects how ByteSource.Get behaves when the requested position
// is not already resident in whatever buffering the source maintains.
type ReadMode int

const (
	// Normal is equivalent to HardAhead.
	Normal ReadMode = iota
	// HardAhead blocks and reads if needed; returns EOF only at true
	// end of file.
	HardAhead
	// SoftAhead returns EOB immediately, instead of seeking or resetting
	// the source's buffer, if the requested position is not already
	// resident; a buffered source still reads the next contiguous block
	// when the position lies within it.
	SoftAhead
)

// Sentinel results returned by ByteSource.Get in addition to byte values
// 0..255.
const (
	// EOF marks true end of file: no amount of further reading will ever
	// produce data at or beyond this position.
	EOF = -1
	// EOB (end of buffer) marks a soft-read miss: the requested position
	// is not currently resident in the source's buffer. A HardAhead or
	// Normal read at the same position may still succeed.
	EOB = -2
)

// ByteSource is random-access single-byte read access to one of the two
// files taking part in a diff or patch. Implementations distinguish a hard
// EOF (no more data, ever) from a soft EOB (not resident right now, ask
// again with HardAhead/Normal).
type ByteSource interface {
	// Get returns the byte at pos (0..255), EOF, or EOB. Buffered
	// implementations treat a read just past their resident window as
	// sequential access and extend the window without seeking.
	Get(pos int64, mode ReadMode) int

	// SeekCount returns the number of physical seeks performed so far.
	// Statistics only; never affects behavior.
	SeekCount() int64
}
