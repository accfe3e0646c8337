// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import (
	"io"
	"math"
)

// unboundedEOF is the posEOF sentinel meaning "no EOF seen yet".
const unboundedEOF = int64(math.MaxInt64)

// BufferedByteSource is a ByteSource over a seekable stream with a circular
// look-ahead/look-back buffer. It implements the asymmetric policy the
// matcher relies on: heavy forward look-ahead, punctuated by short backward
// reads for byte-comparison.
//
// Unlike a raw-pointer ring buffer, residency is tracked with a
// position-mod-bufSize mapping: byte at file position p, when resident,
// always lives at buf[p%bufSize]. This sacrifices the original's "keep as
// much of the buffer valid as possible on scroll-back" pointer juggling for
// a much simpler invariant (resident window is exactly [winStart, winEnd)
// with winEnd-winStart <= bufSize) without changing any externally
// observable Get result.
type BufferedByteSource struct {
	stream io.ReadSeeker

	buf       []byte
	bufSize   int64
	blockSize int

	winStart int64 // first resident position (inclusive)
	winEnd   int64 // one past the last resident position
	posEOF   int64 // first position known to be at/after EOF

	streamPos int64 // position the underlying stream's cursor is believed to be at
	seekCount int64
	lastErr   error // most recent hard I/O error from a fill, if any
}

// NewBufferedByteSource creates a BufferedByteSource over stream with the
// given ring-buffer size and physical read block size.
func NewBufferedByteSource(stream io.ReadSeeker, bufSize, blockSize int) *BufferedByteSource {
	if bufSize < blockSize {
		bufSize = blockSize
	}

	return &BufferedByteSource{
		stream:    stream,
		buf:       make([]byte, bufSize),
		bufSize:   int64(bufSize),
		blockSize: blockSize,
		posEOF:    unboundedEOF,
	}
}

// SeekCount returns the number of physical Seek calls issued so far.
func (b *BufferedByteSource) SeekCount() int64 { return b.seekCount }

// Get implements ByteSource.
func (b *BufferedByteSource) Get(pos int64, mode ReadMode) int {
	if pos >= b.winStart && pos < b.winEnd {
		return int(b.buf[pos%b.bufSize])
	}

	if pos >= b.posEOF {
		return EOF
	}

	appendable := pos >= b.winEnd && pos < b.winEnd+int64(b.blockSize)
	if mode == SoftAhead && !appendable {
		return EOB
	}

	if err := b.fill(pos, appendable); err != nil {
		if pos >= b.posEOF {
			return EOF
		}
		// A hard read error that isn't EOF: the caller has no channel for
		// plumbing it through the int result, so surface it as EOF, which
		// is always safe (a conservative "no more data") for the matcher's
		// purposes; DiffEngine re-checks via LastError when NEW ends.
		b.lastErr = err
		return EOF
	}

	return b.Get(pos, mode)
}

// LastError returns the most recent hard I/O error seen while filling the
// buffer, if any. Callers that see an unexpected EOF from Get can check this
// to tell a real read failure from a legitimate end of file.
func (b *BufferedByteSource) LastError() error { return b.lastErr }

// fill brings pos into residency by either appending the next block
// (forward, no seek needed if reads have been sequential), scrolling back
// one block, or resetting the buffer entirely at pos.
func (b *BufferedByteSource) fill(pos int64, appendable bool) error {
	switch {
	case appendable:
		return b.readBlock(b.winEnd, b.blockSize, fillAppend)

	case pos < b.winStart && pos+int64(b.blockSize) >= b.winStart:
		start := b.winStart - int64(b.blockSize)
		if start < 0 {
			start = 0
		}
		return b.readBlock(start, int(b.winStart-start), fillScrollBack)

	default:
		return b.readBlock(pos, b.blockSize, fillReset)
	}
}

// fillKind distinguishes the three ways readBlock can be invoked, since each
// updates the resident window differently.
type fillKind int

const (
	fillAppend     fillKind = iota // contiguous forward extension of winEnd
	fillScrollBack                 // controlled one-block extension of winStart backward
	fillReset                      // pos fell outside both of the above; window re-established at at
)

// readBlock reads up to want bytes starting at file position at into the
// ring buffer, updating the resident window and EOF marker according to
// kind.
func (b *BufferedByteSource) readBlock(at int64, want int, kind fillKind) error {
	if want <= 0 {
		return nil
	}

	if b.streamPos != at {
		if _, err := b.stream.Seek(at, io.SeekStart); err != nil {
			return err
		}
		b.seekCount++
	}

	idx := at % b.bufSize
	first := b.bufSize - idx
	var n int
	var err error
	if int64(want) <= first {
		n, err = io.ReadFull(b.stream, b.buf[idx:idx+int64(want)])
	} else {
		n, err = io.ReadFull(b.stream, b.buf[idx:b.bufSize])
		if err == nil {
			var n2 int
			n2, err = io.ReadFull(b.stream, b.buf[0:int64(want)-first])
			n += n2
		}
	}

	eof := err == io.EOF || err == io.ErrUnexpectedEOF
	if eof {
		err = nil
	}
	if err != nil {
		return err
	}

	b.streamPos = at + int64(n)

	switch kind {
	case fillScrollBack:
		// A backward scroll never establishes EOF: it reads strictly before
		// positions already resolved as resident.
		b.winStart = at
		if b.winEnd-b.winStart > b.bufSize {
			b.winEnd = b.winStart + b.bufSize
		}

	case fillReset:
		// pos was neither appendable nor within scroll-back range of the old
		// window, so the old window is irrelevant: re-establish it from
		// scratch at [at, at+n), not merely clamped against the stale
		// winStart/winEnd left over from wherever we were before.
		b.winStart = at
		b.winEnd = at + int64(n)
		if eof {
			b.posEOF = b.winEnd
		}

	default: // fillAppend
		b.winEnd = at + int64(n)
		if b.winStart < b.winEnd-b.bufSize {
			b.winStart = b.winEnd - b.bufSize
		}
		if eof {
			b.posEOF = b.winEnd
		}
	}

	return nil
}
