// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import (
	"io"
	"sync"
)

// bufferedByteSourcePool recycles BufferedByteSource ring buffers across
// diffs, so a long-lived process (a service handling many Diff/Apply calls)
// doesn't repeatedly allocate and discard potentially large ([]byte)
// buffers.
var bufferedByteSourcePool = sync.Pool{
	New: func() any {
		return &BufferedByteSource{}
	},
}

// acquireBufferedByteSource gets a BufferedByteSource from the pool, sized
// for bufSize/blockSize, reading from stream.
func acquireBufferedByteSource(stream io.ReadSeeker, bufSize, blockSize int) *BufferedByteSource {
	b := bufferedByteSourcePool.Get().(*BufferedByteSource)

	if bufSize < blockSize {
		bufSize = blockSize
	}
	if cap(b.buf) < bufSize {
		b.buf = make([]byte, bufSize)
	} else {
		b.buf = b.buf[:bufSize]
	}

	b.stream = stream
	b.bufSize = int64(bufSize)
	b.blockSize = blockSize
	b.winStart = 0
	b.winEnd = 0
	b.posEOF = unboundedEOF
	b.streamPos = 0
	b.seekCount = 0
	b.lastErr = nil

	return b
}

// releaseBufferedByteSource returns b to the pool. The underlying ring
// buffer is kept; the stream reference and last error are cleared, so it
// doesn't pin the caller's file open.
func releaseBufferedByteSource(b *BufferedByteSource) {
	if b == nil {
		return
	}
	b.stream = nil
	b.lastErr = nil
	bufferedByteSourcePool.Put(b)
}
