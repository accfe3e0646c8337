package jojodiff

import (
	"bytes"
	"testing"
)

func TestBufferedByteSourceForwardRead(t *testing.T) {
	data := []byte("01234567890123456789")
	src := NewBufferedByteSource(bytes.NewReader(data), 8, 4)

	for i, want := range data {
		if got := src.Get(int64(i), HardAhead); got != int(want) {
			t.Fatalf("Get(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestBufferedByteSourceScrollBack(t *testing.T) {
	data := []byte("01234567890123456789")
	src := NewBufferedByteSource(bytes.NewReader(data), 8, 4)

	// Advance the window forward past the first two blocks.
	for i := 0; i < 12; i++ {
		src.Get(int64(i), HardAhead)
	}

	// Scroll back within one block of the current window start.
	if got := src.Get(2, HardAhead); got != int(data[2]) {
		t.Fatalf("Get(2) after scroll-back = %d, want %d", got, data[2])
	}
	if got := src.Get(3, HardAhead); got != int(data[3]) {
		t.Fatalf("Get(3) after scroll-back = %d, want %d", got, data[3])
	}
}

func TestBufferedByteSourceSoftEOB(t *testing.T) {
	data := []byte("0123456789ABCDEF")
	src := NewBufferedByteSource(bytes.NewReader(data), 8, 4)

	src.Get(0, HardAhead) // resident window now [0,4)

	// A position well beyond the appendable block is a soft miss.
	if got := src.Get(15, SoftAhead); got != EOB {
		t.Fatalf("Get(15, SoftAhead) = %d, want EOB", got)
	}
	// The same position in hard mode must actually resolve the byte.
	if got := src.Get(15, HardAhead); got != int(data[15]) {
		t.Fatalf("Get(15, HardAhead) = %d, want %d", got, data[15])
	}
}

func TestBufferedByteSourceEOF(t *testing.T) {
	data := []byte("abcdef")
	src := NewBufferedByteSource(bytes.NewReader(data), 8, 4)

	for i, want := range data {
		if got := src.Get(int64(i), HardAhead); got != int(want) {
			t.Fatalf("Get(%d) = %d, want %d", i, got, want)
		}
	}
	if got := src.Get(int64(len(data)), HardAhead); got != EOF {
		t.Fatalf("Get(len) = %d, want EOF", got)
	}
	if got := src.Get(1000, HardAhead); got != EOF {
		t.Fatalf("Get(1000) = %d, want EOF", got)
	}
}

func TestBufferedByteSourceSeekCount(t *testing.T) {
	data := []byte("0123456789ABCDEF")
	src := NewBufferedByteSource(bytes.NewReader(data), 8, 4)

	src.Get(0, HardAhead)
	src.Get(4, HardAhead)
	src.Get(8, HardAhead)

	// Sequential forward reads never require re-seeking the stream.
	if src.SeekCount() != 0 {
		t.Fatalf("SeekCount after sequential reads = %d, want 0", src.SeekCount())
	}

	src.Get(5, HardAhead) // already resident (window is [4,12)), no I/O at all
	if src.SeekCount() != 0 {
		t.Fatalf("SeekCount after a resident hit = %d, want 0", src.SeekCount())
	}

	src.Get(2, HardAhead) // forces a non-contiguous scroll-back read
	if src.SeekCount() != 1 {
		t.Fatalf("SeekCount after a scroll-back read = %d, want 1", src.SeekCount())
	}
}

// TestBufferedByteSourceResetFarBackward reproduces the stream-then-rewind
// pattern a diff drives on ORIGINAL: stream the whole source forward to EOF
// first (as prescan() or a long leading equal run does), leaving the window parked at the
// tail, then jump back to position 0 — far outside scroll-back range, which
// only covers one blockSize behind winStart. This must land in readBlock's
// reset path and fully re-establish the window there rather than leaving a
// stale, inverted [winStart, winEnd) that never contains position 0.
func TestBufferedByteSourceResetFarBackward(t *testing.T) {
	data := []byte("0123456789ABCDEFGHIJ")
	src := NewBufferedByteSource(bytes.NewReader(data), 8, 4)

	for i := 0; i < len(data); i++ {
		src.Get(int64(i), HardAhead)
	}
	if got := src.Get(int64(len(data)), HardAhead); got != EOF {
		t.Fatalf("Get(len) after streaming forward = %d, want EOF", got)
	}

	if got := src.Get(0, HardAhead); got != int(data[0]) {
		t.Fatalf("Get(0) after far-backward reset = %d, want %d", got, data[0])
	}
	for i, want := range data {
		if got := src.Get(int64(i), HardAhead); got != int(want) {
			t.Fatalf("Get(%d) after far-backward reset = %d, want %d", i, got, want)
		}
	}
}
