package jojodiff

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// opCounts is the subset of Stats that must agree between the producing
// Diff call and the consuming Apply call: every byte/run the encoder wrote
// into the patch stream must come back out exactly as written.
type opCounts struct {
	EqlBytes, ModBytes, InsBytes, DelBytes, BktBytes int64
}

func toOpCounts(s Stats) opCounts {
	return opCounts{s.EqlBytes, s.ModBytes, s.InsBytes, s.DelBytes, s.BktBytes}
}

func roundTrip(t *testing.T, original, new []byte) (Stats, Stats) {
	t.Helper()

	opts := &Options{
		HashCapacity:   251,
		BufferSize:     64,
		BlockSize:      16,
		MatchMin:       4,
		MatchMax:       8,
		AheadMax:       1024,
		AllowBacktrack: true,
		Prescan:        true,
		CompareAll:     true,
	}

	var patch bytes.Buffer
	diffStats, err := Diff(bytes.NewReader(original), bytes.NewReader(new), &patch, opts, nil)
	if err != nil {
		t.Fatalf("Diff: %v", err)
	}

	var out bytes.Buffer
	applyStats, err := Apply(bytes.NewReader(original), &patch, &out)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if !bytes.Equal(out.Bytes(), new) {
		t.Fatalf("round trip mismatch:\n got  %q\n want %q", out.Bytes(), new)
	}

	if diff := cmp.Diff(toOpCounts(diffStats), toOpCounts(applyStats)); diff != "" {
		t.Fatalf("Diff/Apply operator counts diverge (-diff +apply):\n%s", diff)
	}

	return diffStats, applyStats
}

func TestDiffApplyIdentical(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, repeatedly and at length")
	roundTrip(t, data, data)
}

func TestDiffApplyAppend(t *testing.T) {
	original := []byte("the quick brown fox jumps over the lazy dog")
	new := append(append([]byte{}, original...), []byte(", and then some more text follows")...)
	roundTrip(t, original, new)
}

func TestDiffApplyPrepend(t *testing.T) {
	original := []byte("the quick brown fox jumps over the lazy dog")
	new := append([]byte("some text comes first, then: "), original...)
	roundTrip(t, original, new)
}

func TestDiffApplyMiddleEdit(t *testing.T) {
	original := []byte("AAAAAAAAAAAAAAAAAAAABBBBBBBBBBBBBBBBBBBBCCCCCCCCCCCCCCCCCCCC")
	new := []byte("AAAAAAAAAAAAAAAAAAAAxxxxxxxxxxCCCCCCCCCCCCCCCCCCCC")
	roundTrip(t, original, new)
}

func TestDiffApplyReorderedBlocks(t *testing.T) {
	// NEW repeats the start of ORIGINAL after a run of different content.
	// The repeated run is 26 bytes, shorter than one 32-byte sample, so the
	// look-ahead finds no index hit for it and it is carried as MOD data.
	original := []byte("0123456789abcdefghijklmnopqrstuvwxyz0123456789abcdefghijklmnopqrstuvwxyz")
	new := []byte("0123456789abcdefghijklmnopqrstuvwxyz----------0123456789abcdefghijklmnop")
	roundTrip(t, original, new)
}

func TestDiffApplyEmptyInputs(t *testing.T) {
	roundTrip(t, nil, nil)
}

func TestDiffApplyEmptyOriginal(t *testing.T) {
	roundTrip(t, nil, []byte("brand new content with no prior original bytes at all"))
}

func TestDiffApplyEmptyNew(t *testing.T) {
	roundTrip(t, []byte("everything here gets deleted in the new version"), nil)
}

func TestDiffApplyTotallyDifferent(t *testing.T) {
	original := []byte("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	new := []byte("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")
	roundTrip(t, original, new)
}

// TestDiffApplyExceedsBufferSize drives ORIGINAL well past BufferSize+BlockSize.
// The leading equal run leaves BufferedByteSource's window parked at the tail
// of the file; when the first look-ahead then runs prescan(), its rewind to
// position 0 forces readBlock's reset path, not the scroll-back path the
// other cases above stay within.
func TestDiffApplyExceedsBufferSize(t *testing.T) {
	block := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	original := bytes.Repeat(block, 10) // far larger than the 64-byte BufferSize
	new := append(append([]byte{}, original...), []byte("-tail-appended-after-a-reset")...)
	roundTrip(t, original, new)
}
