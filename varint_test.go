package jojodiff

import (
	"bytes"
	"testing"
)

func TestVarintRoundTrip(t *testing.T) {
	lengths := []int64{
		1, 2, 100, 252,
		253, 300, 508,
		509, 1000, 65535,
		65536, 1 << 20, 1<<32 - 1,
		1 << 32, 1 << 40,
	}

	for _, l := range lengths {
		var buf bytes.Buffer
		if err := putVarint(&buf, l); err != nil {
			t.Fatalf("putVarint(%d): %v", l, err)
		}

		got, err := getVarint(&buf)
		if err != nil {
			t.Fatalf("getVarint after putVarint(%d): %v", l, err)
		}
		if got != l {
			t.Fatalf("round trip %d -> %d", l, got)
		}
		if buf.Len() != 0 {
			t.Fatalf("putVarint(%d) left %d trailing bytes", l, buf.Len())
		}
	}
}

func TestVarintWidths(t *testing.T) {
	cases := []struct {
		length   int64
		wantSize int
	}{
		{1, 1},
		{252, 1},
		{253, 2},
		{508, 2},
		{509, 3},
		{65535, 3},
		{65536, 5},
		{1<<32 - 1, 5},
		{1 << 32, 9},
	}

	for _, c := range cases {
		var buf bytes.Buffer
		if err := putVarint(&buf, c.length); err != nil {
			t.Fatalf("putVarint(%d): %v", c.length, err)
		}
		if buf.Len() != c.wantSize {
			t.Fatalf("putVarint(%d) wrote %d bytes, want %d", c.length, buf.Len(), c.wantSize)
		}
	}
}
