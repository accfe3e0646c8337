package jojodiff

import "testing"

func TestPrimeCapacity(t *testing.T) {
	cases := []struct {
		requested int
		want      int
	}{
		{1 << 20, 1048573},
		{251, 251},
		{100, 251},
		{1 << 30, 134217689},
	}

	for _, c := range cases {
		if got := primeCapacity(c.requested); got != c.want {
			t.Errorf("primeCapacity(%d) = %d, want %d", c.requested, got, c.want)
		}
	}
}

func TestSampleIndexAddGet(t *testing.T) {
	idx := NewSampleIndex(509)

	// colThr starts at 4; eqlCnt <= smpSze-4 adds 4 per call, so a single
	// high-quality sample crosses the threshold immediately.
	idx.Add(42, 1000, 0)

	got, ok := idx.Get(42)
	if !ok || got != 1000 {
		t.Fatalf("Get(42) = (%d, %v), want (1000, true)", got, ok)
	}

	if _, ok := idx.Get(99); ok {
		t.Fatalf("Get(99) found a value that was never added")
	}
}

func TestSampleIndexPositionZeroNeverStored(t *testing.T) {
	idx := NewSampleIndex(509)
	idx.Add(7, 0, 0)

	if _, ok := idx.Get(7); ok {
		t.Fatalf("position 0 should never be indexed")
	}
}

func TestSampleIndexLowQualitySamplesThrottled(t *testing.T) {
	idx := NewSampleIndex(509)

	// Low-quality samples (high eqlCnt) only add 1 to colCnt per call, so
	// colThr=4 requires four calls before the first store.
	for i := 0; i < 3; i++ {
		idx.Add(1, int64(i+1), smpSze)
		if _, ok := idx.Get(1); ok {
			t.Fatalf("stored after only %d low-quality adds", i+1)
		}
	}
	idx.Add(1, 4, smpSze)
	if _, ok := idx.Get(1); !ok {
		t.Fatalf("not stored after 4 low-quality adds")
	}
}
