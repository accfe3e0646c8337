package jojodiff

import (
	"bytes"
	"testing"
)

func TestMatchTableAddColliding(t *testing.T) {
	mt := NewMatchTable()

	if r := mt.Add(100, 10, 10); r != addAdded {
		t.Fatalf("first Add = %v, want addAdded", r)
	}
	// Same delta (100-10=90) at a later, non-contiguous new position: colliding.
	if r := mt.Add(200, 110, 10); r != addEnlarged {
		t.Fatalf("colliding Add = %v, want addEnlarged", r)
	}

	bucket := deltaBucket(90)
	idx := mt.buckets[bucket]
	if idx == 0 {
		t.Fatal("bucket empty after two adds")
	}
	if mt.records[idx].hitCount != 2 {
		t.Fatalf("hitCount = %d, want 2", mt.records[idx].hitCount)
	}
	if mt.records[idx].kind != matchColliding {
		t.Fatalf("kind = %v, want matchColliding", mt.records[idx].kind)
	}
}

func TestMatchTableAddGliding(t *testing.T) {
	mt := NewMatchTable()

	mt.Add(100, 10, 10) // delta 90, glidingDelta becomes 89
	if r := mt.Add(100, 11, 10); r != addEnlarged {
		t.Fatalf("gliding Add = %v, want addEnlarged", r)
	}

	bucket := deltaBucket(90)
	idx := mt.buckets[bucket]
	if mt.records[idx].kind != matchGliding {
		t.Fatalf("kind = %v, want matchGliding", mt.records[idx].kind)
	}
	if mt.records[idx].lastOrgPos != 100 {
		t.Fatalf("lastOrgPos = %d, want 100", mt.records[idx].lastOrgPos)
	}
}

func TestMatchTableFreeListExhaustion(t *testing.T) {
	mt := NewMatchTable()

	for i := 0; i < mchMax-1; i++ {
		// Distinct deltas (avoid the gliding-candidate path consuming a slot
		// without allocating) by spacing original positions far apart.
		if r := mt.Add(int64(i*1000), 0, 0); r == addFull {
			t.Fatalf("table reported full after only %d adds", i)
		}
	}

	// The add that takes the last free record empties the free list and
	// reports full.
	if r := mt.Add(int64((mchMax-1)*1000), 0, 0); r != addFull {
		t.Fatalf("Add taking the last free record = %v, want addFull", r)
	}

	if r := mt.Add(999999, 0, 0); r != addFull {
		t.Fatalf("Add on exhausted table = %v, want addFull", r)
	}
}

func TestMatchTableCleanupRemovesStale(t *testing.T) {
	mt := NewMatchTable()
	mt.Add(100, 10, 10)

	if hasSpace := mt.Cleanup(1000); !hasSpace {
		t.Fatal("Cleanup reported no space after removing the only record")
	}
	bucket := deltaBucket(90)
	if mt.buckets[bucket] != 0 {
		t.Fatal("stale record not unlinked from its bucket")
	}
}

func TestMatchTableCheck(t *testing.T) {
	mt := NewMatchTable()

	org := bytes.Repeat([]byte{0}, 100)
	new := bytes.Repeat([]byte{0}, 100)
	copy(org, []byte("0123456789abcdefghijklmnopqrstuvwxyzXXXXXXXXXXXXXXXXXXXXXXXXXXX"))
	copy(new, org)

	orgSrc := newDirectByteSource(bytes.NewReader(org), int64(len(org)))
	newSrc := newDirectByteSource(bytes.NewReader(new), int64(len(new)))

	_, _, status := mt.check(orgSrc, newSrc, 0, 0, 30, false)
	if status != checkEqual {
		t.Fatalf("check on identical bytes = %v, want checkEqual", status)
	}

	mismatched := bytes.Repeat([]byte{'Z'}, len(new))
	mismSrc := newDirectByteSource(bytes.NewReader(mismatched), int64(len(mismatched)))
	_, _, status = mt.check(orgSrc, mismSrc, 0, 0, 30, false)
	if status != checkUnequal {
		t.Fatalf("check with no matching streak = %v, want checkUnequal", status)
	}
}
