// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

// matchKind classifies how a Match record's run has been observed growing.
type matchKind int

const (
	matchUnknown matchKind = iota
	matchColliding
	matchGliding
)

// matchRecord is one candidate equal region: NEW positions [firstNewPos,
// lastNewPos] align with ORIGINAL at a constant delta = orgPos - newPos.
// next threads both the owning bucket's chain (while live) and the free
// list (while unallocated) — the same field reused for both purposes, as
// in the original's single ipNxt link.
type matchRecord struct {
	next        uint16
	kind        matchKind
	hitCount    int
	delta       int64
	firstNewPos int64
	lastNewPos  int64
	lastOrgPos  int64
}

// addResult reports the outcome of MatchTable.Add.
type addResult int

const (
	addFull addResult = iota
	addAdded
	addEnlarged
)

// checkStatus is the outcome of MatchTable.check.
type checkStatus int

const (
	checkEqual checkStatus = iota
	checkSoftEOB
	checkUnequal
)

// MatchTable is a bounded arena of at most mchMax candidate matches, bucketed
// by delta mod mchPme, plus a free list and a single pending "gliding
// candidate" used to detect runs where delta decreases by one on every
// successive hit (a region that tracks ORIGINAL byte for byte at a shifting
// offset). Addressed by 1-based small integer indices; index 0 means nil,
// mirroring JMatchTable's pointer/free-list structure without raw pointers.
type MatchTable struct {
	records [mchMax + 1]matchRecord
	buckets [mchPme]uint16
	free    uint16

	glidingIdx   uint16
	glidingDelta int64
}

// NewMatchTable returns an empty MatchTable with all records on the free list.
func NewMatchTable() *MatchTable {
	t := &MatchTable{free: 1}
	for i := 1; i < mchMax; i++ {
		t.records[i].next = uint16(i + 1)
	}
	return t
}

func deltaBucket(delta int64) int {
	if delta < 0 {
		delta = -delta
	}
	return int(delta % mchPme)
}

// Add records a hit of ORIGINAL position orgPos aligning with NEW position
// newPos, where baseNew is the position the enclosing look-ahead scan
// started from (used as firstNewPos for a newly allocated record, so a
// later Get's probe-position math anchors to the scan's start rather than
// wherever the hit happened to land).
func (t *MatchTable) Add(orgPos, newPos, baseNew int64) addResult {
	delta := orgPos - newPos

	if t.glidingIdx != 0 && delta == t.glidingDelta {
		r := &t.records[t.glidingIdx]
		r.kind = matchGliding
		r.hitCount++
		r.lastNewPos = newPos
		r.lastOrgPos = orgPos
		t.glidingDelta--
		return addEnlarged
	}
	t.glidingIdx = 0

	bucket := deltaBucket(delta)
	for i := t.buckets[bucket]; i != 0; i = t.records[i].next {
		r := &t.records[i]
		if r.delta == delta {
			r.hitCount++
			r.kind = matchColliding
			r.lastNewPos = newPos
			r.lastOrgPos = orgPos
			return addEnlarged
		}
	}

	if t.free == 0 {
		return addFull
	}
	idx := t.free
	t.free = t.records[idx].next

	t.records[idx] = matchRecord{
		next:        t.buckets[bucket],
		kind:        matchUnknown,
		hitCount:    1,
		delta:       delta,
		firstNewPos: baseNew,
		lastNewPos:  newPos,
		lastOrgPos:  orgPos,
	}
	t.buckets[bucket] = idx

	t.glidingIdx = idx
	t.glidingDelta = delta - 1

	if t.free == 0 {
		return addFull
	}
	return addAdded
}

// Cleanup removes every record with zero hit count or whose last hit fell
// behind minNewPos, and reports whether any record is free afterward.
func (t *MatchTable) Cleanup(minNewPos int64) bool {
	for b := range t.buckets {
		prev := uint16(0)
		cur := t.buckets[b]
		for cur != 0 {
			r := &t.records[cur]
			next := r.next
			if r.hitCount == 0 || r.lastNewPos < minNewPos {
				if prev == 0 {
					t.buckets[b] = next
				} else {
					t.records[prev].next = next
				}
				if t.glidingIdx == cur {
					t.glidingIdx = 0
				}
				*r = matchRecord{next: t.free}
				t.free = cur
			} else {
				prev = cur
			}
			cur = next
		}
	}
	return t.free != 0
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// Get selects the best live candidate for resuming the diff from around
// readOrgPos/readNewPos, verifying each surviving candidate with a
// byte-for-byte check before trusting it.
func (t *MatchTable) Get(orgSrc, newSrc ByteSource, readOrgPos, readNewPos int64, reliability int, soft bool) (bestOrg, bestNew int64, found bool) {
	const fuzz = 0

	bestTestNew := int64(-1)
	bestHits := 0
	bestTrusted := false // true only for an exact "equal" verification, never a soft-EOB-trusted one

	for b := range t.buckets {
		for i := t.buckets[b]; i != 0; i = t.records[i].next {
			r := &t.records[i]
			if r.lastNewPos+int64(reliability) < readNewPos {
				continue
			}

			testNew := r.firstNewPos - int64(reliability)
			if testNew < readNewPos {
				testNew = readNewPos
			}
			dist := r.firstNewPos - testNew
			if int64(reliability) > dist {
				dist = int64(reliability)
			}

			testOrg := testNew + r.delta
			if testOrg < 0 {
				testNew -= testOrg
				testOrg = 0
			}
			if r.kind == matchGliding && testNew >= r.firstNewPos && testNew <= r.lastNewPos {
				testOrg = r.lastOrgPos
			}

			adjOrg, adjNew, status := t.check(orgSrc, newSrc, testOrg, testNew, dist, soft)

			trusted := false
			switch status {
			case checkEqual:
				trusted = true
			case checkSoftEOB:
				if r.hitCount >= 2 {
					trusted = true
				}
			case checkUnequal:
				r.hitCount--
			}
			if !trusted {
				continue
			}

			exact := status == checkEqual
			better := false
			switch {
			case bestTestNew < 0:
				better = true
			case adjNew+fuzz < bestTestNew:
				better = true
			case abs64(adjNew-bestTestNew) <= fuzz:
				if r.hitCount > bestHits || (r.hitCount == bestHits && exact && !bestTrusted) {
					better = true
				}
			}
			if better {
				bestOrg, bestNew = adjOrg, adjNew
				bestTestNew = adjNew
				bestHits = r.hitCount
				bestTrusted = exact
				found = true
			}
		}
	}

	return bestOrg, bestNew, found
}

// check compares org/new pairwise for up to length bytes, looking for a
// streak of smpSze-8 consecutive equal bytes. On success it rewinds both
// positions by the streak length, returning the start of the run.
func (t *MatchTable) check(orgSrc, newSrc ByteSource, org, newPos, length int64, soft bool) (adjOrg, adjNew int64, status checkStatus) {
	const target = smpSze - 8

	mode := HardAhead
	if soft {
		mode = SoftAhead
	}

	streak := int64(0)
	for i := int64(0); i < length; i++ {
		ob := orgSrc.Get(org+i, mode)
		nb := newSrc.Get(newPos+i, mode)

		if ob == EOB || nb == EOB {
			return org, newPos, checkSoftEOB
		}
		if ob == EOF || nb == EOF {
			return org, newPos, checkUnequal
		}

		if ob == nb {
			streak++
			if streak == target {
				start := i + 1 - streak
				return org + start, newPos + start, checkEqual
			}
		} else {
			streak = 0
		}
	}

	return org, newPos, checkUnequal
}
