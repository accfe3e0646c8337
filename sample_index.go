// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

// SampleIndex is an open-addressed, single-probe table mapping a 32-bit
// sample hash to the position in ORIGINAL where that sample was last seen.
// It is a lossy, uniformly-distributed sampler, not a faithful inverted
// index: collisions silently overwrite per a throttled insertion policy, and
// verification of any hit is delegated to MatchTable.check.
//
// Two parallel slices rather than a slice of structs, mirroring the
// teacher's flat, contiguous two-array alignment trick.
// A slot with key == 0 and position == 0 is empty; position 0 of ORIGINAL
// is consequently never indexed (acceptable loss, per the same convention
// the original format uses).
type SampleIndex struct {
	keys []uint32
	pos  []int64
	size int

	loadCnt int
	colCnt  int
	colThr  int
	rel     int
}

// NewSampleIndex builds a SampleIndex whose table size is the largest prime
// at or below requested from the fixed descending prime list.
func NewSampleIndex(requested int) *SampleIndex {
	size := primeCapacity(requested)

	return &SampleIndex{
		keys:   make([]uint32, size),
		pos:    make([]int64, size),
		size:   size,
		colThr: 4,
		rel:    48,
	}
}

// primeCapacity returns the largest entry of sampleIndexPrimes at or below
// requested, or the smallest entry if requested is smaller than all of them.
func primeCapacity(requested int) int {
	best := sampleIndexPrimes[len(sampleIndexPrimes)-1]
	for _, p := range sampleIndexPrimes {
		if p <= requested {
			return p
		}
		best = p
	}
	return best
}

// Add records key → position, subject to the collision-throttled insertion
// policy: the busier the table gets, the more collisions are required
// before a new sample is allowed to evict an old one, so that insertion
// rate falls off roughly as the table fills and sampling stays
// approximately uniform across inputs of any size.
func (s *SampleIndex) Add(key uint32, position int64, eqlCnt int) {
	s.loadCnt++
	if s.loadCnt >= s.size {
		s.loadCnt = 0
		s.colThr += 4
		s.rel += 4
	}

	if eqlCnt <= smpSze-4 {
		s.colCnt += 4
	} else {
		s.colCnt++
	}

	if s.colCnt < s.colThr {
		return
	}
	s.colCnt = 0

	if position == 0 {
		// Indistinguishable from an empty slot; dropping it is cheaper
		// than a dedicated sentinel.
		return
	}

	slot := int(key) % s.size
	s.keys[slot] = key
	s.pos[slot] = position
}

// Get returns the position stored for key, and whether it was present. A
// single probe: no chaining, so a hit only means the hash matched, not that
// the underlying bytes do.
func (s *SampleIndex) Get(key uint32) (int64, bool) {
	slot := int(key) % s.size
	if s.pos[slot] == 0 && s.keys[slot] == 0 {
		return 0, false
	}
	if s.keys[slot] != key {
		return 0, false
	}
	return s.pos[slot], true
}

// Reliability returns the current reliability value, used by DiffEngine as
// a look-back and verification distance: it grows as more of the table
// fills, reflecting that a denser table makes any single hit less trustworthy.
func (s *SampleIndex) Reliability() int { return s.rel }
