// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

// rollingHash is a 32-bit incremental hash over a sliding smpSze-byte
// window. The zero value is a valid starting state; callers must feed
// smpSze-1 bytes before treating the result as a valid sample key (after
// smpSze bytes, the lowest bit of the newest byte still influences the
// top bit of the hash, so the window is effectively smpSze bytes wide).
type rollingHash uint32

// update folds one more byte into the hash. Wraps on overflow by design
// (mod 2^32 via uint32 arithmetic).
func (h rollingHash) update(b int) rollingHash {
	return h*2 + rollingHash(b)
}

// lookahead bundles the rolling hash, the last byte read, the run-length
// "equality counter" used to flag low-quality (repetitive) samples, and the
// next position to read. It is the Go shape of the mutable (hash, val,
// eqlCnt, pos) quadruple threaded through the original's ufFndAhdGet by
// pointer parameters.
type lookahead struct {
	hash   rollingHash
	val    int // last byte value read, or a negative sentinel (EOF/EOB)
	eqlCnt int
	pos    int64
}

// advance reads the next byte from src at pos (via mode), updates eqlCnt
// (incremented, capped at smpSze, when the new byte equals the previous one;
// decremented by two, floored at 0, otherwise), advances pos, and returns the
// byte read (or a negative sentinel). It does not fold the byte into hash;
// callers call hash.update explicitly once they've decided the byte is real
// data, mirroring the original's separate hash() and ufFndAhdGet() calls.
func (l *lookahead) advance(src ByteSource, mode ReadMode) int {
	prev := l.val
	v := src.Get(l.pos, mode)
	l.pos++
	l.val = v

	if v != prev {
		if l.eqlCnt > 0 {
			l.eqlCnt -= 2
			if l.eqlCnt < 0 {
				l.eqlCnt = 0
			}
		}
	} else if l.eqlCnt < smpSze {
		l.eqlCnt++
	}

	return v
}
