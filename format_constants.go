// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

// Patch stream format constants and matcher sizing parameters.

// Op identifies an operator in the patch stream.
type Op byte

// Operator byte markers. ESC introduces a new section; the others identify
// which kind of section follows.
const (
	opESC Op = 0xA7
	opMOD Op = 0xA6
	opINS Op = 0xA5
	opDEL Op = 0xA4
	opEQL Op = 0xA3
	opBKT Op = 0xA2
)

// Sample/matcher sizing.
const (
	smpSze = 32  // sample window size, in bytes
	mchPme = 127 // match-table bucket count (prime)
	mchMax = 256 // maximum number of live match records
)

// sampleIndexPrimes is the fixed descending prime list used to size the
// sample index: the largest prime at or below the requested capacity is
// chosen, so that key-mod-P addressing stays a single array lookup.
var sampleIndexPrimes = [20]int{
	134217689, 67108859, 33554393, 16777213,
	8388593, 4194301, 2097143, 1048573,
	524287, 262139, 131071, 65521,
	32749, 16381, 8191, 4093,
	2039, 1021, 509, 251,
}
