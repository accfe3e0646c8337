// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import "errors"

// Sentinel errors for Diff and Apply.
var (
	// ErrSeek is returned when positioning on an underlying file fails.
	ErrSeek = errors.New("seek failure")
	// ErrRead is returned when a read from an underlying file fails.
	ErrRead = errors.New("read failure")
	// ErrWrite is returned when a write to the output stream fails.
	ErrWrite = errors.New("write failure")
	// ErrAlloc is returned when allocating the sample index or match table fails.
	ErrAlloc = errors.New("allocation failure")
	// ErrOffsetTooLarge is returned when a patch stream encodes an offset too
	// large for this build (tag 255 without 64-bit support).
	ErrOffsetTooLarge = errors.New("64-bit offset unsupported by this build")
	// ErrBadPatch is returned when the patch stream is structurally invalid
	// (unexpected EOF inside an operator body, unknown operator, ...).
	ErrBadPatch = errors.New("malformed patch stream")
	// ErrLookBehindUnderrun is returned when a BKT or DEL operator would move
	// the original cursor before position 0.
	ErrLookBehindUnderrun = errors.New("patch seeks before start of original file")
)
