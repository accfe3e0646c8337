// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

/*
Package jojodiff implements a heuristic binary differ and patcher.

Given an ORIGINAL and a NEW file, Diff produces a compact PATCH stream
describing how to reconstruct NEW from ORIGINAL: a sequence of copy
(EQL), insert (INS), modify (MOD), delete (DEL) and backtrack (BKT)
operators. Apply reverses the process, reconstructing NEW from
ORIGINAL and a PATCH stream.

The matcher is a rolling-hash sampler over 32-byte windows of ORIGINAL
combined with a small working set of candidate matches (MatchTable);
it is not guaranteed to find the minimal edit script, but runs in
bounded memory and streams both inputs, which makes it suitable for
multi-gigabyte files.

# Diff

	stats, err := jojodiff.Diff(original, new, patchWriter, jojodiff.DefaultOptions(), nil)

original and new must be io.ReadSeeker (random access is required for
look-ahead and look-back); patchWriter is any io.Writer.

# Apply

	stats, err := jojodiff.Apply(original, patchReader, outputWriter)

Non-goals: minimality of the edit script, cryptographic integrity,
compression of the data bytes themselves, and compatibility with any
other tool's delta format.
*/
package jojodiff
