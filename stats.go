// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

// Stats accumulates byte and operator counters for a single Diff or Apply
// call, surfaced through the CLI's -v/-vv/-vvv verbosity levels.
type Stats struct {
	BytesOrg int64 // bytes read from ORIGINAL
	BytesNew int64 // bytes read from NEW (Diff) or written to OUTPUT (Apply)

	EqlBytes int64
	ModBytes int64
	InsBytes int64
	DelBytes int64
	BktBytes int64

	EqlRuns int64
	ModRuns int64
	InsRuns int64
	DelRuns int64
	BktRuns int64

	Seeks int64 // sum of ByteSource.SeekCount() across both inputs
}

// PatchBytes returns the total number of non-EQL, non-DEL/BKT-header bytes
// the patch stream carries as literal data (MOD + INS payload).
func (s Stats) PatchBytes() int64 { return s.ModBytes + s.InsBytes }
