// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

// Options configures Diff. A nil *Options is equivalent to DefaultOptions().
type Options struct {
	// HashCapacity is the requested sample-index capacity; it is rounded down
	// to the largest prime at or below this value from a fixed list.
	HashCapacity int
	// BufferSize is the per-file look-ahead/look-back buffer size, in bytes.
	BufferSize int
	// BlockSize is the physical read block size, in bytes.
	BlockSize int
	// MatchMin is the number of hits to gather in a look-ahead before the
	// remaining budget is shrunk to the index's reliability range.
	MatchMin int
	// MatchMax is the number of hits after which a look-ahead stops early.
	// Clamped to MCH_MAX (256).
	MatchMax int
	// AheadMax is the number of bytes to scan per look-ahead call.
	AheadMax int
	// AllowBacktrack enables BKT emission (seeking the original cursor
	// backward). If false, matches behind the current read position are
	// never selected.
	AllowBacktrack bool
	// Prescan fully indexes ORIGINAL before the first look-ahead, instead of
	// indexing it incrementally as NEW is scanned.
	Prescan bool
	// CompareAll makes match verification use hard (blocking) reads; if
	// false, verification uses soft reads and may occasionally miss a
	// candidate that a hard read would have confirmed.
	CompareAll bool
}

// DefaultOptions returns the tunables used when Diff is called with nil
// options: a 1M-entry hash table, 256 KiB look-ahead buffers read in 4 KiB
// blocks, prescan and backtrack enabled, and full (hard-read) verification.
func DefaultOptions() *Options {
	return &Options{
		HashCapacity:   1 << 20,
		BufferSize:     256 * 1024,
		BlockSize:      4096,
		MatchMin:       4,
		MatchMax:       8,
		AheadMax:       256 * 1024,
		AllowBacktrack: true,
		Prescan:        true,
		CompareAll:     true,
	}
}

// withDefaults returns o, or a fresh DefaultOptions() if o is nil. Numeric
// fields left at their zero value fall back to the default; boolean fields
// are taken as given (a caller-supplied Options is never partially
// defaulted for booleans, since false is a meaningful value).
func (o *Options) withDefaults() *Options {
	if o == nil {
		return DefaultOptions()
	}

	d := DefaultOptions()
	merged := *o
	if merged.HashCapacity <= 0 {
		merged.HashCapacity = d.HashCapacity
	}
	if merged.BufferSize <= 0 {
		merged.BufferSize = d.BufferSize
	}
	if merged.BlockSize <= 0 {
		merged.BlockSize = d.BlockSize
	}
	if merged.MatchMin <= 0 {
		merged.MatchMin = d.MatchMin
	}
	if merged.MatchMax <= 0 {
		merged.MatchMax = d.MatchMax
	}
	if merged.MatchMax > mchMax {
		merged.MatchMax = mchMax
	}
	if merged.AheadMax <= 0 {
		merged.AheadMax = d.AheadMax
	}
	if merged.AheadMax < 1024 {
		merged.AheadMax = 1024
	}

	return &merged
}
