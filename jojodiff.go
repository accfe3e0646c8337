// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Diff compares original against new and writes the resulting patch stream
// to patch. A nil opts is equivalent to DefaultOptions(). A nil log
// disables tracing.
func Diff(original, new io.ReadSeeker, patch io.Writer, opts *Options, log logrus.FieldLogger) (Stats, error) {
	opts = opts.withDefaults()

	orgSrc := acquireBufferedByteSource(original, opts.BufferSize, opts.BlockSize)
	newSrc := acquireBufferedByteSource(new, opts.BufferSize, opts.BlockSize)
	defer releaseBufferedByteSource(orgSrc)
	defer releaseBufferedByteSource(newSrc)

	enc := NewPatchEncoder(patch)
	engine := NewDiffEngine(orgSrc, newSrc, enc, opts, log)
	return engine.Run(context.Background())
}

// DiffContext is Diff with an explicit context, checked once per outer loop
// iteration so a caller can cancel a long-running diff between look-ahead
// calls.
func DiffContext(ctx context.Context, original, new io.ReadSeeker, patch io.Writer, opts *Options, log logrus.FieldLogger) (Stats, error) {
	opts = opts.withDefaults()

	orgSrc := acquireBufferedByteSource(original, opts.BufferSize, opts.BlockSize)
	newSrc := acquireBufferedByteSource(new, opts.BufferSize, opts.BlockSize)
	defer releaseBufferedByteSource(orgSrc)
	defer releaseBufferedByteSource(newSrc)

	enc := NewPatchEncoder(patch)
	engine := NewDiffEngine(orgSrc, newSrc, enc, opts, log)
	return engine.Run(ctx)
}

// Apply reconstructs NEW by decoding patch against original, writing the
// result to output.
func Apply(original io.ReadSeeker, patch io.Reader, output io.Writer) (Stats, error) {
	return NewPatchApplier().Apply(original, patch, output)
}
