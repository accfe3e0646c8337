// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// applyBlockSize is the chunk size used when copying EQL runs from ORIGINAL
// to OUTPUT.
const applyBlockSize = 4096

// PatchApplier is a streaming decoder: it reads an operator stream produced
// by PatchEncoder and reconstructs NEW by copying/modifying bytes from
// ORIGINAL into output. Because io.Writer has no atomic-replace notion, the
// CLI layer (not PatchApplier) is responsible for the output file actually
// landing atomically; the applier only ever appends to the Writer it's given.
type PatchApplier struct {
	buf [applyBlockSize]byte
}

// NewPatchApplier returns a ready-to-use PatchApplier.
func NewPatchApplier() *PatchApplier { return &PatchApplier{} }

// Apply decodes patch against original, writing the reconstructed bytes to
// output.
func (a *PatchApplier) Apply(original io.ReadSeeker, patch io.Reader, output io.Writer) (Stats, error) {
	var stats Stats

	r := bufio.NewReader(patch)
	pos := int64(0)
	modSkip := int64(0)

	op, err := readOp(r)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		return stats, err
	}

	for {
		switch op {
		case opMOD, opINS:
			nextOp, n, err := a.applyData(r, output, op == opMOD, &stats)
			if op == opMOD {
				stats.ModRuns++
			} else {
				stats.InsRuns++
			}
			modSkip += n
			if err != nil {
				if errors.Is(err, io.EOF) {
					return stats, nil
				}
				return stats, err
			}
			op = nextOp

		case opDEL:
			n, err := getVarint(r)
			if err != nil {
				return stats, fmt.Errorf("reading DEL length: %w: %w", ErrBadPatch, err)
			}
			pos += n + modSkip
			modSkip = 0
			if _, err := original.Seek(pos, io.SeekStart); err != nil {
				return stats, fmt.Errorf("seeking original at DEL: %w", ErrSeek)
			}
			stats.DelBytes += n
			stats.DelRuns++

			op, err = readOp(r)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return stats, nil
				}
				return stats, err
			}

		case opBKT:
			n, err := getVarint(r)
			if err != nil {
				return stats, fmt.Errorf("reading BKT length: %w: %w", ErrBadPatch, err)
			}
			pos += modSkip - n
			modSkip = 0
			if pos < 0 {
				return stats, ErrLookBehindUnderrun
			}
			if _, err := original.Seek(pos, io.SeekStart); err != nil {
				return stats, fmt.Errorf("seeking original at BKT: %w", ErrSeek)
			}
			stats.BktBytes += n
			stats.BktRuns++

			op, err = readOp(r)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return stats, nil
				}
				return stats, err
			}

		case opEQL:
			n, err := getVarint(r)
			if err != nil {
				return stats, fmt.Errorf("reading EQL length: %w: %w", ErrBadPatch, err)
			}
			if modSkip != 0 {
				pos += modSkip
				modSkip = 0
				if _, err := original.Seek(pos, io.SeekStart); err != nil {
					return stats, fmt.Errorf("seeking original at EQL: %w", ErrSeek)
				}
			}
			if err := a.copyBlocks(output, original, n); err != nil {
				return stats, fmt.Errorf("copying EQL run from original: %w", ErrRead)
			}
			pos += n
			stats.EqlBytes += n
			stats.EqlRuns++
			stats.BytesOrg += n
			stats.BytesNew += n

			op, err = readOp(r)
			if err != nil {
				if errors.Is(err, io.EOF) {
					return stats, nil
				}
				return stats, err
			}

		default:
			return stats, fmt.Errorf("unknown operator %#x: %w", byte(op), ErrBadPatch)
		}
	}
}

// readOp reads one ESC <op> marker from r. A clean io.EOF on the first byte
// means the patch has no more operators; any other failure is a truncated
// stream.
func readOp(r *bufio.Reader) (Op, error) {
	b1, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	if b1 != byte(opESC) {
		return 0, fmt.Errorf("expected operator marker, got %#x: %w", b1, ErrBadPatch)
	}

	b2, err := r.ReadByte()
	if err != nil {
		return 0, fmt.Errorf("truncated operator marker: %w", ErrBadPatch)
	}
	return Op(b2), nil
}

// applyData streams MOD/INS data bytes to output until the next ESC <op>
// marker, returning that operator (already consumed from r) and the number
// of ORIGINAL bytes now owed as deferred skip (one per MOD byte, zero per
// INS byte). A data run has no explicit terminator of its own: reaching a
// clean io.EOF while looking for the next raw byte means this run closes
// the whole patch (the common case of a diff ending in a MOD/INS tail).
func (a *PatchApplier) applyData(r *bufio.Reader, output io.Writer, isMod bool, stats *Stats) (Op, int64, error) {
	var owed int64

	for {
		b, err := r.ReadByte()
		if err != nil {
			return 0, owed, err
		}

		if b == byte(opESC) {
			b2, err := r.ReadByte()
			if err != nil {
				return 0, owed, fmt.Errorf("truncated escape sequence: %w", ErrBadPatch)
			}
			if b2 != byte(opESC) {
				return Op(b2), owed, nil
			}
			b = b2 // literal escaped ESC byte
		}

		if _, err := output.Write([]byte{b}); err != nil {
			return 0, owed, fmt.Errorf("writing output: %w", ErrWrite)
		}
		stats.BytesNew++
		if isMod {
			stats.ModBytes++
			owed++
		} else {
			stats.InsBytes++
		}
	}
}

// copyBlocks copies exactly n bytes from src to dst, applyBlockSize at a time.
func (a *PatchApplier) copyBlocks(dst io.Writer, src io.Reader, n int64) error {
	for n > 0 {
		want := int64(len(a.buf))
		if want > n {
			want = n
		}
		if _, err := io.ReadFull(src, a.buf[:want]); err != nil {
			return err
		}
		if _, err := dst.Write(a.buf[:want]); err != nil {
			return err
		}
		n -= want
	}
	return nil
}
