// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import "io"

// PatchEncoder turns a DiffEngine's operator callbacks into the binary
// patch stream (§6.1 of the format). Holds pending-EQL state so short equal
// runs sandwiched between two MOD runs can be folded into the surrounding
// MOD data instead of costing a whole ESC EQL <len> section.
type PatchEncoder struct {
	w io.Writer
	err error

	curOp Op // data section currently open for writeDataByte; 0 = none

	eqlPending int64
	eqlBuf     [4]byte
	prevDataOp Op // last data op actually emitted before the current EQL run
}

// NewPatchEncoder returns a PatchEncoder writing to w.
func NewPatchEncoder(w io.Writer) *PatchEncoder {
	return &PatchEncoder{w: w}
}

// Err returns the first write failure encountered, if any.
func (e *PatchEncoder) Err() error { return e.err }

// Put records one unit of output: a single data byte for opMOD/opINS/opEQL,
// or a run length for opDEL/opBKT. posOrg/posNew are accepted for parity
// with the engine's call site (Stats bookkeeping happens there) and are not
// otherwise used by the wire encoding. Returns whether the engine may keep
// accumulating into the same call shape (always true for opEQL, meaning
// "send me the next equal byte too"; false once Err() is non-nil).
func (e *PatchEncoder) Put(op Op, length int64, orgByte, newByte int, posOrg, posNew int64) bool {
	if e.err != nil {
		return false
	}

	switch op {
	case opEQL:
		if e.eqlPending < int64(len(e.eqlBuf)) {
			e.eqlBuf[e.eqlPending] = byte(newByte)
		}
		e.eqlPending++
		return true

	case opMOD, opINS:
		if err := e.flushEQL(op); err != nil {
			e.err = err
			return false
		}
		if err := e.writeDataByte(op, byte(newByte)); err != nil {
			e.err = err
			return false
		}
		e.prevDataOp = op
		return true

	case opDEL, opBKT:
		if err := e.flushEQL(op); err != nil {
			e.err = err
			return false
		}
		if err := e.writeSkip(op, length); err != nil {
			e.err = err
			return false
		}
		e.prevDataOp = 0
		return true
	}

	return false
}

// Finish flushes any pending EQL run. The stream carries no explicit
// terminator: PatchApplier treats a clean io.EOF where it next expects an
// operator, or the next byte of a trailing MOD/INS run, as the end of the
// patch.
func (e *PatchEncoder) Finish() error {
	if e.err != nil {
		return e.err
	}
	return e.flushEQL(0)
}

// flushEQL writes out any accumulated equal run before nextOp starts. A run
// of at most 4 bytes, sandwiched between MOD data on both sides, is folded
// into nextOp's MOD data instead of its own ESC EQL section.
func (e *PatchEncoder) flushEQL(nextOp Op) error {
	if e.eqlPending == 0 {
		return nil
	}

	if e.eqlPending <= int64(len(e.eqlBuf)) && e.prevDataOp == opMOD && nextOp == opMOD {
		for i := int64(0); i < e.eqlPending; i++ {
			if err := e.writeDataByte(opMOD, e.eqlBuf[i]); err != nil {
				return err
			}
		}
		e.eqlPending = 0
		return nil
	}

	e.curOp = 0 // force a fresh ESC before whatever data section follows
	if _, err := e.w.Write([]byte{byte(opESC), byte(opEQL)}); err != nil {
		return err
	}
	if err := putVarint(e.w, e.eqlPending); err != nil {
		return err
	}
	e.eqlPending = 0
	return nil
}

func (e *PatchEncoder) writeDataByte(op Op, b byte) error {
	if e.curOp != op {
		if _, err := e.w.Write([]byte{byte(opESC), byte(op)}); err != nil {
			return err
		}
		e.curOp = op
	}
	if b == byte(opESC) {
		_, err := e.w.Write([]byte{b, b})
		return err
	}
	_, err := e.w.Write([]byte{b})
	return err
}

func (e *PatchEncoder) writeSkip(op Op, length int64) error {
	if _, err := e.w.Write([]byte{byte(opESC), byte(op)}); err != nil {
		return err
	}
	e.curOp = 0
	return putVarint(e.w, length)
}
