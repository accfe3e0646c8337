// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// aheadKind distinguishes what findAhead decided the engine should do next.
type aheadKind int

const (
	aheadNone aheadKind = iota // no match found; just extend the trusted-ahead budget
	aheadDel                   // skip ORIGINAL forward
	aheadIns                   // emit a run of INS bytes (NEW ran ahead of ORIGINAL)
	aheadBkt                   // backtrack ORIGINAL
)

type aheadResult struct {
	kind             aheadKind
	skipOrg, skipNew int64
	ahead            int64
}

// DiffEngine drives the byte-compare / look-ahead loop (jdiff) that turns
// two ByteSources into a stream of operator callbacks through a
// PatchEncoder.
type DiffEngine struct {
	orgSrc, newSrc ByteSource
	opts           *Options
	index          *SampleIndex
	matches        *MatchTable
	enc            *PatchEncoder
	log            logrus.FieldLogger

	stats Stats

	readOrg, readNew int64
	lookOrg, lookNew lookahead

	ahead      int64
	prescanned bool
}

// NewDiffEngine builds a DiffEngine ready to diff orgSrc against newSrc,
// writing its operator stream through enc. A nil logger disables tracing.
func NewDiffEngine(orgSrc, newSrc ByteSource, enc *PatchEncoder, opts *Options, log logrus.FieldLogger) *DiffEngine {
	opts = opts.withDefaults()
	if log == nil {
		log = logrus.New()
	}

	return &DiffEngine{
		orgSrc:  orgSrc,
		newSrc:  newSrc,
		opts:    opts,
		index:   NewSampleIndex(opts.HashCapacity),
		matches: NewMatchTable(),
		enc:     enc,
		log:     log,
	}
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// Run executes the main loop until NEW is exhausted, returning accumulated
// Stats. ctx is checked once per outer iteration so a CLI-level Ctrl-C can
// interrupt a long diff between findAhead calls; the engine itself never
// spawns concurrent work.
func (e *DiffEngine) Run(ctx context.Context) (Stats, error) {
	for {
		select {
		case <-ctx.Done():
			return e.stats, ctx.Err()
		default:
		}

		ob := e.orgSrc.Get(e.readOrg, HardAhead)
		nb := e.newSrc.Get(e.readNew, HardAhead)
		e.stats.BytesOrg++
		e.stats.BytesNew++

		if nb == EOF {
			for _, src := range []ByteSource{e.orgSrc, e.newSrc} {
				if le, ok := src.(interface{ LastError() error }); ok && le.LastError() != nil {
					return e.stats, fmt.Errorf("reading input: %v: %w", le.LastError(), ErrRead)
				}
			}
			if err := e.enc.Finish(); err != nil {
				return e.stats, fmt.Errorf("flushing terminal section: %w", ErrWrite)
			}
			return e.finalStats(), nil
		}

		if ob == nb {
			e.enc.Put(opEQL, 1, ob, nb, e.readOrg, e.readNew)
			e.stats.EqlBytes++
			e.readOrg++
			e.readNew++
			if e.ahead > 0 {
				e.ahead--
			}
			continue
		}

		if e.ahead > 0 {
			if ob == EOF {
				e.enc.Put(opINS, 1, -1, nb, e.readOrg, e.readNew)
				e.stats.InsBytes++
				e.readNew++
			} else {
				e.enc.Put(opMOD, 1, ob, nb, e.readOrg, e.readNew)
				e.stats.ModBytes++
				e.readOrg++
				e.readNew++
			}
			e.ahead--
			if err := e.enc.Err(); err != nil {
				return e.stats, fmt.Errorf("writing patch data: %w", ErrWrite)
			}
			continue
		}

		ahd := e.findAhead()
		switch ahd.kind {
		case aheadNone:
			e.ahead = ahd.ahead

		case aheadDel:
			e.enc.Put(opDEL, ahd.skipOrg, -1, -1, e.readOrg, e.readNew)
			e.stats.DelBytes += ahd.skipOrg
			e.stats.DelRuns++
			e.readOrg += ahd.skipOrg
			e.ahead = ahd.ahead

		case aheadIns:
			for i := int64(0); i < ahd.skipNew; i++ {
				b := e.newSrc.Get(e.readNew, HardAhead)
				e.enc.Put(opINS, 1, -1, b, e.readOrg, e.readNew)
				e.readNew++
			}
			e.stats.InsBytes += ahd.skipNew
			e.stats.InsRuns++
			e.ahead = ahd.ahead

		case aheadBkt:
			if !e.opts.AllowBacktrack {
				e.ahead = max64(smpSze, e.lookNew.pos-e.readNew-int64(e.index.Reliability()))
				break
			}
			e.enc.Put(opBKT, ahd.skipOrg, -1, -1, e.readOrg, e.readNew)
			e.stats.BktBytes += ahd.skipOrg
			e.stats.BktRuns++
			e.readOrg -= ahd.skipOrg
			e.ahead = ahd.ahead
		}

		if err := e.enc.Err(); err != nil {
			return e.stats, fmt.Errorf("writing patch control section: %w", ErrWrite)
		}
	}
}

func (e *DiffEngine) finalStats() Stats {
	e.stats.Seeks = e.orgSrc.SeekCount() + e.newSrc.SeekCount()
	return e.stats
}

// primeHash resets la to start and feeds it smpSze-1 bytes, establishing a
// valid rolling-hash window without yet treating the result as a sample key.
func (e *DiffEngine) primeHash(src ByteSource, la *lookahead, start int64) {
	la.pos = start
	la.hash = 0
	la.val = 0
	la.eqlCnt = 0

	for i := 0; i < smpSze-1; i++ {
		b := la.advance(src, HardAhead)
		if b < 0 {
			return
		}
		la.hash = la.hash.update(b)
	}
}

// prescan streams all of ORIGINAL once, adding every primed sample to the
// index. Only called when Options.Prescan is set, and only once.
func (e *DiffEngine) prescan() {
	e.primeHash(e.orgSrc, &e.lookOrg, 0)

	nextDot := int64(16 << 20)
	for {
		b := e.lookOrg.advance(e.orgSrc, HardAhead)
		if b < 0 {
			return
		}
		e.lookOrg.hash = e.lookOrg.hash.update(b)
		e.index.Add(uint32(e.lookOrg.hash), e.lookOrg.pos-1, e.lookOrg.eqlCnt)

		if e.lookOrg.pos >= nextDot {
			e.log.WithField("bytes", e.lookOrg.pos).Debug("prescanning original")
			nextDot += 16 << 20
		}
	}
}

// findAhead looks ahead in both streams for the next usable alignment,
// returning how the engine should resume: a forward DEL, a run of INS
// bytes, a backward BKT, or (if nothing was found) just a larger trusted
// "ahead" budget to blindly advance through as MOD/INS.
func (e *DiffEngine) findAhead() aheadResult {
	if e.opts.Prescan && !e.prescanned {
		e.prescan()
		e.prescanned = true
	}

	reliability := e.index.Reliability()

	maxBytes := int64(e.opts.AheadMax)
	if e.lookNew.pos > e.readNew {
		maxBytes -= e.lookNew.pos - e.readNew
		if maxBytes < 0 {
			maxBytes = 0
		}
	}

	back := int64(reliability)
	if back > int64(e.opts.AheadMax) {
		back = int64(e.opts.AheadMax)
	}
	back /= 2

	if e.lookOrg.pos == 0 || e.lookOrg.pos < e.readOrg-back {
		e.primeHash(e.orgSrc, &e.lookOrg, max64(0, e.readOrg-back))
	}
	if e.lookNew.pos == 0 || e.lookNew.pos < e.readNew-back {
		e.primeHash(e.newSrc, &e.lookNew, max64(0, e.readNew-back))
	}

	e.matches.Cleanup(e.readNew - int64(reliability))

	baseOrg := int64(0)
	if !e.opts.AllowBacktrack {
		baseOrg = e.readOrg
	}

	orgEOF, newEOF := false, false
	foundCount := 0

	for scanned := int64(0); scanned < maxBytes && !(orgEOF && newEOF); scanned++ {
		if !e.opts.Prescan && !orgEOF {
			ob := e.lookOrg.advance(e.orgSrc, HardAhead)
			if ob < 0 {
				orgEOF = true
			} else {
				e.lookOrg.hash = e.lookOrg.hash.update(ob)
				e.index.Add(uint32(e.lookOrg.hash), e.lookOrg.pos-1, e.lookOrg.eqlCnt)
			}
		}

		if newEOF {
			continue
		}
		nb := e.lookNew.advance(e.newSrc, HardAhead)
		if nb < 0 {
			newEOF = true
			continue
		}
		e.lookNew.hash = e.lookNew.hash.update(nb)

		foundOrg, ok := e.index.Get(uint32(e.lookNew.hash))
		if !ok || foundOrg <= baseOrg {
			continue
		}

		if e.matches.Add(foundOrg, e.lookNew.pos-1, e.readNew) == addFull && !e.matches.Cleanup(e.readNew) {
			break
		}

		if e.lookNew.pos-1 > e.readNew {
			foundCount++
		}
		if foundCount == e.opts.MatchMax {
			break
		}
		if foundCount == e.opts.MatchMin && maxBytes-scanned > int64(reliability) {
			maxBytes = scanned + int64(reliability)
		}
	}

	soft := !e.opts.CompareAll
	fndOrg, fndNew, found := e.matches.Get(e.orgSrc, e.newSrc, e.readOrg, e.readNew, reliability, soft)
	if !found {
		ahead := max64(smpSze, e.lookNew.pos-e.readNew-int64(reliability))
		return aheadResult{kind: aheadNone, ahead: ahead}
	}

	if fndOrg >= e.readOrg {
		if fndOrg-e.readOrg >= fndNew-e.readNew {
			return aheadResult{
				kind:    aheadDel,
				skipOrg: (fndOrg - e.readOrg) + (e.readNew - fndNew),
				ahead:   fndNew - e.readNew,
			}
		}
		return aheadResult{
			kind:    aheadIns,
			skipNew: (fndNew - e.readNew) + (e.readOrg - fndOrg),
			ahead:   fndOrg - e.readOrg,
		}
	}

	skipOrg := e.readOrg - fndOrg
	if skipOrg > e.readOrg {
		skipOrg = e.readOrg
	}
	e.lookOrg.pos = 0
	return aheadResult{kind: aheadBkt, skipOrg: skipOrg, ahead: fndNew - e.readNew}
}
