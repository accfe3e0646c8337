// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

// Command bdiff encodes a binary patch from an original file to a new one.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"

	"github.com/jojodiff/jojodiff"
)

const usage = `usage: bdiff [flags] <original> <new> [<patch>]

Writes a binary patch describing how to turn <original> into <new>.
If <patch> is omitted or "-", the patch is written to stdout.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("bdiff", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage); fs.PrintDefaults() }

	hashCapacity := fs.Int("hash-capacity", 0, "sample index capacity (0 = default)")
	bufferSize := fs.Int("buffer-size", 0, "per-file look-ahead buffer size, bytes (0 = default)")
	blockSize := fs.Int("block-size", 0, "physical read block size, bytes (0 = default)")
	matchMin := fs.Int("match-min", 0, "look-ahead hits before budget shrinks (0 = default)")
	matchMax := fs.Int("match-max", 0, "look-ahead hits before early stop (0 = default)")
	aheadMax := fs.Int("ahead-max", 0, "bytes scanned per look-ahead call (0 = default)")
	noBacktrack := fs.Bool("no-backtrack", false, "disable backward (BKT) matches")
	noPrescan := fs.Bool("no-prescan", false, "index original incrementally instead of up front")
	fast := fs.Bool("fast", false, "verify candidate matches with soft reads (may miss some)")
	verbose := fs.CountP("verbose", "v", "increase logging verbosity (-v, -vv, -vvv)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	rest := fs.Args()
	if len(rest) < 2 || len(rest) > 3 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	log := logrus.New()
	log.SetOutput(stderr)
	switch {
	case *verbose >= 3:
		log.SetLevel(logrus.TraceLevel)
	case *verbose == 2:
		log.SetLevel(logrus.DebugLevel)
	case *verbose == 1:
		log.SetLevel(logrus.InfoLevel)
	default:
		log.SetLevel(logrus.WarnLevel)
	}

	original, err := os.Open(rest[0])
	if err != nil {
		log.WithError(err).Error("opening original")
		return exitCode(err)
	}
	defer original.Close()

	newFile, err := os.Open(rest[1])
	if err != nil {
		log.WithError(err).Error("opening new")
		return exitCode(err)
	}
	defer newFile.Close()

	var patchOut *os.File
	patchPath := "-"
	if len(rest) == 3 {
		patchPath = rest[2]
	}
	if patchPath == "-" {
		patchOut = stdout
	} else {
		patchOut, err = os.Create(patchPath)
		if err != nil {
			log.WithError(err).Error("creating patch file")
			return exitCode(err)
		}
		defer patchOut.Close()
	}

	opts := &jojodiff.Options{
		HashCapacity:   *hashCapacity,
		BufferSize:     *bufferSize,
		BlockSize:      *blockSize,
		MatchMin:       *matchMin,
		MatchMax:       *matchMax,
		AheadMax:       *aheadMax,
		AllowBacktrack: !*noBacktrack,
		Prescan:        !*noPrescan,
		CompareAll:     !*fast,
	}

	stats, err := jojodiff.Diff(original, newFile, patchOut, opts, log)
	if err != nil {
		log.WithError(err).Error("diff failed")
		return exitCode(err)
	}

	if *verbose > 0 {
		log.WithFields(logrus.Fields{
			"eql_bytes": stats.EqlBytes,
			"mod_bytes": stats.ModBytes,
			"ins_bytes": stats.InsBytes,
			"del_bytes": stats.DelBytes,
			"bkt_bytes": stats.BktBytes,
			"seeks":     stats.Seeks,
		}).Info("diff complete")
	}

	if stats.PatchBytes() == 0 {
		// No MOD/INS data emitted: original and new are byte-identical.
		return 1
	}

	return 0
}

// exitCode maps a fatal error to a process exit code per the CLI's exit-code
// table, the Go equivalent of the original tool's switch(-liRet) dispatch.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case os.IsNotExist(err):
		return 3
	case errors.Is(err, jojodiff.ErrSeek):
		return 6
	case errors.Is(err, jojodiff.ErrOffsetTooLarge):
		return 7
	case errors.Is(err, jojodiff.ErrRead):
		return 8
	case errors.Is(err, jojodiff.ErrWrite):
		return 9
	case errors.Is(err, jojodiff.ErrAlloc):
		return 10
	default:
		return 4
	}
}
