// SPDX-License-Identifier: GPL-3.0-or-later
// Source: github.com/jojodiff/jojodiff

package jojodiff

import (
	"encoding/binary"
	"io"
	"math"
)

// Varint tag bytes for lengths that don't fit in the 1-byte fast path.
const (
	varintTag2 = 252 // next 1 byte, L = 253 + b
	varintTag3 = 253 // next 2 bytes big-endian, L = u16
	varintTag4 = 254 // next 4 bytes big-endian, L = u32
	varintTag5 = 255 // next 8 bytes big-endian, L = u64
)

// putVarint writes the varint encoding of L (L >= 1) to w.
func putVarint(w io.Writer, length int64) error {
	switch {
	case length <= 252:
		_, err := w.Write([]byte{byte(length - 1)})
		return err

	case length <= 508:
		_, err := w.Write([]byte{varintTag2, byte(length - 253)})
		return err

	case length <= 65535:
		var buf [3]byte
		buf[0] = varintTag3
		binary.BigEndian.PutUint16(buf[1:], uint16(length))
		_, err := w.Write(buf[:])
		return err

	case length <= math.MaxUint32:
		var buf [5]byte
		buf[0] = varintTag4
		binary.BigEndian.PutUint32(buf[1:], uint32(length))
		_, err := w.Write(buf[:])
		return err

	default:
		var buf [9]byte
		buf[0] = varintTag5
		binary.BigEndian.PutUint64(buf[1:], uint64(length))
		_, err := w.Write(buf[:])
		return err
	}
}

// getVarint reads one varint-encoded length from r.
func getVarint(r io.Reader) (int64, error) {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		return 0, err
	}

	switch tag[0] {
	case varintTag2:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return 253 + int64(b[0]), nil

	case varintTag3:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint16(b[:])), nil

	case varintTag4:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		return int64(binary.BigEndian.Uint32(b[:])), nil

	case varintTag5:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}
		v := binary.BigEndian.Uint64(b[:])
		if v > math.MaxInt64 {
			return 0, ErrOffsetTooLarge
		}
		return int64(v), nil

	default:
		return int64(tag[0]) + 1, nil
	}
}
