// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package scale implements the subset of the SCALE codec needed to build
// and sign extrinsics: compact integers, fixed-width little-endian
// integers, and length-prefixed byte vectors.
package scale

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// Encoder accumulates SCALE-encoded data.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Bytes returns the encoded output accumulated so far.
func (e *Encoder) Bytes() []byte {
	out := make([]byte, len(e.buf))
	copy(out, e.buf)
	return out
}

// WriteByte appends a single raw byte.
func (e *Encoder) WriteByte(b byte) error {
	e.buf = append(e.buf, b)
	return nil
}

// WriteRaw appends raw bytes without a length prefix. Used for fixed-width
// values such as account IDs, signatures and hashes.
func (e *Encoder) WriteRaw(b []byte) {
	e.buf = append(e.buf, b...)
}

// WriteU32 appends a fixed-width little-endian u32.
func (e *Encoder) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	e.buf = append(e.buf, tmp[:]...)
}

// WriteCompact appends a compact-encoded unsigned integer.
//
// Compact encoding modes:
//
//	0b00: single byte,   values 0..63
//	0b01: two bytes,     values 64..2**14-1
//	0b10: four bytes,    values 2**14..2**30-1
//	0b11: big integer,   prefixed with byte count
func (e *Encoder) WriteCompact(v uint64) {
	switch {
	case v < 1<<6:
		e.buf = append(e.buf, byte(v<<2))
	case v < 1<<14:
		var tmp [2]byte
		binary.LittleEndian.PutUint16(tmp[:], uint16(v<<2)|0b01)
		e.buf = append(e.buf, tmp[:]...)
	case v < 1<<30:
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], uint32(v<<2)|0b10)
		e.buf = append(e.buf, tmp[:]...)
	default:
		n := (bits.Len64(v) + 7) / 8
		e.buf = append(e.buf, byte(0b11)|byte(n-4)<<2)
		var tmp [8]byte
		binary.LittleEndian.PutUint64(tmp[:], v)
		e.buf = append(e.buf, tmp[:n]...)
	}
}

// WriteBytes appends a compact length prefix followed by the raw bytes
// (SCALE Vec<u8>).
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteCompact(uint64(len(b)))
	e.buf = append(e.buf, b...)
}

// WriteString appends a SCALE-encoded string (same layout as Vec<u8>).
func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

// DecodeCompact reads a compact-encoded unsigned integer from b and
// returns the value and the number of bytes consumed. It is the decoding
// counterpart of WriteCompact, used to take extrinsics apart again when
// checking their length prefix.
func DecodeCompact(b []byte) (uint64, int, error) {
	if len(b) == 0 {
		return 0, 0, fmt.Errorf("empty input")
	}
	switch b[0] & 0b11 {
	case 0b00:
		return uint64(b[0] >> 2), 1, nil
	case 0b01:
		if len(b) < 2 {
			return 0, 0, fmt.Errorf("truncated two-byte compact")
		}
		return uint64(binary.LittleEndian.Uint16(b[:2]) >> 2), 2, nil
	case 0b10:
		if len(b) < 4 {
			return 0, 0, fmt.Errorf("truncated four-byte compact")
		}
		return uint64(binary.LittleEndian.Uint32(b[:4]) >> 2), 4, nil
	default:
		n := int(b[0]>>2) + 4
		if n > 8 {
			return 0, 0, fmt.Errorf("compact integer too large (%d bytes)", n)
		}
		if len(b) < 1+n {
			return 0, 0, fmt.Errorf("truncated big-integer compact")
		}
		var tmp [8]byte
		copy(tmp[:], b[1:1+n])
		return binary.LittleEndian.Uint64(tmp[:]), 1 + n, nil
	}
}
