// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package hashing provides the storage-key hashers used by the Substrate
// state API: twox128 (two seeded xxhash64 runs) and blake2b helpers.
//
// The seeded xxhash64 implementation exists because twox128 needs seeds 0
// and 1 while the common Go xxhash package only exposes seed-0 sums; the
// seed-0 path is cross-checked against that package in tests.
package hashing

import (
	"encoding/binary"
	"math/bits"

	"golang.org/x/crypto/blake2b"
)

const (
	prime1 uint64 = 0x9E3779B185EBCA87
	prime2 uint64 = 0xC2B2AE3D27D4EB4F
	prime3 uint64 = 0x165667B19E3779F9
	prime4 uint64 = 0x85EBCA77C2B2AE63
	prime5 uint64 = 0x27D4EB2F165667C5
)

// XXHash64 computes the xxhash64 digest of data with the given seed.
func XXHash64(data []byte, seed uint64) uint64 {
	n := uint64(len(data))
	var h uint64

	if len(data) >= 32 {
		v1 := seed + prime1 + prime2
		v2 := seed + prime2
		v3 := seed
		v4 := seed - prime1

		for len(data) >= 32 {
			v1 = round(v1, binary.LittleEndian.Uint64(data[0:8]))
			v2 = round(v2, binary.LittleEndian.Uint64(data[8:16]))
			v3 = round(v3, binary.LittleEndian.Uint64(data[16:24]))
			v4 = round(v4, binary.LittleEndian.Uint64(data[24:32]))
			data = data[32:]
		}

		h = bits.RotateLeft64(v1, 1) + bits.RotateLeft64(v2, 7) +
			bits.RotateLeft64(v3, 12) + bits.RotateLeft64(v4, 18)
		h = mergeRound(h, v1)
		h = mergeRound(h, v2)
		h = mergeRound(h, v3)
		h = mergeRound(h, v4)
	} else {
		h = seed + prime5
	}

	h += n

	for len(data) >= 8 {
		h ^= round(0, binary.LittleEndian.Uint64(data[:8]))
		h = bits.RotateLeft64(h, 27)*prime1 + prime4
		data = data[8:]
	}
	if len(data) >= 4 {
		h ^= uint64(binary.LittleEndian.Uint32(data[:4])) * prime1
		h = bits.RotateLeft64(h, 23)*prime2 + prime3
		data = data[4:]
	}
	for _, b := range data {
		h ^= uint64(b) * prime5
		h = bits.RotateLeft64(h, 11) * prime1
	}

	h ^= h >> 33
	h *= prime2
	h ^= h >> 29
	h *= prime3
	h ^= h >> 32
	return h
}

func round(acc, input uint64) uint64 {
	acc += input * prime2
	acc = bits.RotateLeft64(acc, 31)
	acc *= prime1
	return acc
}

func mergeRound(acc, val uint64) uint64 {
	acc ^= round(0, val)
	acc = acc*prime1 + prime4
	return acc
}

// Twox128 computes the Substrate twox128 hash: the little-endian
// concatenation of xxhash64(data, 0) and xxhash64(data, 1).
func Twox128(data []byte) []byte {
	out := make([]byte, 16)
	binary.LittleEndian.PutUint64(out[0:8], XXHash64(data, 0))
	binary.LittleEndian.PutUint64(out[8:16], XXHash64(data, 1))
	return out
}

// StorageKey derives the state key for a plain storage value:
// twox128(pallet) ++ twox128(item).
func StorageKey(pallet, item string) []byte {
	key := make([]byte, 0, 32)
	key = append(key, Twox128([]byte(pallet))...)
	key = append(key, Twox128([]byte(item))...)
	return key
}

// Blake2b256 computes the 32-byte blake2b digest used for extrinsic hashes
// and oversized signing payloads.
func Blake2b256(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}
