// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package keys

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"

	"github.com/tanglekit/tangle-cli/internal/chain/scale"
	"github.com/tanglekit/tangle-cli/internal/security"
)

// ss58Prefix is the checksum preimage prefix defined by the SS58 format.
const ss58Prefix = "SS58PRE"

// SubstrateSigner signs extrinsic payloads with an ed25519 key derived
// from a SIGNER secret URI.
type SubstrateSigner struct {
	seed security.Secret
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// NewSubstrateSigner derives an ed25519 keypair from the parsed SURI,
// applying hard junctions with the Ed25519HDKD scheme. The password
// component of a SURI only affects mnemonic-based seeds in Substrate, so
// it is ignored for hex seeds.
func NewSubstrateSigner(suri *SURI) (*SubstrateSigner, error) {
	if suri == nil || len(suri.Seed) != 32 {
		return nil, fmt.Errorf("a 32-byte seed is required")
	}
	seed := make([]byte, 32)
	copy(seed, suri.Seed)

	for _, j := range suri.Junctions {
		seed = deriveHard(seed, j)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &SubstrateSigner{
		seed: security.FromBytes(seed),
		priv: priv,
		pub:  priv.Public().(ed25519.PublicKey),
	}, nil
}

// deriveHard applies one hard derivation junction:
// blake2b256("Ed25519HDKD" ++ seed ++ chaincode), where the chain code is
// the SCALE-encoded junction value right-padded to 32 bytes (or hashed
// when longer).
func deriveHard(seed []byte, junction string) []byte {
	enc := scale.NewEncoder()
	enc.WriteString(junction)
	cc := enc.Bytes()
	if len(cc) > 32 {
		cc = hashing256(cc)
	} else {
		padded := make([]byte, 32)
		copy(padded, cc)
		cc = padded
	}

	enc = scale.NewEncoder()
	enc.WriteString("Ed25519HDKD")
	pre := enc.Bytes()

	buf := make([]byte, 0, len(pre)+64)
	buf = append(buf, pre...)
	buf = append(buf, seed...)
	buf = append(buf, cc...)
	return hashing256(buf)
}

func hashing256(data []byte) []byte {
	sum := blake2b.Sum256(data)
	return sum[:]
}

// Sign signs the payload. Payloads longer than 256 bytes are hashed with
// blake2b-256 first, per the Substrate signing convention.
func (s *SubstrateSigner) Sign(data []byte) ([]byte, error) {
	if len(data) > 256 {
		data = hashing256(data)
	}
	return ed25519.Sign(s.priv, data), nil
}

// PublicKey returns the 32-byte ed25519 public key (the account ID).
func (s *SubstrateSigner) PublicKey() []byte {
	out := make([]byte, len(s.pub))
	copy(out, s.pub)
	return out
}

// Address returns the SS58 address with the default (generic Substrate)
// network prefix.
func (s *SubstrateSigner) Address() string {
	return s.SS58Address(42)
}

// SS58Address encodes the public key as an SS58 address for the given
// network prefix.
func (s *SubstrateSigner) SS58Address(prefix uint16) string {
	return SS58Encode(s.pub, prefix)
}

// Zero wipes the derived seed from memory.
func (s *SubstrateSigner) Zero() {
	s.seed.Zero()
}

// SS58Encode encodes a 32-byte public key as an SS58 address.
func SS58Encode(pubkey []byte, prefix uint16) string {
	var prefixed []byte
	if prefix < 64 {
		prefixed = append([]byte{byte(prefix)}, pubkey...)
	} else {
		// Two-byte prefix form for idents 64..16383.
		b1 := byte(((prefix & 0b0000_0000_1111_1100) >> 2) | 0b0100_0000)
		b2 := byte((prefix >> 8) | ((prefix & 0b11) << 6))
		prefixed = append([]byte{b1, b2}, pubkey...)
	}

	check := blake2b.Sum512(append([]byte(ss58Prefix), prefixed...))
	return base58.Encode(append(prefixed, check[:2]...))
}

// SS58Decode decodes an SS58 address, returning the network prefix and the
// 32-byte public key, verifying the checksum.
func SS58Decode(addr string) (uint16, []byte, error) {
	raw, err := base58.Decode(addr)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid base58: %w", err)
	}
	if len(raw) < 35 {
		return 0, nil, fmt.Errorf("address too short")
	}

	var prefix uint16
	var body []byte
	if raw[0] < 64 {
		prefix = uint16(raw[0])
		body = raw[:len(raw)-2]
	} else if raw[0] < 128 {
		lower := ((uint16(raw[0]) & 0b0011_1111) << 2) | (uint16(raw[1]) >> 6)
		upper := uint16(raw[1]) & 0b0011_1111
		prefix = lower | (upper << 8)
		body = raw[:len(raw)-2]
	} else {
		return 0, nil, fmt.Errorf("unsupported address prefix byte %d", raw[0])
	}

	check := blake2b.Sum512(append([]byte(ss58Prefix), body...))
	got := raw[len(raw)-2:]
	if got[0] != check[0] || got[1] != check[1] {
		return 0, nil, fmt.Errorf("checksum mismatch")
	}

	pub := body[1:]
	if raw[0] >= 64 {
		pub = body[2:]
	}
	return prefix, pub, nil
}
