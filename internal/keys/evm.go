// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package keys

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/tanglekit/tangle-cli/internal/security"
)

// EVMSigner holds the secp256k1 key parsed from EVM_SIGNER. It is used to
// derive the blueprint manager address and to authorize EVM-side actions.
type EVMSigner struct {
	key  security.Secret
	priv *secp256k1.PrivateKey
}

// NewEVMSigner parses an EVM secret URI: a 0x-prefixed 32-byte hex private
// key.
func NewEVMSigner(raw string) (*EVMSigner, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty EVM secret URI")
	}
	if !strings.HasPrefix(raw, "0x") {
		return nil, fmt.Errorf("EVM secret must be a 0x-prefixed hex private key")
	}
	b, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex private key: %w", err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("EVM private key must be 32 bytes, got %d", len(b))
	}
	priv := secp256k1.PrivKeyFromBytes(b)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("EVM private key must be non-zero")
	}
	return &EVMSigner{key: security.FromBytes(b), priv: priv}, nil
}

// Sign produces a compact ECDSA signature over the keccak-256 digest of
// data.
func (s *EVMSigner) Sign(data []byte) ([]byte, error) {
	digest := Keccak256(data)
	sig := ecdsa.SignCompact(s.priv, digest, false)
	return sig, nil
}

// PublicKey returns the uncompressed secp256k1 public key (65 bytes).
func (s *EVMSigner) PublicKey() []byte {
	return s.priv.PubKey().SerializeUncompressed()
}

// Address returns the EIP-55 checksummed 0x-hex address.
func (s *EVMSigner) Address() string {
	pub := s.PublicKey()
	// Drop the 0x04 uncompressed-point marker before hashing.
	digest := Keccak256(pub[1:])
	return ChecksumAddress(digest[12:])
}

// Zero wipes the private key material from memory.
func (s *EVMSigner) Zero() {
	s.key.Zero()
	s.priv.Zero()
}

// Keccak256 computes the legacy Keccak-256 digest used by Ethereum.
func Keccak256(data []byte) []byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	return h.Sum(nil)
}

// ChecksumAddress renders a 20-byte address in EIP-55 mixed-case form.
func ChecksumAddress(addr []byte) string {
	lower := hex.EncodeToString(addr)
	digest := Keccak256([]byte(lower))

	out := make([]byte, len(lower))
	for i, c := range []byte(lower) {
		if c >= 'a' && c <= 'f' {
			// Uppercase when the corresponding checksum nibble is >= 8.
			nibble := digest[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}
