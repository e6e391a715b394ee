// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package chain

import (
	"encoding/hex"
	"fmt"

	"github.com/tanglekit/tangle-cli/internal/chain/hashing"
	"github.com/tanglekit/tangle-cli/internal/chain/scale"
)

// extrinsicVersion is the signed transaction format version.
const extrinsicVersion byte = 0x84

// Signer is the signing capability the extrinsic builder needs. The keys
// package provides the ed25519 implementation.
type Signer interface {
	Sign(data []byte) ([]byte, error)
	PublicKey() []byte
}

// CreateBlueprintCall carries the arguments of the Services pallet's
// create-blueprint call.
type CreateBlueprintCall struct {
	PalletIndex uint8
	CallIndex   uint8
	// Metadata is the SCALE Vec<u8> blueprint manifest (JSON).
	Metadata []byte
	// Manager is the 20-byte EVM address of the blueprint manager.
	Manager []byte
	// ArtifactHash is the 32-byte sha256 of the bundled artifact.
	ArtifactHash []byte
}

// Encode returns the SCALE encoding of the call.
func (c CreateBlueprintCall) Encode() ([]byte, error) {
	if len(c.Manager) != 20 {
		return nil, fmt.Errorf("manager address must be 20 bytes, got %d", len(c.Manager))
	}
	if len(c.ArtifactHash) != 32 {
		return nil, fmt.Errorf("artifact hash must be 32 bytes, got %d", len(c.ArtifactHash))
	}
	enc := scale.NewEncoder()
	_ = enc.WriteByte(c.PalletIndex)
	_ = enc.WriteByte(c.CallIndex)
	enc.WriteBytes(c.Metadata)
	enc.WriteRaw(c.Manager)
	enc.WriteRaw(c.ArtifactHash)
	return enc.Bytes(), nil
}

// SigningContext carries the chain-specific values mixed into the signing
// payload.
type SigningContext struct {
	Nonce              uint64
	SpecVersion        uint32
	TransactionVersion uint32
	GenesisHash        []byte
}

// NewSignedExtrinsic builds a signed v4 extrinsic with an immortal era and
// zero tip. The signature covers
//
//	call ++ era ++ nonce ++ tip ++ specVersion ++ txVersion ++ genesis ++ genesis
//
// with payloads over 256 bytes hashed with blake2b-256 before signing (the
// signer applies that rule).
func NewSignedExtrinsic(signer Signer, call []byte, sc SigningContext) ([]byte, error) {
	if len(sc.GenesisHash) != 32 {
		return nil, fmt.Errorf("genesis hash must be 32 bytes, got %d", len(sc.GenesisHash))
	}

	payload := scale.NewEncoder()
	payload.WriteRaw(call)
	_ = payload.WriteByte(0x00) // immortal era
	payload.WriteCompact(sc.Nonce)
	payload.WriteCompact(0) // tip
	payload.WriteU32(sc.SpecVersion)
	payload.WriteU32(sc.TransactionVersion)
	payload.WriteRaw(sc.GenesisHash)
	// For immortal extrinsics the era checkpoint is the genesis block.
	payload.WriteRaw(sc.GenesisHash)

	sig, err := signer.Sign(payload.Bytes())
	if err != nil {
		return nil, fmt.Errorf("sign payload: %w", err)
	}
	if len(sig) != 64 {
		return nil, fmt.Errorf("ed25519 signature must be 64 bytes, got %d", len(sig))
	}
	pub := signer.PublicKey()
	if len(pub) != 32 {
		return nil, fmt.Errorf("account public key must be 32 bytes, got %d", len(pub))
	}

	body := scale.NewEncoder()
	_ = body.WriteByte(extrinsicVersion)
	_ = body.WriteByte(0x00) // MultiAddress::Id
	body.WriteRaw(pub)
	_ = body.WriteByte(0x00) // MultiSignature::Ed25519
	body.WriteRaw(sig)
	_ = body.WriteByte(0x00) // immortal era
	body.WriteCompact(sc.Nonce)
	body.WriteCompact(0) // tip
	body.WriteRaw(call)

	out := scale.NewEncoder()
	out.WriteBytes(body.Bytes())
	return out.Bytes(), nil
}

// ExtrinsicHash computes the canonical 0x-hex blake2b-256 hash of an
// encoded extrinsic. Nodes report the same value from
// author_submitExtrinsic; this is used as a local fallback and in tests.
func ExtrinsicHash(extrinsic []byte) string {
	return "0x" + hex.EncodeToString(hashing.Blake2b256(extrinsic))
}
