// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package chain

import (
	"bytes"
	"crypto/ed25519"
	"strings"
	"testing"

	"github.com/tanglekit/tangle-cli/internal/chain/scale"
)

// testSigner is a deterministic ed25519 signer without the derivation
// machinery of the keys package.
type testSigner struct {
	priv ed25519.PrivateKey
}

func newExtrinsicTestSigner() *testSigner {
	seed := bytes.Repeat([]byte{0x11}, ed25519.SeedSize)
	return &testSigner{priv: ed25519.NewKeyFromSeed(seed)}
}

func (s *testSigner) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, data), nil
}

func (s *testSigner) PublicKey() []byte {
	return s.priv.Public().(ed25519.PublicKey)
}

func validCall(t *testing.T) []byte {
	t.Helper()
	call, err := CreateBlueprintCall{
		PalletIndex:  51,
		CallIndex:    0,
		Metadata:     []byte(`{"name":"demo"}`),
		Manager:      bytes.Repeat([]byte{0x22}, 20),
		ArtifactHash: bytes.Repeat([]byte{0x33}, 32),
	}.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	return call
}

func TestCreateBlueprintCall_Encode(t *testing.T) {
	call := validCall(t)
	if call[0] != 51 || call[1] != 0 {
		t.Errorf("call indices = %d %d, want 51 0", call[0], call[1])
	}
	// After the indices comes the compact-prefixed metadata, then the
	// fixed-width manager and artifact hash.
	meta := []byte(`{"name":"demo"}`)
	wantLen := 2 + 1 + len(meta) + 20 + 32
	if len(call) != wantLen {
		t.Errorf("call length = %d, want %d", len(call), wantLen)
	}
	if !bytes.HasSuffix(call, bytes.Repeat([]byte{0x33}, 32)) {
		t.Error("artifact hash is not the final field")
	}
}

func TestCreateBlueprintCall_Validation(t *testing.T) {
	_, err := CreateBlueprintCall{
		Manager:      []byte{0x01},
		ArtifactHash: bytes.Repeat([]byte{0x33}, 32),
	}.Encode()
	if err == nil {
		t.Error("expected error for short manager address")
	}
	_, err = CreateBlueprintCall{
		Manager:      bytes.Repeat([]byte{0x22}, 20),
		ArtifactHash: []byte{0x01},
	}.Encode()
	if err == nil {
		t.Error("expected error for short artifact hash")
	}
}

func TestNewSignedExtrinsic_Layout(t *testing.T) {
	signer := newExtrinsicTestSigner()
	call := validCall(t)
	genesis := bytes.Repeat([]byte{0x44}, 32)

	ext, err := NewSignedExtrinsic(signer, call, SigningContext{
		Nonce:              3,
		SpecVersion:        105,
		TransactionVersion: 2,
		GenesisHash:        genesis,
	})
	if err != nil {
		t.Fatalf("NewSignedExtrinsic failed: %v", err)
	}

	// The extrinsic is a compact length prefix followed by the body.
	bodyLen, n, err := scale.DecodeCompact(ext)
	if err != nil {
		t.Fatalf("decode length prefix: %v", err)
	}
	body := ext[n:]
	if uint64(len(body)) != bodyLen {
		t.Fatalf("body length = %d, prefix says %d", len(body), bodyLen)
	}

	if body[0] != 0x84 {
		t.Errorf("version byte = %02x, want 84", body[0])
	}
	if body[1] != 0x00 {
		t.Errorf("address variant = %02x, want 00 (MultiAddress::Id)", body[1])
	}
	if !bytes.Equal(body[2:34], signer.PublicKey()) {
		t.Error("account id is not the signer public key")
	}
	if body[34] != 0x00 {
		t.Errorf("signature variant = %02x, want 00 (ed25519)", body[34])
	}
	if !bytes.HasSuffix(body, call) {
		t.Error("call is not the final section of the body")
	}
}

func TestNewSignedExtrinsic_SignatureVerifies(t *testing.T) {
	signer := newExtrinsicTestSigner()
	call := validCall(t)
	genesis := bytes.Repeat([]byte{0x44}, 32)
	sc := SigningContext{Nonce: 3, SpecVersion: 105, TransactionVersion: 2, GenesisHash: genesis}

	ext, err := NewSignedExtrinsic(signer, call, sc)
	if err != nil {
		t.Fatalf("NewSignedExtrinsic failed: %v", err)
	}
	_, n, err := scale.DecodeCompact(ext)
	if err != nil {
		t.Fatalf("decode length prefix: %v", err)
	}
	sig := ext[n+35 : n+35+64]

	// Rebuild the signing payload the same way the builder does.
	payload := scale.NewEncoder()
	payload.WriteRaw(call)
	_ = payload.WriteByte(0x00)
	payload.WriteCompact(sc.Nonce)
	payload.WriteCompact(0)
	payload.WriteU32(sc.SpecVersion)
	payload.WriteU32(sc.TransactionVersion)
	payload.WriteRaw(genesis)
	payload.WriteRaw(genesis)

	if !ed25519.Verify(signer.PublicKey(), payload.Bytes(), sig) {
		t.Error("embedded signature does not cover the expected payload")
	}
}

func TestNewSignedExtrinsic_RequiresGenesis(t *testing.T) {
	signer := newExtrinsicTestSigner()
	if _, err := NewSignedExtrinsic(signer, validCall(t), SigningContext{}); err == nil {
		t.Error("expected error for missing genesis hash")
	}
}

func TestExtrinsicHash_Format(t *testing.T) {
	h := ExtrinsicHash([]byte{0x01, 0x02, 0x03})
	if !strings.HasPrefix(h, "0x") || len(h) != 66 {
		t.Errorf("hash = %q, want 0x-prefixed 32-byte hex", h)
	}
}
