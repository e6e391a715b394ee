// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package keys turns the SIGNER / EVM_SIGNER secret URIs into signers for
// the deploy pipeline. Substrate SURIs use the ed25519 scheme; EVM secret
// URIs use secp256k1.
package keys

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// SURI is a parsed Substrate secret URI of the form
//
//	<hex seed>[//hard-junction...][///password]
//
// Only hard junctions are supported; soft junctions require sr25519 and are
// rejected. Mnemonic phrases are rejected with an explicit error since the
// CLI intentionally carries no BIP-39 wordlist.
type SURI struct {
	Seed      []byte
	Junctions []string
	Password  string
}

// ParseSURI splits and validates a secret URI. The seed portion must be a
// 0x-prefixed 32-byte hex string.
func ParseSURI(raw string) (*SURI, error) {
	if raw == "" {
		return nil, fmt.Errorf("empty secret URI")
	}

	s := raw
	out := &SURI{}

	// The password component follows the final "///".
	if idx := strings.Index(s, "///"); idx >= 0 {
		out.Password = s[idx+3:]
		s = s[:idx]
	}

	parts := strings.Split(s, "/")
	if parts[0] == "" && len(parts) > 1 {
		return nil, fmt.Errorf("secret URI must start with a hex seed, not a derivation path")
	}
	phrase := parts[0]
	rest := parts[1:]

	// Junctions: "//hard" produces ["", "hard"]; "/soft" produces ["soft"].
	for i := 0; i < len(rest); i++ {
		if rest[i] == "" {
			// hard junction marker
			if i+1 >= len(rest) || rest[i+1] == "" {
				return nil, fmt.Errorf("malformed derivation path in secret URI")
			}
			out.Junctions = append(out.Junctions, rest[i+1])
			i++
			continue
		}
		return nil, fmt.Errorf("soft derivation junctions are not supported for ed25519 keys")
	}

	if !strings.HasPrefix(phrase, "0x") {
		if strings.Contains(phrase, " ") {
			return nil, fmt.Errorf("mnemonic SURIs are not supported; use a 0x-prefixed hex seed")
		}
		return nil, fmt.Errorf("seed must be a 0x-prefixed hex string")
	}
	seed, err := hex.DecodeString(strings.TrimPrefix(phrase, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid hex seed: %w", err)
	}
	if len(seed) != 32 {
		return nil, fmt.Errorf("seed must be 32 bytes, got %d", len(seed))
	}
	out.Seed = seed
	return out, nil
}
