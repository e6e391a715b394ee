// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package security

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestSecret_NeverPrintsValue(t *testing.T) {
	s := FromString("super-secret-seed")

	if got := s.String(); got != "[SECRET]" {
		t.Errorf("String() = %q", got)
	}
	if got := fmt.Sprintf("%v %s %q", s, s, s); strings.Contains(got, "super-secret-seed") {
		t.Errorf("formatted output leaked the secret: %q", got)
	}
	if got := s.Redacted(); got != "[SECRET]" {
		t.Errorf("Redacted() = %q", got)
	}
}

func TestSecret_MarshalRedacts(t *testing.T) {
	s := FromString("super-secret-seed")

	j, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	if string(j) != `"[SECRET]"` {
		t.Errorf("json = %s", j)
	}

	txt, err := s.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText failed: %v", err)
	}
	if string(txt) != "[SECRET]" {
		t.Errorf("text = %s", txt)
	}
}

func TestSecret_BytesAndUse(t *testing.T) {
	s := FromString("seed")
	if string(s.Bytes()) != "seed" {
		t.Errorf("Bytes() = %q", s.Bytes())
	}

	var seen string
	err := s.Use(func(b []byte) error {
		seen = string(b)
		return nil
	})
	if err != nil {
		t.Fatalf("Use failed: %v", err)
	}
	if seen != "seed" {
		t.Errorf("Use saw %q", seen)
	}
}

func TestSecret_Zero(t *testing.T) {
	s := FromString("seed")
	s.Zero()
	for i, b := range s {
		if b != 0 {
			t.Fatalf("byte %d not zeroed", i)
		}
	}
}

func TestSecret_FromBytesCopies(t *testing.T) {
	src := []byte("seed")
	s := FromBytes(src)
	src[0] = 'X'
	if string(s.Bytes()) != "seed" {
		t.Errorf("FromBytes did not copy: %q", s.Bytes())
	}
}

func TestSecret_ScanRoundTrip(t *testing.T) {
	s := FromString("seed")
	v, err := s.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}

	var back Secret
	if err := back.Scan(v); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if string(back.Bytes()) != "seed" {
		t.Errorf("round trip = %q", back.Bytes())
	}
}
