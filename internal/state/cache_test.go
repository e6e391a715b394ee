// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package state

import (
	"bytes"
	"testing"
)

func TestPassphraseCache_SetGetCopies(t *testing.T) {
	defer PassphraseCache.Clear()

	original := []byte("hunter2")
	PassphraseCache.Set(original)

	// Mutating the caller's slice must not affect the cached value.
	original[0] = 'X'
	got := PassphraseCache.Get()
	if !bytes.Equal(got, []byte("hunter2")) {
		t.Errorf("Get = %q, want hunter2", got)
	}

	// Mutating the returned slice must not affect the cache either.
	got[0] = 'Y'
	if again := PassphraseCache.Get(); !bytes.Equal(again, []byte("hunter2")) {
		t.Errorf("second Get = %q, want hunter2", again)
	}
}

func TestPassphraseCache_EmptyGet(t *testing.T) {
	PassphraseCache.Clear()
	if got := PassphraseCache.Get(); got != nil {
		t.Errorf("Get on empty cache = %q, want nil", got)
	}
}

func TestPassphraseCache_Clear(t *testing.T) {
	PassphraseCache.Set([]byte("hunter2"))
	PassphraseCache.Clear()
	if got := PassphraseCache.Get(); got != nil {
		t.Errorf("Get after Clear = %q, want nil", got)
	}
}

func TestPassphraseCache_SetNil(t *testing.T) {
	PassphraseCache.Set([]byte("hunter2"))
	PassphraseCache.Set(nil)
	if got := PassphraseCache.Get(); got != nil {
		t.Errorf("Get after Set(nil) = %q, want nil", got)
	}
}
