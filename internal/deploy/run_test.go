// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package deploy

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/tanglekit/tangle-cli/internal/chain"
	"github.com/tanglekit/tangle-cli/internal/config"
	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/model"
)

const (
	testSignerSURI = "0x4c1250e05afcd79e74f6c035aee10248841090e009b6fd7ba6a98d5dc743250c"
	testEVMKey     = "0x0000000000000000000000000000000000000000000000000000000000000001"
)

// fakeChain is an in-memory ChainClient for pipeline tests.
type fakeChain struct {
	nextID    uint64
	submitErr error
	submitted [][]byte
}

func (f *fakeChain) URL() string { return "http://fake:9944" }

func (f *fakeChain) GetRuntimeVersion(ctx context.Context) (*chain.RuntimeVersion, error) {
	return &chain.RuntimeVersion{SpecVersion: 105, TransactionVersion: 2}, nil
}

func (f *fakeChain) GetGenesisHash(ctx context.Context) ([]byte, error) {
	return bytes.Repeat([]byte{0x77}, 32), nil
}

func (f *fakeChain) GetAccountNextIndex(ctx context.Context, address string) (uint64, error) {
	return 5, nil
}

func (f *fakeChain) NextBlueprintID(ctx context.Context) (uint64, error) {
	return f.nextID, nil
}

func (f *fakeChain) SubmitExtrinsic(ctx context.Context, extrinsic []byte) (string, error) {
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted = append(f.submitted, extrinsic)
	return chain.ExtrinsicHash(extrinsic), nil
}

func testConfig() config.Config {
	return config.Config{
		Chain: config.ChainConfig{
			SS58Prefix:          42,
			ServicesPalletIndex: 51,
			CreateCallIndex:     0,
		},
	}
}

func newRunStore(t *testing.T) db.Store {
	t.Helper()
	store, err := db.NewStoreFromDSN("sqlite", "file:test_"+t.Name()+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	return store
}

func makeDeployablePackage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeManifest(t, dir, `{
		"name": "demo",
		"description": "A demo blueprint.",
		"manager": "",
		"sources": [{"os": "linux", "arch": "amd64", "sha256": ""}]
	}`)
	if err := os.WriteFile(filepath.Join(dir, "main.rs"), []byte("fn main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRequireSigners_MissingEnv(t *testing.T) {
	t.Setenv(SignerEnv, "")
	t.Setenv(EVMSignerEnv, "")
	_, err := RequireSigners()
	if err == nil {
		t.Fatal("expected error with no signers configured")
	}
	if !strings.Contains(err.Error(), SignerEnv) {
		t.Errorf("error %q does not name %s", err, SignerEnv)
	}

	t.Setenv(SignerEnv, testSignerSURI)
	_, err = RequireSigners()
	if err == nil {
		t.Fatal("expected error with EVM_SIGNER unset")
	}
	if !strings.Contains(err.Error(), EVMSignerEnv) {
		t.Errorf("error %q does not name %s", err, EVMSignerEnv)
	}
}

func TestRequireSigners_Malformed(t *testing.T) {
	t.Setenv(SignerEnv, "bottom drive obey lake")
	t.Setenv(EVMSignerEnv, testEVMKey)
	if _, err := RequireSigners(); err == nil {
		t.Fatal("expected error for mnemonic SIGNER")
	}

	t.Setenv(SignerEnv, testSignerSURI)
	t.Setenv(EVMSignerEnv, "not-hex")
	if _, err := RequireSigners(); err == nil {
		t.Fatal("expected error for malformed EVM_SIGNER")
	}
}

func TestRun_Success(t *testing.T) {
	t.Setenv(SignerEnv, testSignerSURI)
	t.Setenv(EVMSignerEnv, testEVMKey)
	signers, err := RequireSigners()
	if err != nil {
		t.Fatalf("RequireSigners failed: %v", err)
	}

	store := newRunStore(t)
	client := &fakeChain{nextID: 7}
	pkg := makeDeployablePackage(t)

	result, err := Run(context.Background(), testConfig(), store, client, signers, Request{
		Package:    "demo",
		PackageDir: pkg,
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.BlueprintID != 7 {
		t.Errorf("blueprint id = %d, want 7", result.BlueprintID)
	}
	if result.BlueprintName != "demo" {
		t.Errorf("blueprint name = %q", result.BlueprintName)
	}
	if result.Signer != signers.Substrate.SS58Address(42) {
		t.Errorf("signer = %q", result.Signer)
	}
	if len(client.submitted) != 1 {
		t.Fatalf("submitted %d extrinsics, want 1", len(client.submitted))
	}

	// The confirmation line the CLI prints from this result.
	line := fmt.Sprintf("Blueprint #%d created successfully by %s with extrinsic hash: %s\n",
		result.BlueprintID, result.Signer, result.ExtrinsicHash)
	pattern := regexp.MustCompile(`^Blueprint #\d+ created successfully by \S+ with extrinsic hash: 0x[0-9a-f]{64}\n$`)
	if !pattern.MatchString(line) {
		t.Errorf("confirmation line %q does not match the expected format", line)
	}

	// The bundle must exist where the result's artifact hash says.
	if _, err := os.Stat(filepath.Join(pkg, "dist", "demo.tar.zst")); err != nil {
		t.Errorf("bundle not written: %v", err)
	}

	// The registry must carry the submitted row.
	rows, err := store.GetAllDeployments()
	if err != nil {
		t.Fatalf("GetAllDeployments failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("registry rows = %d, want 1", len(rows))
	}
	if rows[0].Status != model.StatusSubmitted {
		t.Errorf("status = %q, want %q", rows[0].Status, model.StatusSubmitted)
	}
	if rows[0].ExtrinsicHash != result.ExtrinsicHash {
		t.Errorf("recorded hash %q != result hash %q", rows[0].ExtrinsicHash, result.ExtrinsicHash)
	}
}

// makeVerifiablePackage writes a package whose manifest references a local
// prebuilt binary by path and digest.
func makeVerifiablePackage(t *testing.T, digest string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "bin"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bin", "gadget"), []byte("prebuilt gadget"), 0755); err != nil {
		t.Fatal(err)
	}
	writeManifest(t, dir, fmt.Sprintf(`{
		"name": "demo",
		"sources": [{"os": "linux", "arch": "amd64", "path": "bin/gadget", "sha256": %q}]
	}`, digest))
	return dir
}

func TestRun_VerifiesSourceDigests(t *testing.T) {
	t.Setenv(SignerEnv, testSignerSURI)
	t.Setenv(EVMSignerEnv, testEVMKey)
	signers, err := RequireSigners()
	if err != nil {
		t.Fatalf("RequireSigners failed: %v", err)
	}

	sum := sha256.Sum256([]byte("prebuilt gadget"))
	client := &fakeChain{nextID: 1}
	pkg := makeVerifiablePackage(t, hex.EncodeToString(sum[:]))

	if _, err := Run(context.Background(), testConfig(), nil, client, signers, Request{Package: "demo", PackageDir: pkg}); err != nil {
		t.Fatalf("Run with matching source digest failed: %v", err)
	}
	if len(client.submitted) != 1 {
		t.Errorf("submitted %d extrinsics, want 1", len(client.submitted))
	}
}

func TestRun_RejectsMismatchedSourceDigest(t *testing.T) {
	t.Setenv(SignerEnv, testSignerSURI)
	t.Setenv(EVMSignerEnv, testEVMKey)
	signers, err := RequireSigners()
	if err != nil {
		t.Fatalf("RequireSigners failed: %v", err)
	}

	client := &fakeChain{nextID: 1}
	pkg := makeVerifiablePackage(t, strings.Repeat("00", 32))

	if _, err := Run(context.Background(), testConfig(), nil, client, signers, Request{Package: "demo", PackageDir: pkg}); err == nil {
		t.Fatal("expected error for mismatched source digest")
	}
	if len(client.submitted) != 0 {
		t.Error("nothing should be submitted when source verification fails")
	}
	// Verification runs before bundling, so no bundle may be written.
	if _, err := os.Stat(filepath.Join(pkg, "dist")); !os.IsNotExist(err) {
		t.Errorf("dist directory should not exist after rejected verification, stat err = %v", err)
	}
}

func TestRun_RecordsFailedSubmission(t *testing.T) {
	t.Setenv(SignerEnv, testSignerSURI)
	t.Setenv(EVMSignerEnv, testEVMKey)
	signers, err := RequireSigners()
	if err != nil {
		t.Fatalf("RequireSigners failed: %v", err)
	}

	store := newRunStore(t)
	client := &fakeChain{submitErr: fmt.Errorf("rpc error 1010: Invalid Transaction")}
	pkg := makeDeployablePackage(t)

	if _, err := Run(context.Background(), testConfig(), store, client, signers, Request{Package: "demo", PackageDir: pkg}); err == nil {
		t.Fatal("expected error from failed submission")
	}

	rows, err := store.GetDeploymentsByStatus(model.StatusFailed)
	if err != nil {
		t.Fatalf("GetDeploymentsByStatus failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("failed rows = %d, want 1", len(rows))
	}
}

func TestRun_MissingManifest(t *testing.T) {
	t.Setenv(SignerEnv, testSignerSURI)
	t.Setenv(EVMSignerEnv, testEVMKey)
	signers, err := RequireSigners()
	if err != nil {
		t.Fatalf("RequireSigners failed: %v", err)
	}

	client := &fakeChain{}
	_, err = Run(context.Background(), testConfig(), nil, client, signers, Request{Package: "nope", PackageDir: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
	if len(client.submitted) != 0 {
		t.Error("nothing should be submitted without a manifest")
	}
}
