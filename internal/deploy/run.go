// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package deploy

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tanglekit/tangle-cli/internal/chain"
	"github.com/tanglekit/tangle-cli/internal/config"
	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/keys"
	"github.com/tanglekit/tangle-cli/internal/logging"
	"github.com/tanglekit/tangle-cli/internal/model"
)

// Environment variables holding the signer credentials.
const (
	SignerEnv    = "SIGNER"
	EVMSignerEnv = "EVM_SIGNER"
)

// ChainClient is the node API surface the pipeline needs. The chain
// package provides the JSON-RPC implementation; tests provide fakes.
type ChainClient interface {
	URL() string
	GetRuntimeVersion(ctx context.Context) (*chain.RuntimeVersion, error)
	GetGenesisHash(ctx context.Context) ([]byte, error)
	GetAccountNextIndex(ctx context.Context, address string) (uint64, error)
	NextBlueprintID(ctx context.Context) (uint64, error)
	SubmitExtrinsic(ctx context.Context, extrinsic []byte) (string, error)
}

// Request describes one `gadget deploy` invocation.
type Request struct {
	Package string
	// PackageDir overrides the package directory (defaults to ./<Package>).
	PackageDir string
}

// Result carries everything the CLI needs to print the confirmation line
// and everything the registry records.
type Result struct {
	BlueprintName string
	BlueprintID   uint64
	Signer        string
	ExtrinsicHash string
	ArtifactHash  string
}

// Signers bundles the two parsed signer credentials.
type Signers struct {
	Substrate *keys.SubstrateSigner
	EVM       *keys.EVMSigner
}

// RequireSigners reads and parses SIGNER and EVM_SIGNER from the
// environment. It fails before any network I/O when either is missing or
// malformed.
func RequireSigners() (*Signers, error) {
	rawSigner := os.Getenv(SignerEnv)
	if rawSigner == "" {
		return nil, fmt.Errorf(i18n.T("deploy.error_missing_env"), SignerEnv)
	}
	rawEVM := os.Getenv(EVMSignerEnv)
	if rawEVM == "" {
		return nil, fmt.Errorf(i18n.T("deploy.error_missing_env"), EVMSignerEnv)
	}

	suri, err := keys.ParseSURI(rawSigner)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_parse_signer"), err)
	}
	sub, err := keys.NewSubstrateSigner(suri)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_parse_signer"), err)
	}
	evm, err := keys.NewEVMSigner(rawEVM)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_parse_evm_signer"), err)
	}
	return &Signers{Substrate: sub, EVM: evm}, nil
}

// Run executes the deployment pipeline: load manifest, bundle the
// artifact, build and sign the create-blueprint extrinsic, submit it, and
// record the outcome in the local registry.
func Run(ctx context.Context, cfg config.Config, store db.Store, client ChainClient, signers *Signers, req Request) (*Result, error) {
	packageDir := req.PackageDir
	if packageDir == "" {
		packageDir = req.Package
	}

	bp, err := LoadManifest(packageDir)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_load_manifest"), req.Package, err)
	}

	if err := VerifySources(packageDir, bp.Sources); err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_verify_source"), err)
	}

	logging.Infof("%s", i18n.T("deploy.bundling", bp.Name))
	bundlePath, artifactHash, err := Bundle(packageDir, bp.Name)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_bundle"), err)
	}
	logging.Debugf("bundle written to %s (sha256 %s)", bundlePath, artifactHash)

	signerAddress := signers.Substrate.SS58Address(cfg.Chain.SS58Prefix)

	rv, err := client.GetRuntimeVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_connect"), client.URL(), err)
	}
	genesis, err := client.GetGenesisHash(ctx)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_connect"), client.URL(), err)
	}
	nonce, err := client.GetAccountNextIndex(ctx, signerAddress)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_connect"), client.URL(), err)
	}
	blueprintID, err := client.NextBlueprintID(ctx)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_next_id"), err)
	}

	manager := bp.Manager
	if manager == "" {
		manager = signers.EVM.Address()
	}
	managerBytes, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(manager), "0x"))
	if err != nil || len(managerBytes) != 20 {
		return nil, fmt.Errorf(i18n.T("deploy.error_parse_evm_signer"), fmt.Errorf("invalid manager address %q", manager))
	}

	metadata, err := json.Marshal(bp)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_load_manifest"), req.Package, err)
	}
	artifactHashBytes, err := hex.DecodeString(artifactHash)
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_bundle"), err)
	}

	call, err := chain.CreateBlueprintCall{
		PalletIndex:  cfg.Chain.ServicesPalletIndex,
		CallIndex:    cfg.Chain.CreateCallIndex,
		Metadata:     metadata,
		Manager:      managerBytes,
		ArtifactHash: artifactHashBytes,
	}.Encode()
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_submit"), err)
	}

	ext, err := chain.NewSignedExtrinsic(signers.Substrate, call, chain.SigningContext{
		Nonce:              nonce,
		SpecVersion:        rv.SpecVersion,
		TransactionVersion: rv.TransactionVersion,
		GenesisHash:        genesis,
	})
	if err != nil {
		return nil, fmt.Errorf(i18n.T("deploy.error_submit"), err)
	}

	logging.Infof("%s", i18n.T("deploy.submitting", client.URL()))
	extHash, err := client.SubmitExtrinsic(ctx, ext)
	if err != nil {
		recordDeployment(store, model.Deployment{
			BlueprintName: bp.Name,
			BlueprintID:   blueprintID,
			RPCURL:        client.URL(),
			Signer:        signerAddress,
			ExtrinsicHash: chain.ExtrinsicHash(ext),
			ArtifactHash:  artifactHash,
			Status:        model.StatusFailed,
		})
		return nil, fmt.Errorf(i18n.T("deploy.error_submit"), err)
	}
	if extHash == "" {
		extHash = chain.ExtrinsicHash(ext)
	}

	recordDeployment(store, model.Deployment{
		BlueprintName: bp.Name,
		BlueprintID:   blueprintID,
		RPCURL:        client.URL(),
		Signer:        signerAddress,
		ExtrinsicHash: extHash,
		ArtifactHash:  artifactHash,
		Status:        model.StatusSubmitted,
	})

	return &Result{
		BlueprintName: bp.Name,
		BlueprintID:   blueprintID,
		Signer:        signerAddress,
		ExtrinsicHash: extHash,
		ArtifactHash:  artifactHash,
	}, nil
}

// recordDeployment persists the outcome locally. Registry failures must
// not mask a successful (or already-failed) submission, so they are only
// logged. Retries cover transient sqlite lock contention.
func recordDeployment(store db.Store, d model.Deployment) {
	if store == nil {
		return
	}
	var err error
	for i := 0; i < 5; i++ {
		if _, err = store.AddDeployment(d); err == nil || !strings.Contains(err.Error(), "database is locked") {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		logging.Warnf(i18n.T("deploy.error_record"), err)
		return
	}
	_ = store.LogAction(i18n.T("audit.action_deploy"), fmt.Sprintf("blueprint: %s#%d extrinsic: %s", d.BlueprintName, d.BlueprintID, d.ExtrinsicHash))
}
