// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package model defines the core domain entities shared across the CLI,
// the local registry and the TUI.
package model

import "fmt"

// BinarySource describes one prebuilt gadget binary referenced by a
// blueprint manifest. When Path and Sha256 are both set, the deploy
// pipeline verifies the local binary against the digest before anything is
// submitted on-chain; node operators re-verify the same digest after
// fetching.
type BinarySource struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
	// Path locates the prebuilt binary relative to the package directory.
	Path   string `json:"path,omitempty"`
	Sha256 string `json:"sha256,omitempty"`
}

// Blueprint is the manifest of a deployable unit of logic (a "gadget")
// registered with the Services pallet. It is read from the package's
// blueprint.json file.
type Blueprint struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	// Manager is the EVM address (0x-hex) of the blueprint manager
	// contract, derived from EVM_SIGNER at deploy time if empty.
	Manager string         `json:"manager,omitempty"`
	Sources []BinarySource `json:"sources,omitempty"`
}

// Deployment is a row in the local deployment registry. It records the
// outcome of a `gadget deploy` invocation.
type Deployment struct {
	ID            int
	BlueprintName string
	BlueprintID   uint64
	RPCURL        string
	Signer        string // SS58 address of the submitting account
	ExtrinsicHash string // 0x-hex blake2b-256 of the submitted extrinsic
	ArtifactHash  string // sha256 of the bundled artifact
	Status        string // "submitted" or "failed"
	CreatedAt     string
}

// String returns the name#id representation used in listings and the TUI.
func (d Deployment) String() string {
	return fmt.Sprintf("%s#%d", d.BlueprintName, d.BlueprintID)
}

// Deployment status values stored in the registry.
const (
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
)

// AuditLogEntry represents a single audit log record of a CLI action.
type AuditLogEntry struct {
	ID        int
	Timestamp string
	Username  string
	Action    string
	Details   string
}
