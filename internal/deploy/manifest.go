// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

// package deploy implements the deployment pipeline behind `gadget
// deploy`: manifest loading, artifact bundling, extrinsic construction and
// submission, and local registry bookkeeping.
package deploy

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tanglekit/tangle-cli/internal/model"
	"github.com/tanglekit/tangle-cli/internal/scaffold"
)

// ManifestFileName is the blueprint manifest file expected in every
// package directory.
const ManifestFileName = "blueprint.json"

// LoadManifest reads and validates the blueprint manifest of a package
// directory.
func LoadManifest(packageDir string) (*model.Blueprint, error) {
	path := filepath.Join(packageDir, ManifestFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var bp model.Blueprint
	if err := json.Unmarshal(raw, &bp); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if bp.Name == "" {
		return nil, fmt.Errorf("%s: blueprint name must not be empty", path)
	}
	if err := scaffold.ValidateName(bp.Name); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for i, src := range bp.Sources {
		if src.OS == "" || src.Arch == "" {
			return nil, fmt.Errorf("%s: source %d must set os and arch", path, i)
		}
	}
	return &bp, nil
}
