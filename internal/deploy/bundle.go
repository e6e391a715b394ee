// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package deploy

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/tanglekit/tangle-cli/internal/model"
)

// distDirName is where bundles are written inside the package directory.
// It is excluded from the bundle itself.
const distDirName = "dist"

// Bundle packs the package directory into dist/<name>.tar.zst and returns
// the bundle path and the sha256 hex digest of the compressed bundle. The
// digest is registered on-chain so node operators can verify what they
// fetch.
func Bundle(packageDir, name string) (string, string, error) {
	distDir := filepath.Join(packageDir, distDirName)
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return "", "", fmt.Errorf("create dist directory: %w", err)
	}
	outPath := filepath.Join(distDir, name+".tar.zst")

	out, err := os.Create(outPath)
	if err != nil {
		return "", "", fmt.Errorf("create bundle: %w", err)
	}
	defer func() { _ = out.Close() }()

	hasher := sha256.New()
	zw, err := zstd.NewWriter(io.MultiWriter(out, hasher))
	if err != nil {
		return "", "", fmt.Errorf("init zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	err = filepath.Walk(packageDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(packageDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		// Skip previous bundles and VCS metadata.
		if rel == distDirName || strings.HasPrefix(rel, distDirName+string(filepath.Separator)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() && info.Name() == ".git" {
			return filepath.SkipDir
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		_, err = io.Copy(tw, f)
		return err
	})
	if err != nil {
		return "", "", fmt.Errorf("bundle %s: %w", packageDir, err)
	}

	if err := tw.Close(); err != nil {
		return "", "", fmt.Errorf("finalize tar: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", "", fmt.Errorf("finalize zstd: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", "", fmt.Errorf("flush bundle: %w", err)
	}

	return outPath, hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifyArtifact compares the sha256 of a built artifact file against the
// digest recorded in the manifest source entry. An empty expected digest
// skips verification.
func VerifyArtifact(path, expected string) error {
	if expected == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer func() { _ = f.Close() }()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return fmt.Errorf("hash artifact: %w", err)
	}
	got := hex.EncodeToString(hasher.Sum(nil))
	if !strings.EqualFold(got, expected) {
		return fmt.Errorf("artifact hash %s mismatched expected hash %s", got, expected)
	}
	return nil
}

// VerifySources checks every manifest source that records both a local
// path and a digest against the binary on disk. A mismatch would register
// a blueprint whose binaries no operator can verify, so it aborts the
// deploy.
func VerifySources(packageDir string, sources []model.BinarySource) error {
	for _, src := range sources {
		if src.Path == "" || src.Sha256 == "" {
			continue
		}
		if err := VerifyArtifact(filepath.Join(packageDir, src.Path), src.Sha256); err != nil {
			return fmt.Errorf("source %s (%s/%s): %w", src.Path, src.OS, src.Arch, err)
		}
	}
	return nil
}
