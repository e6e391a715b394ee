// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tanglekit/tangle-cli/internal/chain"
	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/deploy"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/state"
)

var deployRPCURL string
var deployPackage string

// deployCmd represents the 'deploy' command. It bundles the package
// artifact, signs a create-blueprint extrinsic with the SIGNER key and
// submits it to the configured Tangle node.
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a blueprint package to the Tangle network",
	Long: `Bundles the package directory, builds a create-blueprint extrinsic
carrying the blueprint metadata and the artifact hash, signs it with the
key from the SIGNER environment variable and submits it over JSON-RPC.

Both SIGNER (a Substrate secret URI) and EVM_SIGNER (a hex-encoded
secp256k1 key) must be set in the environment.`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		// A trailing "///" means the passphrase is supplied interactively
		// rather than embedded in the environment.
		if err := promptSignerPassphrase(); err != nil {
			return err
		}

		signers, err := deploy.RequireSigners()
		if err != nil {
			return err
		}
		defer signers.Substrate.Zero()
		defer signers.EVM.Zero()

		rpcURL := deployRPCURL
		if rpcURL == "" {
			rpcURL = appConfig.RPC.URL
		}
		client, err := chain.NewClient(rpcURL)
		if err != nil {
			return err
		}

		result, err := deploy.Run(cmd.Context(), appConfig, db.GetStore(), client, signers, deploy.Request{
			Package: deployPackage,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Blueprint #%d created successfully by %s with extrinsic hash: %s\n",
			result.BlueprintID, result.Signer, result.ExtrinsicHash)
		return nil
	},
}

// promptSignerPassphrase completes a SIGNER value ending in "///" by
// asking for the passphrase on the terminal. The passphrase is kept in
// the in-memory cache so a session only asks once.
func promptSignerPassphrase() error {
	raw := os.Getenv(deploy.SignerEnv)
	if !strings.HasSuffix(raw, "///") {
		return nil
	}

	pass := state.PassphraseCache.Get()
	if pass == nil {
		fmt.Fprint(os.Stderr, i18n.T("deploy.passphrase_prompt"))
		entered, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return fmt.Errorf(i18n.T("deploy.error_read_passphrase"), err)
		}
		state.PassphraseCache.Set(entered)
		pass = entered
	}
	defer func() {
		for i := range pass {
			pass[i] = 0
		}
	}()

	if err := os.Setenv(deploy.SignerEnv, raw+string(pass)); err != nil {
		log.Errorf("could not update %s: %v", deploy.SignerEnv, err)
		return err
	}
	return nil
}
