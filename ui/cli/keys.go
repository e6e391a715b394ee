// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanglekit/tangle-cli/internal/deploy"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/keys"
)

// keyCmd groups signer-related subcommands.
var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Inspect the configured signer keys",
}

// keyShowCmd prints the addresses derived from SIGNER and EVM_SIGNER
// without touching the network. Secrets are never printed.
var keyShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Show the addresses of the configured signers",
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawSigner := os.Getenv(deploy.SignerEnv)
		rawEVM := os.Getenv(deploy.EVMSignerEnv)
		if rawSigner == "" && rawEVM == "" {
			fmt.Println(i18n.T("key.missing_signer"))
			fmt.Println(i18n.T("key.missing_evm_signer"))
			return nil
		}

		if rawSigner == "" {
			fmt.Println(i18n.T("key.missing_signer"))
		} else {
			suri, err := keys.ParseSURI(rawSigner)
			if err != nil {
				return fmt.Errorf(i18n.T("deploy.error_parse_signer"), err)
			}
			signer, err := keys.NewSubstrateSigner(suri)
			if err != nil {
				return fmt.Errorf(i18n.T("deploy.error_parse_signer"), err)
			}
			defer signer.Zero()
			fmt.Println(i18n.T("key.substrate_address", signer.SS58Address(appConfig.Chain.SS58Prefix)))
		}

		if rawEVM == "" {
			fmt.Println(i18n.T("key.missing_evm_signer"))
		} else {
			evm, err := keys.NewEVMSigner(rawEVM)
			if err != nil {
				return fmt.Errorf(i18n.T("deploy.error_parse_evm_signer"), err)
			}
			defer evm.Zero()
			fmt.Println(i18n.T("key.evm_address", evm.Address()))
		}
		return nil
	},
}

func init() {
	keyCmd.AddCommand(keyShowCmd)
}
