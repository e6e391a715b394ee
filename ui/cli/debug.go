// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tanglekit/tangle-cli/internal/deploy"
)

var debugCmd = &cobra.Command{
	Use:   "debug",
	Short: "Dump debug information about config, env, flags and settings",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("--- GADGET DEBUG ---")
		// Config file used
		used := viper.ConfigFileUsed()
		fmt.Printf("Config file used: %s\n", used)

		// Viper settings
		settings := viper.AllSettings()
		b, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			log.Errorf("could not marshal viper settings: %v", err)
		} else {
			fmt.Println("-- viper.AllSettings() --")
			fmt.Println(string(b))
		}

		// Flags
		fmt.Println("-- flags --")
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			fmt.Printf("%s = %s\n", f.Name, f.Value.String())
		})

		// Environment variables of interest. Signer material is only
		// reported as present or absent, never echoed.
		fmt.Println("-- environment (GADGET_*) --")
		for _, e := range os.Environ() {
			if strings.HasPrefix(e, "GADGET_") {
				fmt.Println(e)
			}
		}
		for _, name := range []string{deploy.SignerEnv, deploy.EVMSignerEnv} {
			if os.Getenv(name) != "" {
				fmt.Printf("%s is set\n", name)
			} else {
				fmt.Printf("%s is not set\n", name)
			}
		}

		fmt.Printf("PWD=%s\n", os.Getenv("PWD"))
		fmt.Println("--- END DEBUG ---")
	},
}
