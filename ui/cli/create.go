// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"

	log "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/scaffold"
)

var createName string
var createTemplate string

// createCmd represents the 'create' command. It scaffolds a new blueprint
// project directory in the current working directory.
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold a new blueprint project",
	Long: `Creates a new blueprint project directory named after the blueprint.
The directory contains a blueprint.json manifest, a source stub and
supporting files so that 'gadget deploy' works out of the box.`,
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		log.Infof("%s", i18n.T("create.scaffolding", createName))
		dir, err := scaffold.Create(".", createName, createTemplate)
		if err != nil {
			return err
		}
		if err := db.LogAction(i18n.T("audit.action_create"), fmt.Sprintf("blueprint: %s", createName)); err != nil {
			log.Debugf("could not record audit entry: %v", err)
		}
		fmt.Println(i18n.T("create.success", dir))
		fmt.Println(i18n.T("create.next_steps"))
		return nil
	},
}
