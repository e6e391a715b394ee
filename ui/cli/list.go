// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/model"
)

var listStatus string
var listSearch string

// listCmd represents the 'list' command. It prints the locally recorded
// deployments as a table.
var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List recorded blueprint deployments",
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		var deployments []model.Deployment
		var err error
		if listStatus != "" {
			deployments, err = db.GetDeploymentsByStatus(listStatus)
		} else {
			deployments, err = db.GetAllDeployments()
		}
		if err != nil {
			return err
		}
		if listSearch != "" {
			needle := strings.ToLower(listSearch)
			filtered := deployments[:0]
			for _, d := range deployments {
				if strings.Contains(strings.ToLower(d.BlueprintName), needle) ||
					strings.Contains(strings.ToLower(d.ExtrinsicHash), needle) {
					filtered = append(filtered, d)
				}
			}
			deployments = filtered
		}
		if len(deployments) == 0 {
			fmt.Println(i18n.T("list.empty"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			i18n.T("list.header_blueprint"),
			i18n.T("list.header_id"),
			i18n.T("list.header_status"),
			i18n.T("list.header_signer"),
			i18n.T("list.header_hash"),
			i18n.T("list.header_created"),
		)
		for _, d := range deployments {
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\n",
				d.BlueprintName,
				d.BlueprintID,
				d.Status,
				d.Signer,
				d.ExtrinsicHash,
				d.CreatedAt,
			)
		}
		return w.Flush()
	},
}
