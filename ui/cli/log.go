// Copyright (c) 2025 Tangle CLI Team
// Tangle CLI - blueprint scaffolding and deployment for the Tangle network
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/tanglekit/tangle-cli/internal/db"
	"github.com/tanglekit/tangle-cli/internal/i18n"
	"github.com/tanglekit/tangle-cli/internal/model"
)

var logLimit int

// logCmd represents the 'log' command. It prints the local audit trail of
// scaffold and deploy actions.
var logCmd = &cobra.Command{
	Use:     "log",
	Short:   "Show the local audit log",
	Args:    cobra.NoArgs,
	PreRunE: setupDefaultServices,
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []model.AuditLogEntry
		var err error
		if logLimit > 0 {
			entries, err = db.GetRecentAuditLogEntries(logLimit)
		} else {
			entries, err = db.GetAllAuditLogEntries()
		}
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println(i18n.T("log.empty"))
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Timestamp, e.Username, e.Action, e.Details)
		}
		return w.Flush()
	},
}
