// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "staffdesk",
	Short: "StaffDesk is the employee portal service fronting the HR backend",
	Long: `StaffDesk is the employee portal service for the company intranet.
It signs employees in against the HR backend, composes role- and
permission-gated navigation and dashboards, aggregates notifications and
delivers realtime events (chat, alerts, permission changes) to the portal.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
