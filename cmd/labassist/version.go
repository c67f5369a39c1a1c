package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/labassist/internal/version"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		// Needs neither config nor logger.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "labassist %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.Date)
		},
	}
}
