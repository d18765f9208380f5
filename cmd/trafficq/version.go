package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reyhaanzameer-7744/traffic-Q/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version, git SHA and build time.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
