package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "trafficq",
	Short: "Compare normal and quantum traffic-light scheduling at a four-way junction.",
	Long: `trafficq runs side-by-side simulations of a fixed round-robin signal plan ` +
		`("normal") and a greedy fullest-lane-first plan with ambulance priority ("quantum"), ` +
		`renders every step, and writes a comparison report.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
