package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	serverURL  string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "anitrack",
	Short: "CLI client for the anitrack viewing tracker",
	Long: `anitrack - CLI client for the anitrack viewing tracker

Track series and episodes, keep reviews, and pull catalog data
from Bangumi by reference or by bulk collection import.

Run 'anitrackd' to start the server daemon.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8686", "Server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("anitrack {{.Version}}\n")
}
