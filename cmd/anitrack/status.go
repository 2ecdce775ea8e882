package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Check server status",
		RunE:  runStatus,
	}
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	var status map[string]string
	client := NewClient(serverURL)
	if err := client.get("/api/v1/status", &status); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(status)
		return nil
	}
	fmt.Printf("Server: %s (%s)\n", serverURL, status["status"])
	return nil
}
