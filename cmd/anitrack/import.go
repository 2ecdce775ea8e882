package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	importCmd := &cobra.Command{
		Use:   "import <username|url>",
		Short: "Import a user's remote collection",
		Long: `Imports a Bangumi user's collection shelf: series are created or
updated, episodes synced, and remote ratings merged into local reviews
(local reviews always win).

The argument is either a username (combined with --kind) or a full
collection page URL like https://bgm.tv/anime/list/<user>/collect.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	importCmd.Flags().StringP("kind", "k", "collect", "Collection kind: wish, collect, in_progress, on_hold, dropped")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	kind, _ := cmd.Flags().GetString("kind")

	body := map[string]any{}
	if strings.Contains(args[0], "/") {
		body["url"] = args[0]
	} else {
		body["username"] = args[0]
		body["kind"] = kind
	}

	var result ImportResponse
	client := NewClient(serverURL)
	if err := client.post("/api/v1/import", body, &result); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	fmt.Printf("Import complete: %d added, %d updated, %d failed\n", result.Added, result.Updated, result.Failed)
	for _, soft := range result.Soft {
		fmt.Printf("  warning (%s): %s\n", soft.Op, soft.Reason)
	}
	return nil
}
