package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	syncCmd := &cobra.Command{
		Use:   "sync <series-id>",
		Short: "Sync one series against the catalog",
		Long:  "Fetches current catalog data for the series and upserts its episodes and cover.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSync,
	}
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid series ID: %s", args[0])
	}

	var result SyncResponse
	client := NewClient(serverURL)
	if err := client.post(fmt.Sprintf("/api/v1/series/%d/sync", id), nil, &result); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(result)
		return nil
	}

	fmt.Printf("Synced series %d: %d added, %d updated", result.SeriesID, result.EpisodesAdded, result.EpisodesUpdated)
	if result.CoverRefreshed {
		fmt.Print(", cover refreshed")
	}
	fmt.Println()

	for _, soft := range result.Soft {
		fmt.Printf("  warning (%s): %s\n", soft.Op, soft.Reason)
	}
	return nil
}
