package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	episodesCmd := &cobra.Command{
		Use:   "episodes <series-id>",
		Short: "List episodes of a series",
		Args:  cobra.ExactArgs(1),
		RunE:  runEpisodes,
	}
	rootCmd.AddCommand(episodesCmd)
}

func runEpisodes(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid series ID: %s", args[0])
	}

	var data ListEpisodesResponse
	client := NewClient(serverURL)
	if err := client.get(fmt.Sprintf("/api/v1/series/%d/episodes", id), &data); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(data)
		return nil
	}

	if len(data.Items) == 0 {
		fmt.Println("No episodes.")
		return nil
	}

	fmt.Printf("Episodes (%d):\n\n", data.Total)
	fmt.Printf("  %-4s %-8s %-6s %-40s %s\n", "ID", "CODE", "TYPE", "TITLE", "AIRED")
	fmt.Println("  " + strings.Repeat("-", 75))
	for i := range data.Items {
		ep := &data.Items[i]
		aired := "-"
		if ep.AirDate != nil && len(*ep.AirDate) >= 10 {
			aired = (*ep.AirDate)[:10]
		}
		fmt.Printf("  %-4d %-8s %-6s %-40s %s\n",
			ep.ID, ep.Code, ep.Type, truncate(strOrDash(ep.Title), 40), aired)
	}
	return nil
}
