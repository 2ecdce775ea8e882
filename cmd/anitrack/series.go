package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	seriesCmd := &cobra.Command{
		Use:   "series",
		Short: "Manage tracked series",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked series",
		RunE:  runSeriesList,
	}
	listCmd.Flags().StringP("title", "t", "", "Filter by title substring")
	listCmd.Flags().IntP("limit", "l", 50, "Maximum number of items to return")

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a series to the tracker",
		RunE:  runSeriesAdd,
	}
	addCmd.Flags().String("title", "", "Series title (required)")
	addCmd.Flags().Int64("bgm-id", 0, "Bangumi subject ID to link and sync against")
	addCmd.Flags().Int("episodes", 0, "Expected number of main episodes")
	addCmd.Flags().Bool("sync", false, "Sync catalog data immediately after adding")
	_ = addCmd.MarkFlagRequired("title")

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search tracked series by title",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeriesSearch,
	}
	searchCmd.Flags().Bool("best", false, "Return only the single best match")

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a series",
		Long:  "Removes a series along with its episodes and reviews.",
		Args:  cobra.ExactArgs(1),
		RunE:  runSeriesDelete,
	}

	seriesCmd.AddCommand(listCmd)
	seriesCmd.AddCommand(addCmd)
	seriesCmd.AddCommand(searchCmd)
	seriesCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(seriesCmd)
}

func runSeriesList(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	limit, _ := cmd.Flags().GetInt("limit")

	params := url.Values{}
	if title != "" {
		params.Set("title", title)
	}
	params.Set("limit", strconv.Itoa(limit))

	var data ListSeriesResponse
	client := NewClient(serverURL)
	if err := client.get("/api/v1/series?"+params.Encode(), &data); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(data)
		return nil
	}

	if len(data.Items) == 0 {
		fmt.Println("No series tracked.")
		return nil
	}

	fmt.Printf("Series (%d):\n\n", data.Total)
	fmt.Printf("  %-4s %-45s %-10s %s\n", "ID", "TITLE", "EPISODES", "REF")
	fmt.Println("  " + strings.Repeat("-", 75))
	for i := range data.Items {
		item := &data.Items[i]
		fmt.Printf("  %-4d %-45s %-10s %s\n",
			item.ID,
			truncate(item.Title, 45),
			intOrDash(item.TotalEpisodes),
			strOrDash(item.ExternalRef))
	}
	if data.Total > len(data.Items) {
		fmt.Printf("\n  Showing %d of %d items. Use --limit to see more.\n", len(data.Items), data.Total)
	}
	return nil
}

func runSeriesAdd(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	bgmID, _ := cmd.Flags().GetInt64("bgm-id")
	episodes, _ := cmd.Flags().GetInt("episodes")
	syncNow, _ := cmd.Flags().GetBool("sync")

	body := map[string]any{"title": title}
	if bgmID > 0 {
		body["external_ref"] = fmt.Sprintf("BGM-%d", bgmID)
	}
	if episodes > 0 {
		body["total_episodes"] = episodes
	}

	path := "/api/v1/series"
	if syncNow {
		path += "?sync=true"
	}

	var created SeriesResponse
	client := NewClient(serverURL)
	if err := client.post(path, body, &created); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(created)
		return nil
	}

	fmt.Printf("Added: %s [ID: %d", created.Title, created.ID)
	if created.ExternalRef != nil {
		fmt.Printf(", ref: %s", *created.ExternalRef)
	}
	fmt.Println("]")
	return nil
}

func runSeriesSearch(cmd *cobra.Command, args []string) error {
	best, _ := cmd.Flags().GetBool("best")

	params := url.Values{}
	params.Set("q", args[0])
	if best {
		params.Set("best", "true")
	}

	var data SearchResponse
	client := NewClient(serverURL)
	if err := client.get("/api/v1/series/search?"+params.Encode(), &data); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(data)
		return nil
	}

	if len(data.Items) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	for _, item := range data.Items {
		fmt.Printf("  [%d] %s  (%.2f, %s)\n", item.Series.ID, item.Series.Title, item.Score, item.Confidence)
	}
	return nil
}

func runSeriesDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	client := NewClient(serverURL)

	// Fetch first so the confirmation names what was removed.
	var sr SeriesResponse
	if err := client.get(fmt.Sprintf("/api/v1/series/%d", id), &sr); err != nil {
		return err
	}
	if err := client.delete(fmt.Sprintf("/api/v1/series/%d", id)); err != nil {
		return err
	}

	fmt.Printf("Deleted: %s [ID: %d]\n", sr.Title, sr.ID)
	return nil
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

func strOrDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func intOrDash(i *int) string {
	if i == nil {
		return "-"
	}
	return strconv.Itoa(*i)
}
