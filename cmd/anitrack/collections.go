package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	collectionsCmd := &cobra.Command{
		Use:   "collections",
		Short: "Manage local collections",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE:  runCollectionsList,
	}

	createCmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a collection",
		Args:  cobra.ExactArgs(1),
		RunE:  runCollectionsCreate,
	}
	createCmd.Flags().String("description", "", "Collection description")

	showCmd := &cobra.Command{
		Use:   "show <id>",
		Short: "List the series in a collection",
		Args:  cobra.ExactArgs(1),
		RunE:  runCollectionsShow,
	}

	addCmd := &cobra.Command{
		Use:   "add <collection-id> <series-id>",
		Short: "Add a series to a collection",
		Args:  cobra.ExactArgs(2),
		RunE:  runCollectionsAdd,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a collection (series themselves are kept)",
		Args:  cobra.ExactArgs(1),
		RunE:  runCollectionsDelete,
	}

	collectionsCmd.AddCommand(listCmd)
	collectionsCmd.AddCommand(createCmd)
	collectionsCmd.AddCommand(showCmd)
	collectionsCmd.AddCommand(addCmd)
	collectionsCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(collectionsCmd)
}

func runCollectionsList(cmd *cobra.Command, args []string) error {
	var collections []CollectionResponse
	client := NewClient(serverURL)
	if err := client.get("/api/v1/collections", &collections); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(collections)
		return nil
	}

	if len(collections) == 0 {
		fmt.Println("No collections.")
		return nil
	}
	for _, c := range collections {
		fmt.Printf("  [%d] %s", c.ID, c.Name)
		if c.Description != nil && *c.Description != "" {
			fmt.Printf(" - %s", *c.Description)
		}
		fmt.Println()
	}
	return nil
}

func runCollectionsCreate(cmd *cobra.Command, args []string) error {
	description, _ := cmd.Flags().GetString("description")

	body := map[string]any{"name": args[0]}
	if description != "" {
		body["description"] = description
	}

	var created CollectionResponse
	client := NewClient(serverURL)
	if err := client.post("/api/v1/collections", body, &created); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(created)
		return nil
	}
	fmt.Printf("Created: %s [ID: %d]\n", created.Name, created.ID)
	return nil
}

func runCollectionsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	var members []SeriesResponse
	client := NewClient(serverURL)
	if err := client.get(fmt.Sprintf("/api/v1/collections/%d/series", id), &members); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(members)
		return nil
	}

	if len(members) == 0 {
		fmt.Println("Collection is empty.")
		return nil
	}
	for _, sr := range members {
		fmt.Printf("  [%d] %s\n", sr.ID, sr.Title)
	}
	return nil
}

func runCollectionsAdd(cmd *cobra.Command, args []string) error {
	collectionID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid collection ID: %s", args[0])
	}
	seriesID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid series ID: %s", args[1])
	}

	client := NewClient(serverURL)
	body := map[string]any{"series_id": seriesID}
	if err := client.post(fmt.Sprintf("/api/v1/collections/%d/series", collectionID), body, nil); err != nil {
		return err
	}
	fmt.Printf("Added series %d to collection %d\n", seriesID, collectionID)
	return nil
}

func runCollectionsDelete(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid ID: %s", args[0])
	}

	client := NewClient(serverURL)
	if err := client.delete(fmt.Sprintf("/api/v1/collections/%d", id)); err != nil {
		return err
	}
	fmt.Printf("Deleted collection %d\n", id)
	return nil
}
