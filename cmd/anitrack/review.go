package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	reviewCmd := &cobra.Command{
		Use:   "review",
		Short: "View and set reviews",
	}

	getCmd := &cobra.Command{
		Use:   "get <series-id>",
		Short: "Show the review of a series",
		Args:  cobra.ExactArgs(1),
		RunE:  runReviewGet,
	}
	getCmd.Flags().Bool("episode", false, "Treat the ID as an episode ID")

	setCmd := &cobra.Command{
		Use:   "set <series-id>",
		Short: "Set the review of a series",
		Args:  cobra.ExactArgs(1),
		RunE:  runReviewSet,
	}
	setCmd.Flags().Bool("episode", false, "Treat the ID as an episode ID")
	setCmd.Flags().Int("score", -1, "Score from 0 to 10")
	setCmd.Flags().String("comment", "", "Review comment")

	reviewCmd.AddCommand(getCmd)
	reviewCmd.AddCommand(setCmd)
	rootCmd.AddCommand(reviewCmd)
}

func reviewPath(cmd *cobra.Command, arg string) (string, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return "", fmt.Errorf("invalid ID: %s", arg)
	}
	episode, _ := cmd.Flags().GetBool("episode")
	if episode {
		return fmt.Sprintf("/api/v1/episodes/%d/review", id), nil
	}
	return fmt.Sprintf("/api/v1/series/%d/review", id), nil
}

func runReviewGet(cmd *cobra.Command, args []string) error {
	path, err := reviewPath(cmd, args[0])
	if err != nil {
		return err
	}

	var review ReviewResponse
	client := NewClient(serverURL)
	if err := client.get(path, &review); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(review)
		return nil
	}
	printReview(&review)
	return nil
}

func runReviewSet(cmd *cobra.Command, args []string) error {
	path, err := reviewPath(cmd, args[0])
	if err != nil {
		return err
	}

	score, _ := cmd.Flags().GetInt("score")
	comment, _ := cmd.Flags().GetString("comment")

	body := map[string]any{}
	if score >= 0 {
		body["score"] = score
	}
	if comment != "" {
		body["comment"] = comment
	}
	if len(body) == 0 {
		return fmt.Errorf("nothing to set: pass --score and/or --comment")
	}

	var review ReviewResponse
	client := NewClient(serverURL)
	if err := client.put(path, body, &review); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(review)
		return nil
	}
	printReview(&review)
	return nil
}

func printReview(r *ReviewResponse) {
	if r.Score != nil {
		fmt.Printf("Score:   %d/10\n", *r.Score)
	}
	if r.Comment != nil && *r.Comment != "" {
		fmt.Printf("Comment: %s\n", *r.Comment)
	}
	fmt.Printf("At:      %s\n", r.ReviewedAt)
}
