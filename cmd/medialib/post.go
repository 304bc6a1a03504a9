package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/client"
	"github.com/alfredjeanlab/medialib/internal/model"
)

var postCmd = &cobra.Command{
	Use:     "post",
	Short:   "Manage posts",
	GroupID: "library",
}

var postCreateCmd = &cobra.Command{
	Use:   "create <media-id>...",
	Short: "Create a post for one or more media items",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, _ := cmd.Flags().GetString("channel")
		subreddit, _ := cmd.Flags().GetString("subreddit")
		caption, _ := cmd.Flags().GetString("caption")
		status, _ := cmd.Flags().GetString("status")

		p, err := mediaClient.CreatePost(cmd.Context(), &client.CreatePostRequest{
			ChannelID:   channel,
			SubredditID: subreddit,
			Caption:     caption,
			Status:      model.PostStatus(status),
			MediaIDs:    args,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s, %d media)\n", p.ID, p.Status, len(p.MediaIDs))
		return nil
	},
}

func init() {
	postCreateCmd.Flags().String("channel", "", "channel id (required)")
	postCreateCmd.Flags().String("subreddit", "", "subreddit id")
	postCreateCmd.Flags().String("caption", "", "post caption")
	postCreateCmd.Flags().String("status", "", "draft, scheduled or posted (default draft)")
	_ = postCreateCmd.MarkFlagRequired("channel")

	postCmd.AddCommand(postCreateCmd)
}
