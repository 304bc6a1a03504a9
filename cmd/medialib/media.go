package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/client"
	"github.com/alfredjeanlab/medialib/internal/model"
)

var mediaCmd = &cobra.Command{
	Use:     "media",
	Short:   "List and manage media",
	GroupID: "library",
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List media matching filters or a saved preset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		filters, err := filtersFromFlags(cmd)
		if err != nil {
			return err
		}
		if presetID, _ := cmd.Flags().GetString("preset"); presetID != "" {
			if filters != nil {
				return fmt.Errorf("--preset cannot be combined with --filters")
			}
			p, err := mediaClient.GetPreset(ctx, presetID)
			if err != nil {
				return fmt.Errorf("loading preset: %w", err)
			}
			if filters, err = json.Marshal(p.Filters); err != nil {
				return err
			}
		}

		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := mediaClient.SearchMedia(ctx, &client.ListMediaRequest{
			Filters: filters,
			Sort:    sort,
			Limit:   limit,
			Offset:  offset,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), resp)
		}
		printMediaTable(cmd.OutOrStdout(), resp)
		return nil
	},
}

var mediaShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a media item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := mediaClient.GetMedia(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), m)
		}
		printMediaDetail(cmd.OutOrStdout(), m)
		return nil
	},
}

var mediaAddCmd = &cobra.Command{
	Use:   "add <relative-path>",
	Short: "Register a media file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		typ, _ := cmd.Flags().GetString("type")
		size, _ := cmd.Flags().GetInt64("size")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		shoots, _ := cmd.Flags().GetStringSlice("shoot")

		m, err := mediaClient.CreateMedia(cmd.Context(), &client.CreateMediaRequest{
			RelativePath: args[0],
			Name:         name,
			Type:         model.MediaType(typ),
			Size:         size,
			Tags:         tags,
			Shoots:       shoots,
		})
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), m)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s)\n", m.ID, m.Type)
		return nil
	},
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a media item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mediaClient.DeleteMedia(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

var mediaTagCmd = &cobra.Command{
	Use:   "tag <id> <tag>",
	Short: "Tag a media item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tags, err := mediaClient.AddTag(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"media_id": args[0], "tags": tags})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s tags: %v\n", args[0], tags)
		return nil
	},
}

var mediaUntagCmd = &cobra.Command{
	Use:   "untag <id> <tag>",
	Short: "Remove a tag from a media item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mediaClient.RemoveTag(cmd.Context(), args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed tag %s from %s\n", args[1], args[0])
		return nil
	},
}

var mediaShootCmd = &cobra.Command{
	Use:   "shoot <id> <shoot>",
	Short: "Add a media item to a shoot",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		shoots, err := mediaClient.AddToShoot(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), map[string]any{"media_id": args[0], "shoots": shoots})
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s shoots: %v\n", args[0], shoots)
		return nil
	},
}

func init() {
	addFilterFlags(mediaListCmd)
	mediaListCmd.Flags().String("preset", "", "use the filters of a saved preset")
	mediaListCmd.Flags().String("sort", "", `sort column, "-" prefix for descending (e.g. -created_at)`)
	mediaListCmd.Flags().Int("limit", 50, "maximum number of results")
	mediaListCmd.Flags().Int("offset", 0, "number of results to skip")

	mediaAddCmd.Flags().String("name", "", "display name (default: file name)")
	mediaAddCmd.Flags().String("type", "", "image or video (default: inferred from extension)")
	mediaAddCmd.Flags().Int64("size", 0, "size in bytes")
	mediaAddCmd.Flags().StringSlice("tag", nil, "tag id (repeatable)")
	mediaAddCmd.Flags().StringSlice("shoot", nil, "shoot id (repeatable)")

	mediaCmd.AddCommand(mediaListCmd)
	mediaCmd.AddCommand(mediaShowCmd)
	mediaCmd.AddCommand(mediaAddCmd)
	mediaCmd.AddCommand(mediaDeleteCmd)
	mediaCmd.AddCommand(mediaTagCmd)
	mediaCmd.AddCommand(mediaUntagCmd)
	mediaCmd.AddCommand(mediaShootCmd)
}
