package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/client"
)

var presetCmd = &cobra.Command{
	Use:     "preset",
	Short:   "Manage saved filter presets",
	GroupID: "library",
}

var presetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List presets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		presets, err := mediaClient.ListPresets(cmd.Context())
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), presets)
		}
		printPresetTable(cmd.OutOrStdout(), presets)
		return nil
	},
}

var presetShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a preset and its filters",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := mediaClient.GetPreset(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		return printPresetDetail(cmd.OutOrStdout(), p)
	},
}

var presetSaveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Create a preset, or replace one with --id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filters, err := filtersFromFlags(cmd)
		if err != nil {
			return err
		}
		req := &client.PresetRequest{Name: args[0], Filters: filters}

		var p *client.Preset
		if id, _ := cmd.Flags().GetString("id"); id != "" {
			p, err = mediaClient.UpdatePreset(cmd.Context(), id, req)
		} else {
			p, err = mediaClient.CreatePreset(cmd.Context(), req)
		}
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %s %q\n", p.ID, p.Name)
		return nil
	},
}

var presetDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a preset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := mediaClient.DeletePreset(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

func init() {
	addFilterFlags(presetSaveCmd)
	presetSaveCmd.Flags().String("id", "", "replace the preset with this id")

	presetCmd.AddCommand(presetListCmd)
	presetCmd.AddCommand(presetShowCmd)
	presetCmd.AddCommand(presetSaveCmd)
	presetCmd.AddCommand(presetDeleteCmd)
}
