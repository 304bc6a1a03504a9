package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/client"
	"github.com/alfredjeanlab/medialib/internal/ui"
)

var (
	httpURL    string
	authToken  string
	jsonOutput bool
	noColor    bool

	mediaClient client.MediaClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("MEDIALIB_HTTP_URL"); s != "" {
		return s
	}
	if u := currentRemote().URL; u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("MEDIALIB_TOKEN"); s != "" {
		return s
	}
	return currentRemote().Token
}

var rootCmd = &cobra.Command{
	Use:          "medialib <command>",
	Short:        "Media library and filter engine",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			ui.ForceNoColor()
		} else {
			ui.Init()
		}
		mediaClient = client.NewHTTPClient(httpURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if mediaClient != nil {
			mediaClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "HTTP server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddGroup(
		&cobra.Group{ID: "library", Title: "Library:"},
		&cobra.Group{ID: "filters", Title: "Filters:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Library
	rootCmd.AddCommand(mediaCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(presetCmd)

	// Filters
	rootCmd.AddCommand(filterCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
