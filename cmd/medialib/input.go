package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tailscale/hujson"
)

// readFilterArg reads a filter payload from the file named by the first
// argument, or from stdin when there is none or it is "-".
func readFilterArg(cmd *cobra.Command, args []string) (json.RawMessage, error) {
	var (
		data []byte
		err  error
	)
	if len(args) == 0 || args[0] == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(args[0])
	}
	if err != nil {
		return nil, fmt.Errorf("reading filters: %w", err)
	}
	return standardizeFilters(data)
}

// filtersFromFlags resolves the --filters and --filters-file flags. Inline
// filters win when both are set.
func filtersFromFlags(cmd *cobra.Command) (json.RawMessage, error) {
	inline, _ := cmd.Flags().GetString("filters")
	if inline != "" {
		return standardizeFilters([]byte(inline))
	}
	path, _ := cmd.Flags().GetString("filters-file")
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading filters: %w", err)
	}
	return standardizeFilters(data)
}

// standardizeFilters accepts HuJSON (comments and trailing commas) and
// returns plain JSON. Blank input yields nil.
func standardizeFilters(data []byte) (json.RawMessage, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	out, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parsing filters: %w", err)
	}
	return out, nil
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("filters", "", "filters as JSON or HuJSON (legacy objects accepted)")
	cmd.Flags().String("filters-file", "", "read filters from a file")
}
