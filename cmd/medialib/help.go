package main

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/ui"
)

// Patterns used to colorize Cobra's default help output.
var (
	// Section headers: unindented line ending with ":" (e.g. "Library:", "Flags:").
	reGroupHeader = regexp.MustCompile(`(?m)^([A-Z][^\n]*:)\s*$`)

	// Command names: two-space indent, then a word, then two-or-more spaces
	// before the description.
	reCommand = regexp.MustCompile(`(?m)^(  )(\S+)(  )`)

	// Flag type annotations: e.g. "--http-url string", "--limit int".
	reFlagType = regexp.MustCompile(`(--?\S+\s+)(string|int|duration|strings|stringArray)`)

	// Default values, e.g. (default "foo").
	reDefault = regexp.MustCompile(`\(default "[^"]*"\)`)
)

// colorizedHelpFunc returns a Cobra help function that prints the command's
// description and usage, colorized when the terminal supports it.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		text := helpText(cmd)
		if !noColor && ui.ShouldUseColor() {
			text = colorizeHelpOutput(text)
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
	}
}

// helpText is Long (or Short) followed by Cobra's usage block.
func helpText(cmd *cobra.Command) string {
	var buf bytes.Buffer
	desc := cmd.Long
	if desc == "" {
		desc = cmd.Short
	}
	if desc = strings.TrimRight(desc, "\n"); desc != "" {
		buf.WriteString(desc + "\n\n")
	}

	orig := cmd.OutOrStdout()
	cmd.SetOut(&buf)
	_ = cmd.Usage()
	cmd.SetOut(orig)
	return buf.String()
}

// colorizeHelpOutput applies ANSI styling to Cobra's plain-text help.
func colorizeHelpOutput(s string) string {
	s = reGroupHeader.ReplaceAllStringFunc(s, func(match string) string {
		return ui.RenderAccent(strings.TrimSpace(match))
	})

	s = reCommand.ReplaceAllStringFunc(s, func(match string) string {
		parts := reCommand.FindStringSubmatch(match)
		if len(parts) == 4 {
			return parts[1] + ui.RenderCommand(parts[2]) + parts[3]
		}
		return match
	})

	s = reFlagType.ReplaceAllStringFunc(s, func(match string) string {
		parts := reFlagType.FindStringSubmatch(match)
		if len(parts) == 3 {
			return parts[1] + ui.RenderMuted(parts[2])
		}
		return match
	})

	return reDefault.ReplaceAllStringFunc(s, ui.RenderMuted)
}

// filterKinds documents the item kinds accepted in filter JSON.
var filterKinds = []struct {
	kind    model.ItemKind
	example string
	matches string
}{
	{model.KindChannel, `"id": "ch1"`, "has a post on the channel"},
	{model.KindSubreddit, `"id": "sr1"`, "was posted to the subreddit"},
	{model.KindTag, `"id": "t1"`, "carries the tag"},
	{model.KindShoot, `"id": "s1"`, "belongs to the shoot"},
	{model.KindFilename, `"value": "sunset"`, "relative path contains the text"},
	{model.KindCaption, `"value": "golden"`, "a post caption contains the text"},
	{model.KindPosted, `"value": true`, "has (or, with false, lacks) a posted post"},
	{model.KindMediaType, `"value": "video"`, "is an image or a video"},
	{model.KindCreatedDateStart, `"value": "2024-03-01"`, "was created on or after the date"},
	{model.KindCreatedDateEnd, `"value": "2024-03-31"`, "was created on or before the date"},
}

// filterHelp is the long help of the filter command.
func filterHelp() string {
	var b strings.Builder
	b.WriteString(`Filters are a JSON array of groups:

  [{"include": true, "items": [{"kind": "tag", "id": "t1"}]}]

Every item across every group must hold; items in an exclude group are
negated. Legacy objects such as {"search": "sunset"} are converted first.
Input may contain comments and trailing commas.

Item kinds:
`)
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, k := range filterKinds {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", k.kind, k.example, k.matches)
	}
	_ = w.Flush()
	return b.String()
}
