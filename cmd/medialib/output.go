package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/medialib/internal/client"
	"github.com/alfredjeanlab/medialib/internal/model"
	"github.com/alfredjeanlab/medialib/internal/ui"
)

func printJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}

// formatSize renders a byte count with a binary unit suffix.
func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func printMediaTable(out io.Writer, resp *client.ListMediaResponse) {
	fmt.Fprintln(out, ui.RenderSummary(resp.Summary))
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSIZE\tCREATED\tNAME")
	for _, m := range resp.Media {
		name := m.Name
		if len(name) > 50 {
			name = name[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.Type,
			formatSize(m.Size),
			m.CreatedAt.Format("2006-01-02"),
			name,
		)
	}
	w.Flush()
	fmt.Fprintf(out, "\n%d media (%d total)\n", len(resp.Media), resp.Total)
}

func printMediaDetail(out io.Writer, m *model.Media) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", m.ID)
	fmt.Fprintf(w, "Name:\t%s\n", m.Name)
	fmt.Fprintf(w, "Path:\t%s\n", m.RelativePath)
	fmt.Fprintf(w, "Type:\t%s\n", m.Type)
	fmt.Fprintf(w, "Size:\t%s\n", formatSize(m.Size))
	if len(m.Tags) > 0 {
		fmt.Fprintf(w, "Tags:\t%s\n", strings.Join(m.Tags, ", "))
	}
	if len(m.Shoots) > 0 {
		fmt.Fprintf(w, "Shoots:\t%s\n", strings.Join(m.Shoots, ", "))
	}
	if !m.CreatedAt.IsZero() {
		fmt.Fprintf(w, "Created At:\t%s\n", m.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if !m.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "Updated At:\t%s\n", m.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

func printPresetTable(out io.Writer, presets []*client.Preset) {
	if len(presets) == 0 {
		fmt.Fprintln(out, "no presets")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tITEMS\tSUMMARY")
	for _, p := range presets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Filters.CountItems(), ui.RenderSummary(p.Summary))
	}
	w.Flush()
}

func printPresetDetail(out io.Writer, p *client.Preset) error {
	fmt.Fprintf(out, "%s %s\n", ui.RenderAccent(p.ID), p.Name)
	fmt.Fprintln(out, ui.RenderSummary(p.Summary))
	fmt.Fprintln(out)
	return printJSON(out, p.Filters)
}
