// Package ui renders terminal output for the medialib CLI.
package ui

import (
	"fmt"
	"strings"
)

// ANSI256 color codes.
const (
	colorAccent  = 74  // blue
	colorCommand = 252 // near white
	colorMuted   = 245 // medium gray
	colorInclude = 114 // green
	colorExclude = 203 // red
)

var noColor bool

func paint(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return paint(colorAccent, s) }

// RenderCommand returns s in the command-name color.
func RenderCommand(s string) string { return paint(colorCommand, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return paint(colorMuted, s) }

// RenderInclude returns s in the include (green) color.
func RenderInclude(s string) string { return paint(colorInclude, s) }

// RenderExclude returns s in the exclude (red) color.
func RenderExclude(s string) string { return paint(colorExclude, s) }

// RenderSummary colours the group prefixes of a filter summary such as
// `Include: Tag: t1 | Exclude: Shoot: s1`.
func RenderSummary(summary string) string {
	if noColor {
		return summary
	}
	parts := strings.Split(summary, " | ")
	for i, p := range parts {
		switch {
		case strings.HasPrefix(p, "Include:"):
			parts[i] = RenderInclude("Include:") + strings.TrimPrefix(p, "Include:")
		case strings.HasPrefix(p, "Exclude:"):
			parts[i] = RenderExclude("Exclude:") + strings.TrimPrefix(p, "Exclude:")
		default:
			parts[i] = RenderMuted(p)
		}
	}
	return strings.Join(parts, RenderMuted(" | "))
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// Init enables or disables color according to ShouldUseColor.
func Init() {
	noColor = !ShouldUseColor()
}
