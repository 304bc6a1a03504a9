package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ColorMode is the value of MEDIALIB_COLOR.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode reads a MEDIALIB_COLOR value. Anything unrecognised is auto.
func ParseColorMode(s string) ColorMode {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorAlways, ColorNever:
		return m
	}
	return ColorAuto
}

// ShouldUseColor reports whether stdout gets ANSI colors. MEDIALIB_COLOR
// always|never wins outright; in auto mode NO_COLOR, CLICOLOR_FORCE and
// CLICOLOR apply before TTY detection.
func ShouldUseColor() bool {
	return decideColor(os.Getenv, func() bool { return term.IsTerminal(int(os.Stdout.Fd())) })
}

func decideColor(getenv func(string) string, isTTY func() bool) bool {
	switch ParseColorMode(getenv("MEDIALIB_COLOR")) {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	// https://no-color.org: any non-empty value disables color.
	if getenv("NO_COLOR") != "" {
		return false
	}
	if strings.TrimSpace(getenv("CLICOLOR_FORCE")) == "1" {
		return true
	}
	if strings.TrimSpace(getenv("CLICOLOR")) == "0" {
		return false
	}
	return isTTY()
}
