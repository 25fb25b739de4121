// Package ui holds the terminal styles for the completion report and
// diagnostics.
package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	accentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// SetMode applies the "color" config value: "always", "never", or "auto"
// (the default; lipgloss detects the terminal on its own).
func SetMode(mode string) {
	switch mode {
	case "never":
		lipgloss.SetColorProfile(termenv.Ascii)
	case "always":
		lipgloss.SetColorProfile(termenv.ANSI256)
	}
}

// Success styles a success line.
func Success(s string) string { return successStyle.Render(s) }

// Warn styles an advisory line.
func Warn(s string) string { return warnStyle.Render(s) }

// Accent styles a heading or emphasised value.
func Accent(s string) string { return accentStyle.Render(s) }

// Dim styles secondary detail.
func Dim(s string) string { return dimStyle.Render(s) }
