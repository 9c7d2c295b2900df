// Package cli provides the console transport for the interactive
// classification protocol, with styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#7FB069") // Ledger green
	// WarningColor indicates warnings or rejected input.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates errors.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// PromptStyle is used for questions put to the operator.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)

	// OptionStyle formats numbered choices.
	OptionStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// WarningStyle formats re-prompt diagnostics.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)
)

// FormatWarning formats a diagnostic shown before a re-prompt.
func FormatWarning(message string) string {
	return WarningStyle.Render("! " + message)
}

// FormatError formats an error message.
func FormatError(message string) string {
	return ErrorStyle.Render("✗ " + message)
}
