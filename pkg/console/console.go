// Package console formats user-facing messages for the terminal.
//
// Messages are styled with lipgloss when stderr is a terminal and fall back
// to plain text with the same leading symbol otherwise, so output stays
// readable in CI logs.
package console

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#0969da", Dark: "#58a6ff"})
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#cf222e", Dark: "#f85149"}).Bold(true)
	commandStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#8250df", Dark: "#bc8cff"})
)

// isTTY reports whether stderr is a terminal.
func isTTY() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// FormatSuccessMessage formats a success message with a check mark.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats an error message with a cross mark.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatCommandMessage formats a shell command the user may want to run.
func FormatCommandMessage(command string) string {
	return applyStyle(commandStyle, "⚡ "+command)
}

// FormatListItem formats an indented bullet.
func FormatListItem(item string) string {
	return "  • " + item
}

// FormatErrorWithSuggestions formats an error followed by a list of
// suggestions. The suggestions block is omitted when empty.
func FormatErrorWithSuggestions(message string, suggestions []string) string {
	var b strings.Builder
	b.WriteString(FormatErrorMessage(message))
	if len(suggestions) > 0 {
		b.WriteString("\n\nSuggestions:\n")
		for _, s := range suggestions {
			b.WriteString(FormatListItem(s))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// IsAccessibleMode reports whether interactive widgets should use their
// accessible, non-animated rendering.
func IsAccessibleMode() bool {
	return os.Getenv("ACCESSIBLE") != "" ||
		os.Getenv("TERM") == "dumb" ||
		os.Getenv("NO_COLOR") != ""
}
