package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Adaptive color definitions for light/dark terminal support
var (
	ColorGreen  = lipgloss.AdaptiveColor{Light: "#006400", Dark: "#1db954"}
	ColorRed    = lipgloss.AdaptiveColor{Light: "#8b0000", Dark: "#ff5f5f"}
	ColorYellow = lipgloss.AdaptiveColor{Light: "#b8860b", Dark: "#ffd75f"}
	ColorGray   = lipgloss.AdaptiveColor{Light: "#555555", Dark: "#888888"}
	ColorCyan   = lipgloss.AdaptiveColor{Light: "#008b8b", Dark: "#5fd7ff"}
)

var (
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGreen)

	StyleSelected = lipgloss.NewStyle().
			Background(lipgloss.AdaptiveColor{Light: "#d3d3d3", Dark: "#3a3a3a"}).
			Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#ffffff"})

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleError   = lipgloss.NewStyle().Foreground(ColorRed)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleSubtle  = lipgloss.NewStyle().Foreground(ColorGray)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorCyan)

	styleBody = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorGray)

	styleBodyActive = styleBody.BorderForeground(ColorGreen)

	styleOverlay = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorCyan).
			Padding(0, 1)
)

// Truncate shortens plain text to width terminal cells, marking the cut
// with an ellipsis. Style after truncating, not before.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}

// Item renders one list entry, highlighted when selected
func Item(label string, selected bool, width int) string {
	prefix := "  "
	if selected {
		prefix = "> "
	}
	line := Truncate(prefix+label, width)
	if selected {
		return StyleSelected.Render(runewidth.FillRight(line, width))
	}
	return line
}
