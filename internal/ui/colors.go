package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Synthwave palette shared with the dashboard.
const (
	ColorNeonPink    lipgloss.Color = "#FF2E97"
	ColorNeonCyan    lipgloss.Color = "#00FFFF"
	ColorNeonPurple  lipgloss.Color = "#BF40FF"
	ColorGlassBorder lipgloss.Color = "#3D2C5C"
)

// Job category colors. Warning doubles as the building color.
const (
	ColorSuccess lipgloss.Color = "#39FF14"
	ColorError   lipgloss.Color = "#FF0055"
	ColorWarning lipgloss.Color = "#FFAA00"
)

const (
	ColorPrimary lipgloss.Color = "#E0E0FF"
	ColorMuted   lipgloss.Color = "#6B5B8C"
)

// GradientColors cycles through the probe indicator frames.
var GradientColors = []lipgloss.Color{
	ColorNeonPink,
	ColorNeonPurple,
	ColorNeonCyan,
	ColorNeonPurple,
}

func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }
func ErrorStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorError) }
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }
func MutedStyle() lipgloss.Style   { return lipgloss.NewStyle().Foreground(ColorMuted) }

// PrintWarning writes a styled warning line to stderr.
func PrintWarning(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", WarningStyle().Render(SymbolWarning), msg)
}

// DisableColors switches lipgloss to plain output (--no-color, NO_COLOR).
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
