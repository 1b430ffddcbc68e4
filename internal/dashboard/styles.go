package dashboard

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/waylon/internal/status"
)

// Dashboard color palette - Electric Synthwave
const (
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Job categories
	ColorSuccessful = lipgloss.Color("#39FF14") // Neon green
	ColorBuilding   = lipgloss.Color("#FFAA00") // Electric amber
	ColorFailed     = lipgloss.Color("#FF0055") // Hot red-pink
	ColorUnknown    = lipgloss.Color("#6B6B8D") // Purple-gray

	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	ColorAccent = lipgloss.Color("#FF2E97") // Neon pink
	ColorValue  = lipgloss.Color("#00FFFF") // Neon cyan
)

var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	JobNameStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	AlertDangerStyle = lipgloss.NewStyle().
				Foreground(ColorTextPrimary).
				Background(ColorFailed).
				Bold(true).
				Padding(0, 1)

	AlertWarningStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorBuilding).
				Bold(true).
				Padding(0, 1)
)

// Category glyphs
const (
	GlyphFailed     = "✗"
	GlyphBuilding   = "⣿"
	GlyphSuccessful = "◉"
	GlyphUnknown    = "◌"
)

// BuildingSpinnerFrames animate the glyph of a building job.
var BuildingSpinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// CategoryColor returns the foreground color for a job category.
func CategoryColor(c status.Category) lipgloss.Color {
	switch c {
	case status.Failed:
		return ColorFailed
	case status.Building:
		return ColorBuilding
	case status.Successful:
		return ColorSuccessful
	default:
		return ColorUnknown
	}
}

// CategoryStyle returns a style colored for the job category.
func CategoryStyle(c status.Category) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(CategoryColor(c))
}

// CategoryGlyph returns the status indicator for a job category.
// Building jobs animate through BuildingSpinnerFrames.
func CategoryGlyph(c status.Category, frame int) string {
	switch c {
	case status.Failed:
		return GlyphFailed
	case status.Building:
		return BuildingSpinnerFrames[frame%len(BuildingSpinnerFrames)]
	case status.Successful:
		return GlyphSuccessful
	default:
		return GlyphUnknown
	}
}

// WeekdayAccents tint the all-clear screen, one per day starting Sunday.
var WeekdayAccents = [7]lipgloss.Color{
	lipgloss.Color("#BF40FF"), // Sunday - neon purple
	lipgloss.Color("#00FFFF"), // Monday - cyan
	lipgloss.Color("#39FF14"), // Tuesday - neon green
	lipgloss.Color("#FFAA00"), // Wednesday - amber
	lipgloss.Color("#FF2E97"), // Thursday - neon pink
	lipgloss.Color("#FFCC00"), // Friday - gold
	lipgloss.Color("#4D9FFF"), // Saturday - electric blue
}

// AccentOfTheDay returns the all-clear accent for t's weekday.
func AccentOfTheDay(t time.Time) lipgloss.Color {
	return WeekdayAccents[int(t.Weekday())]
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	leftWidth := 3 + lipgloss.Width(title) + 1
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}
	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorValue).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}
	return lipgloss.NewStyle().Foreground(ColorBorder).Render("╰" + strings.Repeat("─", width-2) + "╯")
}

// SectionContentLine renders a content line with left and right borders, padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	padding := width - 4 - lipgloss.Width(content)
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
