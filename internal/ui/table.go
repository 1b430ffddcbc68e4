package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/waylon/internal/idle"
	"github.com/rileyhilliard/waylon/internal/rollup"
	"github.com/rileyhilliard/waylon/internal/status"
)

// TableStyle provides consistent styling for tables across the CLI.
type TableStyle struct {
	Header   lipgloss.Style
	Cell     lipgloss.Style
	Selected lipgloss.Style
	Border   lipgloss.Style
}

// DefaultTableStyle returns the default table styling.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		Cell:     lipgloss.NewStyle().Foreground(ColorPrimary),
		Selected: lipgloss.NewStyle().Foreground(ColorPrimary).Background(ColorGlassBorder),
		Border:   lipgloss.NewStyle().Foreground(ColorMuted),
	}
}

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// NewTable creates a new Bubbles table with default styling.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}

	t := table.New(
		table.WithColumns(cols),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)

	style := DefaultTableStyle()
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Inherit(style.Header)
	s.Cell = s.Cell.Inherit(style.Cell)
	s.Selected = s.Selected.Inherit(style.Selected).Bold(false)

	t.SetStyles(s)
	return t
}

// RenderSimpleTable renders a non-interactive table string.
// This is for CLI output (not TUI), producing a simple formatted table.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}

	t := NewTable(columns, tableRows)
	return t.View()
}

// JobTableRow is one line of the `waylon status` table.
type JobTableRow struct {
	Category status.Category
	Job      string
	Server   string
	Weather  string // glyph plus title, already formatted
	URL      string
}

// CategorySymbol returns the status symbol and color for a job category.
func CategorySymbol(c status.Category) (string, lipgloss.Color) {
	switch c {
	case status.Failed:
		return SymbolFailed, ColorError
	case status.Building:
		return SymbolBuilding, ColorWarning
	case status.Successful:
		return SymbolSuccessful, ColorSuccess
	default:
		return SymbolUnknown, ColorMuted
	}
}

// RenderJobTable renders jobs in the order given, one row per job.
func RenderJobTable(rows []JobTableRow) string {
	if len(rows) == 0 {
		return "No jobs in view"
	}

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(ColorMuted)
	mutedStyle := MutedStyle()

	jobWidth, serverWidth := len("JOB"), len("SERVER")
	for _, row := range rows {
		jobWidth = max(jobWidth, lipgloss.Width(row.Job))
		serverWidth = max(serverWidth, lipgloss.Width(row.Server))
	}
	jobWidth += 2
	serverWidth += 2

	var b strings.Builder
	header := "  " + padRight("STATUS", 12) + padRight("JOB", jobWidth) + padRight("SERVER", serverWidth) + "WEATHER"
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, row := range rows {
		symbol, color := CategorySymbol(row.Category)
		style := lipgloss.NewStyle().Foreground(color)
		statusCell := style.Render(symbol + " " + row.Category.String())

		line := "  " + padRight(statusCell, 12) +
			padRight(style.Bold(row.Category == status.Failed).Render(row.Job), jobWidth) +
			padRight(mutedStyle.Render(row.Server), serverWidth) +
			row.Weather
		b.WriteString(line)
		b.WriteString("\n")
		if row.Category == status.Failed && row.URL != "" {
			b.WriteString("    " + mutedStyle.Render("→ "+row.URL) + "\n")
		}
	}

	return b.String()
}

// RenderRollup renders the one-line summary printed under the job table.
func RenderRollup(c rollup.Counts, mode idle.Mode) string {
	parts := []string{
		SuccessStyle().Render(fmt.Sprintf("%d successful", c.Successful)),
		WarningStyle().Render(fmt.Sprintf("%d building", c.Building)),
		ErrorStyle().Render(fmt.Sprintf("%d failed", c.Failed)),
		fmt.Sprintf("%d total", c.Total),
	}
	line := strings.Join(parts, MutedStyle().Render(" | "))
	if mode == idle.Idle {
		line += "  " + SuccessStyle().Bold(true).Render(SymbolOK+" all clear")
	}
	return line
}

// RenderAlerts renders active alerts as warning lines, or "" when none.
func RenderAlerts(alerts []idle.Alert) string {
	if len(alerts) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range alerts {
		style := WarningStyle()
		if a.Severity == idle.Danger {
			style = ErrorStyle()
		}
		b.WriteString(style.Render(SymbolWarning+" "+a.Message) + "\n")
	}
	return b.String()
}

// padRight pads s to width by display width, so styled strings line up.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
