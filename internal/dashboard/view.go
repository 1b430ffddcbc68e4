package dashboard

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/waylon/internal/idle"
	"github.com/rileyhilliard/waylon/internal/registry"
	"github.com/rileyhilliard/waylon/internal/util"
)

const defaultWidth = 80

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	var b strings.Builder

	b.WriteString(m.renderTop())
	b.WriteString("\n")

	switch {
	case m.idle:
		b.WriteString(m.renderIdleScreen())
	case m.viewportReady:
		b.WriteString(m.jobs.View())
	default:
		b.WriteString(m.renderJobRows(m.width))
	}

	if m.ShowFooter() {
		b.WriteString("\n\n")
		b.WriteString(m.renderFooter())
	}
	return b.String()
}

// renderTop renders everything above the job list.
func (m Model) renderTop() string {
	parts := []string{m.renderHeader(), m.renderRollup()}
	if alerts := m.renderAlerts(); alerts != "" {
		parts = append(parts, alerts)
	}
	return strings.Join(parts, "\n")
}

// renderHeader renders the title line with the view name and update age.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("waylon")

	var updateText string
	switch secs := m.SecondsSinceUpdate(); {
	case !m.hasSnapshot:
		updateText = "waiting for first update"
	case secs == 0:
		updateText = "updated just now"
	case secs == 1:
		updateText = "updated 1s ago"
	default:
		updateText = fmt.Sprintf("updated %ds ago", secs)
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | view %s | %s", m.view, updateText))

	line := title + stats
	if m.loading {
		line += " " + m.spinner.View() + LabelStyle.Render(" "+string(m.cycle)+"ing")
	}
	return HeaderStyle.Render(line)
}

// renderRollup renders the boxed successful/building/failed/total panel.
func (m Model) renderRollup() string {
	width := m.panelWidth()
	c := m.snapshot.Counts

	content := lipgloss.NewStyle().Foreground(ColorSuccessful).Render(fmt.Sprintf("%s %d successful", GlyphSuccessful, c.Successful)) + "   " +
		lipgloss.NewStyle().Foreground(ColorBuilding).Render(fmt.Sprintf("%s %d building", GlyphBuilding, c.Building)) + "   " +
		lipgloss.NewStyle().Foreground(ColorFailed).Render(fmt.Sprintf("%s %d failed", GlyphFailed, c.Failed))

	return strings.Join([]string{
		SectionHeader("Rollup", util.Count(c.Total, "job", "jobs"), width),
		SectionContentLine(content, width),
		SectionFooter(width),
	}, "\n")
}

// renderAlerts renders one banner per active alert.
func (m Model) renderAlerts() string {
	if len(m.snapshot.Alerts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.snapshot.Alerts))
	for _, a := range m.snapshot.Alerts {
		style := AlertWarningStyle
		if a.Severity == idle.Danger {
			style = AlertDangerStyle
		}
		lines = append(lines, style.Render("! "+a.Message))
	}
	return strings.Join(lines, "\n")
}

// renderJobRows renders the job list, one row per job in snapshot order.
func (m Model) renderJobRows(width int) string {
	if !m.hasSnapshot {
		return LabelStyle.Render("Discovering jobs...")
	}
	if len(m.snapshot.Jobs) == 0 {
		return LabelStyle.Render("No jobs in view " + m.view)
	}

	rows := make([]string, 0, len(m.snapshot.Jobs))
	for _, job := range m.snapshot.Jobs {
		rows = append(rows, m.renderJobRow(job, width))
	}
	return strings.Join(rows, "\n")
}

// renderJobRow renders a single job: glyph, name, weather and server.
func (m Model) renderJobRow(job registry.Job, width int) string {
	style := CategoryStyle(job.Category)

	left := style.Render(CategoryGlyph(job.Category, m.frame)) + " " +
		WeatherGlyph(job.Weather) + " " +
		JobNameStyle.Render(job.ID)

	var right []string
	if job.Weather != nil && job.Weather.Title != "" {
		right = append(right, job.Weather.Title)
	}
	right = append(right, job.Server)
	rightText := MutedStyle.Render(strings.Join(right, " · "))

	if width <= 0 {
		width = defaultWidth
	}
	gap := width - lipgloss.Width(left) - lipgloss.Width(rightText) - 2
	if gap < 1 {
		return " " + left
	}
	return " " + left + strings.Repeat(" ", gap) + rightText
}

// renderIdleScreen renders the all-clear screen shown in idle mode.
func (m Model) renderIdleScreen() string {
	accent := AccentOfTheDay(m.now())
	c := m.snapshot.Counts

	banner := lipgloss.NewStyle().
		Foreground(accent).
		Bold(true).
		Render("ALL CLEAR")
	detail := LabelStyle.Render(fmt.Sprintf("%d of %d jobs passing", c.Successful, c.Total))
	day := MutedStyle.Render(m.now().Weekday().String())

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(accent).
		Padding(1, 6).
		Align(lipgloss.Center).
		Render(lipgloss.JoinVertical(lipgloss.Center, banner, "", detail, day))

	if m.width == 0 || !m.viewportReady {
		return box
	}
	return lipgloss.Place(m.width, m.jobs.Height, lipgloss.Center, lipgloss.Center, box)
}

// renderFooter renders the keyboard help footer.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"R rebuild",
		"↑↓ scroll",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

func (m Model) panelWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}
