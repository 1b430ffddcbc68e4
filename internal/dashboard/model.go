package dashboard

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/waylon/internal/idle"
	"github.com/rileyhilliard/waylon/internal/scheduler"
)

// Controller is the subset of the poller the dashboard drives from the keyboard.
type Controller interface {
	RequestRefresh()
	RequestRebuild()
}

// Height breakpoints for layout adjustments
const (
	HeightMinimal = 12
)

// clockInterval drives the "last update" counter and the building glyph.
const clockInterval = 150 * time.Millisecond

// Model is the Bubble Tea model for the radiator dashboard.
type Model struct {
	view       string
	controller Controller

	snapshot    scheduler.Snapshot
	hasSnapshot bool
	idle        bool
	loading     bool
	cycle       scheduler.CycleKind

	width    int
	height   int
	frame    int
	showHelp bool
	quitting bool
	now      func() time.Time

	spinner       spinner.Model
	jobs          viewport.Model
	viewportReady bool
}

// snapshotMsg carries a settled snapshot from the scheduler.
type snapshotMsg scheduler.Snapshot

// idleMsg reports an idle mode change.
type idleMsg bool

// cycleMsg reports that a poll cycle started.
type cycleMsg scheduler.CycleKind

// clockMsg is the periodic redraw tick.
type clockMsg time.Time

// NewModel creates a dashboard for view. controller may be nil, in which case
// the refresh and rebuild keys do nothing.
func NewModel(view string, controller Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"◐", "◓", "◑", "◒"},
		FPS:    time.Second / 10,
	}
	sp.Style = lipgloss.NewStyle().Foreground(ColorAccent)

	return Model{
		view:       view,
		controller: controller,
		loading:    true,
		cycle:      scheduler.CycleRebuild,
		now:        time.Now,
		spinner:    sp,
	}
}

// Init starts the clock and the loading spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.clockCmd(), m.spinner.Tick)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}
		if m.viewportReady && !m.idle {
			var vpCmd tea.Cmd
			m.jobs, vpCmd = m.jobs.Update(msg)
			return m, vpCmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeViewport()

	case snapshotMsg:
		m.snapshot = scheduler.Snapshot(msg)
		m.hasSnapshot = true
		m.loading = false
		m.idle = m.snapshot.Mode == idle.Idle
		m.resizeViewport()

	case idleMsg:
		m.idle = bool(msg)

	case cycleMsg:
		m.cycle = scheduler.CycleKind(msg)
		if !m.loading {
			m.loading = true
			return m, m.spinner.Tick
		}

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clockMsg:
		m.frame = (m.frame + 1) % 10000
		m.refreshJobRows()
		return m, m.clockCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// Idle reports whether the all-clear screen is showing.
func (m Model) Idle() bool {
	return m.idle
}

// Loading reports whether a poll cycle is in flight.
func (m Model) Loading() bool {
	return m.loading
}

// Snapshot returns the last settled snapshot and whether one has arrived.
func (m Model) Snapshot() (scheduler.Snapshot, bool) {
	return m.snapshot, m.hasSnapshot
}

// SecondsSinceUpdate returns how many seconds have passed since the last settle.
func (m Model) SecondsSinceUpdate() int {
	if !m.hasSnapshot || m.snapshot.UpdatedAt.IsZero() {
		return 0
	}
	return int(m.now().Sub(m.snapshot.UpdatedAt).Seconds())
}

// ShowFooter returns true if the terminal is tall enough to show the footer.
func (m Model) ShowFooter() bool {
	return m.height == 0 || m.height >= HeightMinimal
}

func (m Model) clockCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockMsg(t)
	})
}

// resizeViewport fits the job list between the header block and the footer.
func (m *Model) resizeViewport() {
	if m.width == 0 || m.height == 0 {
		return
	}

	chrome := lipgloss.Height(m.renderTop()) + 1
	if m.ShowFooter() {
		chrome += 2
	}
	height := m.height - chrome
	if height < 1 {
		height = 1
	}

	if !m.viewportReady {
		m.jobs = viewport.New(m.width, height)
		m.viewportReady = true
	} else {
		m.jobs.Width = m.width
		m.jobs.Height = height
	}
	m.refreshJobRows()
}

func (m *Model) refreshJobRows() {
	if !m.viewportReady {
		return
	}
	m.jobs.SetContent(m.renderJobRows(m.width))
}
