package dashboard

import tea "github.com/charmbracelet/bubbletea"

// Key bindings as constants for consistency.
const (
	KeyQuit       = "q"
	KeyQuitAlt    = "ctrl+c"
	KeyRefresh    = "r"
	KeyRebuild    = "R"
	KeyCollapse   = "esc"
	KeyToggleHelp = "?"
)

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise. Scrolling keys are
// left unhandled so the job viewport can consume them.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key == KeyCollapse {
		m.showHelp = false
		return true, nil
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		if m.controller != nil {
			m.controller.RequestRefresh()
		}
		return true, nil

	case KeyRebuild:
		if m.controller != nil {
			m.controller.RequestRebuild()
		}
		return true, nil
	}

	return false, nil
}
