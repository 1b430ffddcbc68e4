package dashboard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleKeyMsg_Quit(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
	}{
		{"q", keyMsg("q")},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewModel("main", nil)
			handled, cmd := m.HandleKeyMsg(tt.msg)
			assert.True(t, handled)
			assert.True(t, m.quitting)
			require.NotNil(t, cmd)
		})
	}
}

func TestHandleKeyMsg_RefreshAndRebuild(t *testing.T) {
	ctrl := &fakeController{}
	m := NewModel("main", ctrl)

	handled, cmd := m.HandleKeyMsg(keyMsg("r"))
	assert.True(t, handled)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, ctrl.refreshes)
	assert.Equal(t, 0, ctrl.rebuilds)

	handled, _ = m.HandleKeyMsg(keyMsg("R"))
	assert.True(t, handled)
	assert.Equal(t, 1, ctrl.rebuilds)
}

func TestHandleKeyMsg_NilController(t *testing.T) {
	m := NewModel("main", nil)
	handled, cmd := m.HandleKeyMsg(keyMsg("r"))
	assert.True(t, handled)
	assert.Nil(t, cmd)

	handled, _ = m.HandleKeyMsg(keyMsg("R"))
	assert.True(t, handled)
}

func TestHandleKeyMsg_Help(t *testing.T) {
	m := NewModel("main", nil)

	handled, _ := m.HandleKeyMsg(keyMsg("?"))
	assert.True(t, handled)
	assert.True(t, m.showHelp)

	handled, _ = m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, handled)
	assert.False(t, m.showHelp)

	m.showHelp = true
	handled, _ = m.HandleKeyMsg(keyMsg("?"))
	assert.True(t, handled)
	assert.False(t, m.showHelp)
}

func TestHandleKeyMsg_ScrollKeysPassThrough(t *testing.T) {
	m := NewModel("main", nil)
	for _, msg := range []tea.KeyMsg{keyMsg("j"), keyMsg("k"), {Type: tea.KeyDown}, {Type: tea.KeyUp}} {
		handled, _ := m.HandleKeyMsg(msg)
		assert.False(t, handled, msg.String())
	}
	// Esc with no help open is not ours either.
	handled, _ := m.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, handled)
}
