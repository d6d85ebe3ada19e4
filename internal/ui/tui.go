package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"musicality/internal/config"
)

// TUI wraps our Bubble Tea program.
type TUI struct {
	program  *tea.Program
	path     string
	settings config.Settings
}

// New returns a TUI that opens path with settings.
func New(path string, settings config.Settings) *TUI {
	return &TUI{path: path, settings: settings}
}

// Start runs the TUI main loop
func (t *TUI) Start() error {
	p := tea.NewProgram(NewModel(t.path, t.settings), tea.WithAltScreen(), tea.WithMouseCellMotion())
	t.program = p
	_, err := p.Run()
	return err
}
