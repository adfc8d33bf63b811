// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the playback display
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// PlayerTUI manages the playback TUI
type PlayerTUI struct {
	program *tea.Program
}

// NewPlayerTUI creates a TUI for a running player.
func NewPlayerTUI(player Controller, file, backend string) *PlayerTUI {
	m := NewModel(player, file, backend)
	return &PlayerTUI{
		program: tea.NewProgram(m, tea.WithAltScreen()),
	}
}

// Run blocks until the user quits or Finish is called.
func (t *PlayerTUI) Run() error {
	_, err := t.program.Run()
	return err
}

// Finish tells the TUI playback has ended so it can exit.
func (t *PlayerTUI) Finish() {
	t.program.Send(doneMsg{})
}

// Quit stops the TUI.
func (t *PlayerTUI) Quit() {
	t.program.Quit()
}
