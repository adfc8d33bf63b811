// ABOUTME: Bubbletea model for the playback TUI
// ABOUTME: Defines display state, key handling, and rendering
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sio-project/sio-go/internal/app"
)

// Controller is the subset of player operations the TUI drives.
type Controller interface {
	TogglePause() (bool, error)
	AdjustVolume(delta int) int
	SetMuted(muted bool)
	Status() app.Status
}

// Model represents the TUI state
type Model struct {
	player Controller

	// Track info
	file    string
	backend string

	// Latest playback snapshot
	status app.Status

	// Debug
	showDebug bool

	quitting bool

	// Dimensions
	width  int
	height int
}

type tickMsg time.Time

// doneMsg ends the TUI when playback finishes.
type doneMsg struct{}

func tickEvery() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// NewModel creates a TUI model for a running player.
func NewModel(player Controller, file, backend string) Model {
	return Model{
		player:  player,
		file:    file,
		backend: backend,
		status:  player.Status(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		m.status = m.player.Status()
		return m, tickEvery()
	case doneMsg:
		m.status = m.player.Status()
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case " ":
		m.player.TogglePause()
		m.status = m.player.Status()
	case "+", "=", "up":
		m.player.AdjustVolume(5)
		m.status = m.player.Status()
	case "-", "down":
		m.player.AdjustVolume(-5)
		m.status = m.player.Status()
	case "m":
		m.player.SetMuted(!m.status.Muted)
		m.status = m.player.Status()
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Stopping playback...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginBottom(1)

	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("86"))

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250"))

	warnStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("196"))

	var b strings.Builder

	b.WriteString(titleStyle.Render("sio-play"))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("File: "))
	b.WriteString(valueStyle.Render(m.file))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Backend: "))
	b.WriteString(valueStyle.Render(m.backend))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Format: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%s %dHz %s",
		m.status.Format, m.status.SampleRate, channelName(m.status.Channels))))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("State: "))
	b.WriteString(valueStyle.Render(m.status.State))
	b.WriteString("\n")

	b.WriteString(headerStyle.Render("Position: "))
	b.WriteString(valueStyle.Render(formatDuration(m.status.Position)))
	b.WriteString("\n")

	muteTag := ""
	if m.status.Muted {
		muteTag = " (muted)"
	}
	b.WriteString(headerStyle.Render("Volume: "))
	b.WriteString(valueStyle.Render(fmt.Sprintf("[%s] %d%%%s",
		renderBar(m.status.Volume, 100, 10), m.status.Volume, muteTag)))
	b.WriteString("\n")

	if m.status.Err != nil {
		b.WriteString(warnStyle.Render(fmt.Sprintf("Stream error: %v", m.status.Err)))
		b.WriteString("\n")
	}

	if m.showDebug {
		b.WriteString("\n")
		b.WriteString(headerStyle.Render("Debug"))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(fmt.Sprintf("  Frames written: %d", m.status.FramesWritten)))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(fmt.Sprintf("  Latency: %s", m.status.Latency.Round(time.Millisecond))))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(fmt.Sprintf("  Underflows: %d", m.status.Underflows)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Faint(true).Render("space:Pause  +/-:Volume  m:Mute  d:Debug  q:Quit"))
	b.WriteString("\n")

	return b.String()
}

func renderBar(value, max, width int) string {
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	filled := (value * width) / max
	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func channelName(channels int) string {
	switch channels {
	case 1:
		return "Mono"
	case 2:
		return "Stereo"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}
