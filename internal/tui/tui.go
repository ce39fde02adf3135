// Package tui provides a Bubble Tea viewer for stored tabtime sessions.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kwasow/tabtime/internal/track"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// Model is the root Bubble Tea model for the session viewer.
type Model struct {
	snap     *track.Snapshot
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New creates a viewer model for the given snapshot.
func New(snap *track.Snapshot) Model {
	return Model{snap: snap}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title(1) + status bar(1) are fixed rows
		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.viewport = viewport.New(m.width, vpHeight)
		m.viewport.SetContent(RenderTree(m.snap))
		m.ready = true
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}

	title := titleStyle.Width(m.width).Render("  tabtime  " + m.snap.SessionName)

	hint := "  ↑/↓ scroll  q quit"
	pct := fmt.Sprintf("%3.0f%%", m.viewport.ScrollPercent()*100)
	pad := m.width - lipgloss.Width(hint) - len(pct) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + pct)

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), statusBar)
}

// Run starts the viewer for the given snapshot and blocks until it exits.
func Run(snap *track.Snapshot) error {
	_, err := tea.NewProgram(New(snap), tea.WithAltScreen()).Run()
	return err
}
