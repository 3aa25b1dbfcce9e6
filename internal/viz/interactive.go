package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/attractor/internal/sim"
)

// StartFunc builds the simulation for a chosen preset and the frame rate to
// drive it at.
type StartFunc func(preset string) (*sim.Simulation, int, error)

const (
	stateMenu = iota
	stateSim
)

type menu struct {
	state    int
	cursor   int
	presets  []string
	describe func(string) string
	start    StartFunc
	live     Model
	err      error
	width    int
	height   int
}

// NewMenu returns a preset picker that switches to the live view on enter.
func NewMenu(presets []string, describe func(string) string, start StartFunc) tea.Model {
	if describe == nil {
		describe = func(string) string { return "" }
	}
	return menu{presets: presets, describe: describe, start: start}
}

func (m menu) Init() tea.Cmd { return nil }

func (m menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.presets)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.presets) == 0 {
				return m, nil
			}
			s, fps, err := m.start(m.presets[m.cursor])
			if err != nil {
				m.err = err
				return m, nil
			}
			m.live = NewModel(s, m.presets[m.cursor], fps)
			if m.width > 0 {
				m.live.resize(m.width, m.height)
			}
			m.state = stateSim
			return m, m.live.Init()
		}
	}
	return m, nil
}

func (m menu) View() string {
	if m.state == stateSim {
		return m.live.View()
	}
	title := lipgloss.NewStyle().Foreground(ThemeEmber.Primary).Bold(true)
	sub := lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	sel := lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	desc := lipgloss.NewStyle().Foreground(ThemeEmber.Secondary)
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))

	var b strings.Builder
	b.WriteString("\n\n    " + title.Render("ATTRACTOR") + "\n    " + sub.Render("particles under gravitation points") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", title.Render("▸"), sel.Render(fmt.Sprintf("%-10s", name)), desc.Render(m.describe(name))))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", dim.Render(fmt.Sprintf("%-10s", name)), dim.Render(m.describe(name))))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(ThemeEmber.Warning).Render(m.err.Error()) + "\n")
	}
	st := newStyles(ThemeEmber)
	b.WriteString("\n    " + st.keyHints("j/k", "navigate", "enter", "start", "q", "quit") + "\n")
	return b.String()
}

// RunInteractive shows the preset picker and then the live view.
func RunInteractive(presets []string, describe func(string) string, start StartFunc) error {
	_, err := tea.NewProgram(NewMenu(presets, describe, start), tea.WithAltScreen()).Run()
	return err
}
