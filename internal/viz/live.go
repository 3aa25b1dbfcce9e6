package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/metrics"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

const (
	defaultWidth    = 80
	defaultHeight   = 24
	historyCapacity = 240

	orbitStep = 0.08
	zoomStep  = 1.15
)

// ChartMetric is the metric plotted in the side panel when registered.
const ChartMetric = "mean_speed"

type TickMsg time.Time

// Model is the bubbletea model for a running simulation.
type Model struct {
	sim      *sim.Simulation
	name     string
	fps      int
	canvas   *Canvas
	frame    *sim.Frame
	theme    Theme
	styles   styles
	series   *metrics.Series
	showHelp bool
	err      error

	width, height int
	lastTick      time.Time
	measuredFPS   float64
}

// NewModel wraps s. name labels the panel.
func NewModel(s *sim.Simulation, name string, fps int) Model {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		sim:    s,
		name:   name,
		fps:    fps,
		canvas: NewCanvas(defaultWidth-panelWidth-6, defaultHeight-2),
		theme:  ThemeEmber,
		styles: newStyles(ThemeEmber),
		series: metrics.NewSeries(ChartMetric, historyCapacity),
		width:  defaultWidth,
		height: defaultHeight,
	}
	s.SetAspect(CanvasAspect(m.canvas))
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return m.tick() }

// Update handles input and advances one simulation frame per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case TickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.measuredFPS = 0.9*m.measuredFPS + 0.1/dt
			}
		}
		m.lastTick = now
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "v", "V":
		m.sim.ToggleViewMode()
	case "left", "h":
		m.sim.Orbit(-orbitStep, 0)
	case "right", "l":
		m.sim.Orbit(orbitStep, 0)
	case "up", "k":
		m.sim.Orbit(0, -orbitStep)
	case "down", "j":
		m.sim.Orbit(0, orbitStep)
	case "+", "=":
		m.sim.Zoom(1 / zoomStep)
	case "-", "_":
		m.sim.Zoom(zoomStep)
	case "1", "2", "3", "4":
		q := physics.Quality(msg.String()[0] - '1')
		m.err = m.sim.Restart(q)
		m.series.Reset()
	case " ":
		m.sim.SetPaused(!m.sim.Paused())
	case "[":
		m.err = m.sim.SetTimeMultiplier(m.sim.TimeMultiplier() / 2)
	case "]":
		m.err = m.sim.SetTimeMultiplier(m.sim.TimeMultiplier() * 2)
	case "t":
		m.theme = NextTheme(m.theme)
		m.styles = newStyles(m.theme)
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.canvas.Resize(w-panelWidth-6, h-2)
	m.sim.SetAspect(CanvasAspect(m.canvas))
}

func (m *Model) step() {
	m.frame = m.sim.AdvanceFrame()
	if v, ok := m.sim.Metrics()[ChartMetric]; ok && !m.sim.Paused() {
		m.series.Push(v)
	}
	RenderFrame(m.canvas, m.frame, m.theme)
}

// View renders the canvas and the side panel.
func (m Model) View() string {
	canvasView := m.styles.canvas.Render(m.canvas.Render())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.styles.panel.Render(m.panel()))
	if m.showHelp {
		return m.help() + "\n" + mainView
	}
	return mainView
}

func (m Model) panel() string {
	st := m.styles
	var s strings.Builder
	s.WriteString(st.header.Render(strings.ToUpper(m.name)) + "\n")

	status := st.running.Render("RUNNING")
	if m.sim.Paused() {
		status = st.paused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	f := m.frame
	if f == nil {
		s.WriteString(st.row("State", "starting"))
		return s.String()
	}

	view := f.ViewMode.String()
	if f.State == camera.NoField {
		view += " (idle)"
	}
	s.WriteString(st.row("Camera", view))
	if field := m.sim.Field(); field != nil {
		s.WriteString(st.row("Quality", field.Quality.String()))
		s.WriteString(st.row("Particles", fmt.Sprintf("%d", field.Len())))
		s.WriteString(st.row("Centroid", fmt.Sprintf("%.1f", field.Centroid().Length())))
	}
	s.WriteString(st.row("Time", fmt.Sprintf("%.2fs", f.Elapsed)))
	s.WriteString(st.row("Speed", fmt.Sprintf("x%g", m.sim.TimeMultiplier())))
	s.WriteString(st.row("FPS", fmt.Sprintf("%.0f", m.measuredFPS)))
	s.WriteString(st.row("Degenerate", fmt.Sprintf("%d", f.Diagnostics.DegenerateContacts)))
	s.WriteString(st.row("Clock skips", fmt.Sprintf("%d", f.Diagnostics.ClockAnomalies)))

	if m.series.Len() > 1 {
		chart := asciigraph.Plot(m.series.Values(),
			asciigraph.Height(5),
			asciigraph.Width(panelWidth-10),
			asciigraph.Precision(1),
			asciigraph.Caption(strings.ReplaceAll(ChartMetric, "_", " ")))
		s.WriteString(st.graph.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(st.paused.Render(m.err.Error()) + "\n")
	}

	s.WriteString(Separator(panelWidth-4, m.theme) + "\n")
	s.WriteString(st.keyHints("v", "view", "←↑↓→", "orbit") + "\n")
	s.WriteString(st.keyHints("+/-", "zoom", "1-4", "quality") + "\n")
	s.WriteString(st.keyHints("[ ]", "speed", "?", "help", "q", "quit"))
	return s.String()
}

func (m Model) help() string {
	return `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  V        - Toggle inside/outside    ║
║  Arrows   - Orbit outside camera     ║
║  + / -    - Zoom outside camera      ║
║  1-4      - Restart at quality       ║
║  Space    - Pause particles          ║
║  [ / ]    - Halve/double speed       ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
}

// Frame returns the most recent frame, or nil before the first tick.
func (m Model) Frame() *sim.Frame { return m.frame }

// RunLive runs s in the terminal until the user quits.
func RunLive(s *sim.Simulation, name string, fps int) error {
	_, err := tea.NewProgram(NewModel(s, name, fps), tea.WithAltScreen()).Run()
	return err
}
