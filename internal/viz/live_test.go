package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/metrics"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

func newTestModel(t *testing.T) (Model, *dynamo.ManualTime) {
	t.Helper()
	clk := &dynamo.ManualTime{}
	s, err := sim.New(physics.QualityLow, sim.WithTimeSource(clk.Now), sim.WithSeed(1))
	if err != nil {
		t.Fatal(err)
	}
	s.AddMetric(metrics.NewMeanSpeed())
	return NewModel(s, "test", 60), clk
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickRendersParticles(t *testing.T) {
	m, clk := newTestModel(t)
	m.sim.SetViewMode(camera.ViewOutside)
	m = update(m, tea.WindowSizeMsg{Width: 200, Height: 30})
	clk.Advance(1.0 / 60)
	m = update(m, TickMsg(time.Now()))

	if m.Frame() == nil {
		t.Fatal("expected a frame after a tick")
	}
	lit := 0
	for _, row := range m.canvas.Grid {
		for _, r := range row {
			if r != blank {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Error("expected particles on the canvas")
	}
	if m.series.Len() != 1 {
		t.Errorf("expected one chart sample, got %d", m.series.Len())
	}
	if view := m.View(); !strings.Contains(view, "Centroid") {
		t.Error("expected the panel to show the field centroid")
	}
}

func TestModelKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = update(m, key("v"))
	if m.sim.ViewMode() != camera.ViewOutside {
		t.Error("expected v to toggle the view")
	}

	m = update(m, key(" "))
	if !m.sim.Paused() {
		t.Error("expected space to pause")
	}

	before := m.sim.TimeMultiplier()
	m = update(m, key("]"))
	if m.sim.TimeMultiplier() != before*2 {
		t.Errorf("expected multiplier %g, got %g", before*2, m.sim.TimeMultiplier())
	}

	m = update(m, key("2"))
	if m.sim.Field().Quality != physics.QualityMedium {
		t.Errorf("expected medium quality, got %s", m.sim.Field().Quality)
	}
	if m.err != nil {
		t.Errorf("unexpected error %v", m.err)
	}

	m = update(m, key("t"))
	if m.theme.Name == ThemeEmber.Name {
		t.Error("expected theme to change")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("expected quit command")
	}
}

func TestModelResizeSetsAspect(t *testing.T) {
	m, _ := newTestModel(t)
	m = update(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.canvas.Width != 120-panelWidth-6 || m.canvas.Height != 38 {
		t.Errorf("unexpected canvas size %dx%d", m.canvas.Width, m.canvas.Height)
	}
	f := m.sim.AdvanceFrame()
	if f.Camera.Projection.Aspect != CanvasAspect(m.canvas) {
		t.Errorf("expected aspect %f, got %f", CanvasAspect(m.canvas), f.Camera.Projection.Aspect)
	}
}

func TestSkyboxCentredOnAnchor(t *testing.T) {
	anchor := dynamo.Vec3{X: 3, Y: -2, Z: 7}
	var sum dynamo.Vec3
	for _, c := range SkyboxCorners(anchor) {
		sum = sum.Add(c)
	}
	centre := sum.Scale(1.0 / 8)
	if centre.Sub(anchor).Length() > 1e-9 {
		t.Errorf("expected centre %v, got %v", anchor, centre)
	}
}
