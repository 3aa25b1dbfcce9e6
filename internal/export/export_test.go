package export

import (
	"strings"
	"testing"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
	"github.com/san-kum/attractor/internal/viz"
)

func outsideFrame(t *testing.T, aspect float64) *sim.Frame {
	t.Helper()
	clk := &dynamo.ManualTime{}
	s, err := sim.New(physics.QualityLow, sim.WithTimeSource(clk.Now), sim.WithSeed(5))
	if err != nil {
		t.Fatal(err)
	}
	s.SetViewMode(camera.ViewOutside)
	s.SetAspect(aspect)
	return s.AdvanceFrame().Clone()
}

func TestProjectFrameInBounds(t *testing.T) {
	f := outsideFrame(t, 2)
	dots := ProjectFrame(f, 400, 200)
	if len(dots) == 0 {
		t.Fatal("expected visible particles")
	}
	for i, d := range dots {
		if d.X < 0 || d.X > 400 || d.Y < 0 || d.Y > 200 {
			t.Fatalf("dot %d out of bounds: %+v", i, d)
		}
		if i > 0 && d.Depth > dots[i-1].Depth {
			t.Fatalf("dots not sorted far to near at %d", i)
		}
	}
}

func TestFrameToImageSize(t *testing.T) {
	f := outsideFrame(t, 2)
	img := FrameToImage(f, 64, 32)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("expected 64x32, got %v", b)
	}
}

func TestFrameToSVG(t *testing.T) {
	f := outsideFrame(t, 2)
	svg := FrameToSVG(f, 400, 200)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("expected a complete svg document")
	}
	if n := strings.Count(svg, "<circle"); n != len(ProjectFrame(f, 400, 200)) {
		t.Errorf("expected one circle per dot, got %d", n)
	}
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(2, 1)
	c.SetColor(0, 0, "#ff8800")
	c.Set(3, 3)
	svg := CanvasToSVG(c, 4)
	if strings.Count(svg, "<circle") != 2 {
		t.Errorf("expected 2 circles, got %d", strings.Count(svg, "<circle"))
	}
	if !strings.Contains(svg, `fill="#ff8800"`) {
		t.Error("expected cell colour in output")
	}
	if CanvasToSVG(nil, 1) != "" {
		t.Error("expected empty output for nil canvas")
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("expected empty output for a single value")
	}
	svg := SeriesToSVG([]float64{1, 2, 3}, 100, 50, "#ff7a1a")
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments, got %d", strings.Count(svg, " L"))
	}
}
