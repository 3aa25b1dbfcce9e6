package viz

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sim"
)

// SkyboxSize is the edge length of the backdrop cube.
const SkyboxSize = 5000.0

type projected struct {
	x, y  int
	depth float64
	color lipgloss.Color
}

// toScreen maps normalised device coordinates to canvas sub-pixels.
func toScreen(nx, ny float64, pw, ph int) (int, int) {
	x := int((nx + 1) / 2 * float64(pw-1))
	y := int((1 - ny) / 2 * float64(ph-1))
	return x, y
}

// CanvasAspect is the width/height ratio of a canvas in sub-pixels.
func CanvasAspect(c *Canvas) float64 {
	pw, ph := c.PixelSize()
	return float64(pw) / float64(ph)
}

// RenderFrame draws the backdrop, the particles far to near, and the
// attractors of f through the frame's camera.
func RenderFrame(c *Canvas, f *sim.Frame, theme Theme) {
	if c == nil || f == nil {
		return
	}
	c.Clear()
	vp := f.Camera.ViewProjection
	pw, ph := c.PixelSize()

	drawBackdrop(c, vp, f.BackdropAnchor(), theme.Muted)

	pts := make([]projected, 0, len(f.Particles))
	for i := range f.Particles {
		p := &f.Particles[i]
		if pt, ok := project(vp, p.Position, pw, ph); ok {
			pt.color = lipgloss.Color(p.Color.Hex())
			pts = append(pts, pt)
		}
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].depth > pts[j].depth })
	for _, pt := range pts {
		c.SetColor(pt.x, pt.y, pt.color)
	}

	for _, a := range f.Attractors {
		if pt, ok := project(vp, a, pw, ph); ok {
			for d := -1; d <= 1; d++ {
				c.SetColor(pt.x+d, pt.y, theme.Accent)
				c.SetColor(pt.x, pt.y+d, theme.Accent)
			}
		}
	}
}

func project(vp mgl64.Mat4, p dynamo.Vec3, pw, ph int) (projected, bool) {
	nx, ny, depth, ok := camera.Project(vp, p)
	if !ok || nx < -1 || nx > 1 || ny < -1 || ny > 1 || depth > 1 {
		return projected{}, false
	}
	x, y := toScreen(nx, ny, pw, ph)
	return projected{x: x, y: y, depth: depth}, true
}

var cubeEdges = [12][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 0}, {4, 5}, {5, 6}, {6, 7}, {7, 4}, {0, 4}, {1, 5}, {2, 6}, {3, 7}}

// SkyboxCorners returns the corners of the backdrop cube centred on anchor.
func SkyboxCorners(anchor dynamo.Vec3) [8]dynamo.Vec3 {
	s := SkyboxSize / 2
	unit := [8]dynamo.Vec3{
		{X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: -s, Y: s, Z: -s},
		{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s},
	}
	var out [8]dynamo.Vec3
	for i, v := range unit {
		out[i] = anchor.Add(v)
	}
	return out
}

// drawBackdrop draws the cube edges whose ends are both in front of the
// camera, clipped to the viewport.
func drawBackdrop(c *Canvas, vp mgl64.Mat4, anchor dynamo.Vec3, col lipgloss.Color) {
	pw, ph := c.PixelSize()
	corners := SkyboxCorners(anchor)
	for _, e := range cubeEdges {
		x0, y0, _, ok0 := camera.Project(vp, corners[e[0]])
		x1, y1, _, ok1 := camera.Project(vp, corners[e[1]])
		if !ok0 || !ok1 {
			continue
		}
		x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1)
		if !ok {
			continue
		}
		sx0, sy0 := toScreen(x0, y0, pw, ph)
		sx1, sy1 := toScreen(x1, y1, pw, ph)
		c.DrawLine(sx0, sy0, sx1, sy1, col)
	}
}

// clipSegment clips a segment to the [-1,1] square (Liang-Barsky).
func clipSegment(x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{{-dx, x0 + 1}, {dx, 1 - x0}, {-dy, y0 + 1}, {dy, 1 - y0}}
	for _, pq := range edges {
		p, q := pq[0], pq[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
