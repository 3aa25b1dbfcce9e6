package export

import (
	"sort"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sim"
)

// Dot is a particle projected to image coordinates.
type Dot struct {
	X, Y  float64
	Depth float64
	Color dynamo.Color
}

// ProjectFrame maps the frame's visible particles to a width x height image,
// sorted far to near. The frame should have been produced with a matching
// aspect ratio.
func ProjectFrame(f *sim.Frame, width, height int) []Dot {
	dots := make([]Dot, 0, len(f.Particles))
	for i := range f.Particles {
		p := &f.Particles[i]
		nx, ny, depth, ok := camera.Project(f.Camera.ViewProjection, p.Position)
		if !ok || nx < -1 || nx > 1 || ny < -1 || ny > 1 || depth > 1 {
			continue
		}
		dots = append(dots, Dot{
			X:     (nx + 1) / 2 * float64(width),
			Y:     (1 - ny) / 2 * float64(height),
			Depth: depth,
			Color: p.Color,
		})
	}
	sort.Slice(dots, func(i, j int) bool { return dots[i].Depth > dots[j].Depth })
	return dots
}

// dotRadius scales the frame's point size to pixels.
func dotRadius(f *sim.Frame, height int) float64 {
	r := f.PointSize * float64(height) / 1000
	if r < 0.5 {
		r = 0.5
	}
	return r
}
