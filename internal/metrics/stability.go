package metrics

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/physics"
)

// Spread is the mean distance from particles to the leading attractor in the
// latest frame. With no attractor it measures distance to the origin.
type Spread struct {
	name  string
	value float64
}

func NewSpread() *Spread { return &Spread{name: "spread"} }

func (s *Spread) Name() string { return s.name }

func (s *Spread) Observe(f *physics.Field, points []*physics.GravitationPoint, _ float64) {
	if f.Len() == 0 {
		s.value = 0
		return
	}
	var centre dynamo.Vec3
	if len(points) > 0 {
		centre = points[0].Position
	}
	sum := 0.0
	for i := range f.Particles {
		sum += math.Sqrt(f.Particles[i].Position.DistanceSq(centre))
	}
	s.value = sum / float64(f.Len())
}

func (s *Spread) Value() float64 { return s.value }
func (s *Spread) Reset()         { s.value = 0 }

// Escaped is the fraction of frames in which any particle was beyond the
// threshold distance from the origin.
type Escaped struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewEscaped(threshold float64) *Escaped {
	return &Escaped{
		name:      "escaped",
		threshold: threshold,
	}
}

func (e *Escaped) Name() string {
	return e.name
}

func (e *Escaped) Observe(f *physics.Field, _ []*physics.GravitationPoint, _ float64) {
	e.samples++
	limit := e.threshold * e.threshold
	for i := range f.Particles {
		if f.Particles[i].Position.LengthSq() > limit {
			e.violations++
			break
		}
	}
}

func (e *Escaped) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return float64(e.violations) / float64(e.samples)
}

func (e *Escaped) Reset() {
	e.violations = 0
	e.samples = 0
}
