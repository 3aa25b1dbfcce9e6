package physics

import (
	"fmt"
	"math"

	perlin "github.com/aquilax/go-perlin"
	"github.com/san-kum/attractor/internal/dynamo"
)

// Motion drives a gravitation point's position from the clock's elapsed time.
type Motion interface {
	PositionAt(elapsed float64) dynamo.Vec3
}

// Static holds a point in place.
type Static dynamo.Vec3

func (s Static) PositionAt(float64) dynamo.Vec3 { return dynamo.Vec3(s) }

// Wander is the reference attractor path: three incommensurate sinusoids.
type Wander struct {
	Amplitude float64
	PeriodX   float64
	PeriodY   float64
	PeriodZ   float64
}

func NewWander() Wander {
	return Wander{Amplitude: 8, PeriodX: 2, PeriodY: 3.43, PeriodZ: 1.23}
}

func (w Wander) PositionAt(t float64) dynamo.Vec3 {
	return dynamo.Vec3{
		X: math.Cos(t/w.PeriodX) * w.Amplitude,
		Y: math.Sin(t/w.PeriodY) * w.Amplitude,
		Z: math.Sin(t/w.PeriodZ) * w.Amplitude,
	}
}

// PerlinWander drifts along smooth 1D noise, one independent channel per axis.
type PerlinWander struct {
	Amplitude float64
	Rate      float64
	axes      [3]*perlin.Perlin
}

func NewPerlinWander(amplitude, rate float64, seed int64) *PerlinWander {
	pw := &PerlinWander{Amplitude: amplitude, Rate: rate}
	for i := range pw.axes {
		pw.axes[i] = perlin.NewPerlin(2, 2, 3, seed+int64(i)*7919)
	}
	return pw
}

func (p *PerlinWander) PositionAt(t float64) dynamo.Vec3 {
	x := t * p.Rate
	return dynamo.Vec3{
		X: p.axes[0].Noise1D(x) * p.Amplitude,
		Y: p.axes[1].Noise1D(x) * p.Amplitude,
		Z: p.axes[2].Noise1D(x) * p.Amplitude,
	}
}

// Motion kinds accepted by NewMotion.
const (
	MotionStatic = "static"
	MotionWander = "wander"
	MotionPerlin = "perlin"
)

// NewMotion builds a motion by kind. origin is used by static motion.
func NewMotion(kind string, origin dynamo.Vec3, amplitude float64, seed int64) (Motion, error) {
	switch kind {
	case "", MotionStatic:
		return Static(origin), nil
	case MotionWander:
		w := NewWander()
		if amplitude > 0 {
			w.Amplitude = amplitude
		}
		return w, nil
	case MotionPerlin:
		if amplitude <= 0 {
			amplitude = 8
		}
		return NewPerlinWander(amplitude, 0.5, seed), nil
	default:
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownMotion, kind)
	}
}
