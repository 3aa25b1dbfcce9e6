package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

const (
	DefaultPointMass   = 256.0
	DefaultPointRadius = 1 << 18
)

// GravitationPoint is a point mass attracting every particle. Radius is
// informational only.
type GravitationPoint struct {
	Mass     float64
	Position dynamo.Vec3
	Radius   float64
	Motion   Motion
}

// NewGravitationPoint returns a static point. A non-positive mass falls back
// to DefaultPointMass.
func NewGravitationPoint(mass float64, pos dynamo.Vec3) *GravitationPoint {
	if mass <= 0 {
		mass = DefaultPointMass
	}
	return &GravitationPoint{Mass: mass, Position: pos, Radius: DefaultPointRadius}
}

// Attract returns the velocity change the point imparts on p over dt:
//
//	sqrt(p.Mass * g.Mass / |p - g|^2 * dt) * normalize(g - p)
//
// The square root folds the timestep in before taking it. At zero distance
// the result is the zero vector and ok is false.
func (g *GravitationPoint) Attract(p *Particle, dt float64) (acc dynamo.Vec3, ok bool) {
	distSq := p.Position.DistanceSq(g.Position)
	if distSq == 0 {
		return dynamo.Vec3{}, false
	}
	radicand := (p.Mass * g.Mass) / distSq * dt
	if !(radicand > 0) || math.IsInf(radicand, 0) {
		return dynamo.Vec3{}, true
	}
	return g.Position.Sub(p.Position).Normalize().Scale(math.Sqrt(radicand)), true
}

// Update moves the point along its motion, if any.
func (g *GravitationPoint) Update(elapsed float64) {
	if g.Motion != nil {
		g.Position = g.Motion.PositionAt(elapsed)
	}
}

// SetParam changes mass or radius by name.
func (g *GravitationPoint) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
			return fmt.Errorf("mass must be positive, got %v", value)
		}
		g.Mass = value
	case "radius":
		g.Radius = value
	default:
		return fmt.Errorf("unknown parameter %q", name)
	}
	return nil
}
