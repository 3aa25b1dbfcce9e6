package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/san-kum/attractor/internal/dynamo"
)

const (
	minPolar    = 1e-3
	maxPolar    = math.Pi - 1e-3
	minDistance = 1.0
	maxDistance = 5000.0
)

// Orbit rotates a camera around a fixed target with no panning. Input sets
// goal angles; Update springs the current angles toward them.
type Orbit struct {
	Target dynamo.Vec3

	azimuth, polar, distance          float64
	goalAzimuth, goalPolar, goalDist  float64
	velAzimuth, velPolar, velDistance float64
	spring                            harmonica.Spring
}

// NewOrbit places the camera at position, looking at target.
func NewOrbit(position, target dynamo.Vec3, fps int) *Orbit {
	o := &Orbit{Target: target, spring: harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0)}
	off := position.Sub(target)
	o.distance = off.Length()
	if o.distance < minDistance {
		o.distance = minDistance
		off = dynamo.Vec3{Z: minDistance}
	}
	o.azimuth = math.Atan2(off.X, off.Z)
	o.polar = math.Acos(off.Y / o.distance)
	o.goalAzimuth, o.goalPolar, o.goalDist = o.azimuth, o.polar, o.distance
	return o
}

// Rotate adds to the goal azimuth and polar angles (radians).
func (o *Orbit) Rotate(dAzimuth, dPolar float64) {
	o.goalAzimuth += dAzimuth
	o.goalPolar = math.Max(minPolar, math.Min(maxPolar, o.goalPolar+dPolar))
}

// Zoom scales the goal distance; factors below 1 move closer.
func (o *Orbit) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	o.goalDist = math.Max(minDistance, math.Min(maxDistance, o.goalDist*factor))
}

// Update advances the smoothing by one frame.
func (o *Orbit) Update() {
	o.azimuth, o.velAzimuth = o.spring.Update(o.azimuth, o.velAzimuth, o.goalAzimuth)
	o.polar, o.velPolar = o.spring.Update(o.polar, o.velPolar, o.goalPolar)
	o.distance, o.velDistance = o.spring.Update(o.distance, o.velDistance, o.goalDist)
}

// Snap jumps to the goal with no smoothing.
func (o *Orbit) Snap() {
	o.azimuth, o.polar, o.distance = o.goalAzimuth, o.goalPolar, o.goalDist
	o.velAzimuth, o.velPolar, o.velDistance = 0, 0, 0
}

func (o *Orbit) Distance() float64 { return o.distance }

// Position is the current camera position on the sphere.
func (o *Orbit) Position() dynamo.Vec3 {
	sp, cp := math.Sincos(o.polar)
	sa, ca := math.Sincos(o.azimuth)
	return o.Target.Add(dynamo.Vec3{X: o.distance * sp * sa, Y: o.distance * cp, Z: o.distance * sp * ca})
}
