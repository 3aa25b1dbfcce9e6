package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Projection is a perspective projection; FOV is the vertical angle in degrees.
type Projection struct {
	FOV    float64
	Aspect float64
	Near   float64
	Far    float64
}

func (p Projection) Matrix() mgl64.Mat4 {
	aspect := p.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(p.FOV), aspect, p.Near, p.Far)
}

// Camera is a projection plus a pose. The pose is either a look-at target or
// Euler yaw/pitch (rotation about Y, then X, camera facing -Z).
type Camera struct {
	Projection
	Position  dynamo.Vec3
	Target    dynamo.Vec3
	Yaw       float64
	Pitch     float64
	UseTarget bool
}

const (
	DefaultNear = 0.1
	DefaultFar  = 10000.0
)

func New(fov float64) Camera {
	return Camera{Projection: Projection{FOV: fov, Aspect: 1, Near: DefaultNear, Far: DefaultFar}}
}

var worldUp = dynamo.Vec3{Y: 1}

// LookAt points the camera at target.
func (c *Camera) LookAt(target dynamo.Vec3) {
	c.Target = target
	c.UseTarget = true
	f := c.Forward()
	c.Yaw = math.Atan2(-f.X, -f.Z)
	c.Pitch = math.Asin(math.Max(-1, math.Min(1, f.Y)))
}

// SetRotation orients the camera by Euler angles and drops any target.
func (c *Camera) SetRotation(yaw, pitch float64) {
	c.Yaw, c.Pitch = yaw, pitch
	c.UseTarget = false
}

// Forward returns the unit view direction.
func (c *Camera) Forward() dynamo.Vec3 {
	if c.UseTarget {
		if f := c.Target.Sub(c.Position).Normalize(); f != (dynamo.Vec3{}) {
			return f
		}
		return dynamo.Vec3{Z: -1}
	}
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return dynamo.Vec3{X: -sy, Y: sp * cy, Z: -cp * cy}
}

// up avoids a degenerate basis when looking straight up or down.
func (c *Camera) up(f dynamo.Vec3) dynamo.Vec3 {
	if f.Cross(worldUp).LengthSq() < 1e-12 {
		return dynamo.Vec3{Z: -1}
	}
	return worldUp
}

func (c *Camera) View() mgl64.Mat4 {
	f := c.Forward()
	eye := toMgl(c.Position)
	return mgl64.LookAtV(eye, eye.Add(toMgl(f)), toMgl(c.up(f)))
}

// ViewProjection returns projection * view.
func (c *Camera) ViewProjection() mgl64.Mat4 {
	return c.Projection.Matrix().Mul4(c.View())
}

// Orientation returns the camera-to-world rotation.
func (c *Camera) Orientation() mgl64.Quat {
	return mgl64.Mat4ToQuat(c.View().Inv()).Normalize()
}

// Project maps a world point through vp to normalised device coordinates. ok
// is false for points behind the camera.
func Project(vp mgl64.Mat4, p dynamo.Vec3) (x, y, depth float64, ok bool) {
	clip := vp.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	if clip.W() <= 0 {
		return 0, 0, 0, false
	}
	return clip.X() / clip.W(), clip.Y() / clip.W(), clip.Z() / clip.W(), true
}

func toMgl(v dynamo.Vec3) mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }
