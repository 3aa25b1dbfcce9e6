package camera

import (
	"math"

	"github.com/san-kum/attractor/internal/dynamo"
)

// State is the rig's lifecycle state. The only transition is NoField to
// FieldActive.
type State int

const (
	NoField State = iota
	FieldActive
)

func (s State) String() string {
	if s == FieldActive {
		return "field-active"
	}
	return "no-field"
}

// ViewMode selects which camera is rendered once a field exists.
type ViewMode int

const (
	ViewInside ViewMode = iota
	ViewOutside
)

func (m ViewMode) String() string {
	if m == ViewOutside {
		return "outside"
	}
	return "inside"
}

const (
	InsideFOV  = 30.0
	OutsideFOV = 35.0

	idleYawRate    = 0.25
	idlePitchScale = math.Pi / 16
)

// DefaultOutsidePosition is where the orbiting camera starts.
var DefaultOutsidePosition = dynamo.Vec3{Z: 50}

// Framing is what the inside camera is derived from each frame.
type Framing struct {
	FirstPosition dynamo.Vec3
	FirstVelocity dynamo.Vec3
	LastPosition  dynamo.Vec3
	Leading       dynamo.Vec3
}

// Rig holds the inside and outside cameras.
type Rig struct {
	Inside  Camera
	Outside Camera
	Orbit   *Orbit

	state State
	mode  ViewMode
}

// NewRig returns a rig in NoField with the inside view selected.
func NewRig(fps int) *Rig {
	r := &Rig{
		Inside:  New(InsideFOV),
		Outside: New(OutsideFOV),
		Orbit:   NewOrbit(DefaultOutsidePosition, dynamo.Vec3{}, fps),
	}
	r.Outside.Position = DefaultOutsidePosition
	return r
}

func (r *Rig) State() State       { return r.state }
func (r *Rig) ViewMode() ViewMode { return r.mode }

// ActivateField moves the rig to FieldActive. It reports whether this call
// made the transition.
func (r *Rig) ActivateField() bool {
	if r.state == FieldActive {
		return false
	}
	r.state = FieldActive
	return true
}

func (r *Rig) SetViewMode(m ViewMode) { r.mode = m }

func (r *Rig) ToggleViewMode() ViewMode {
	if r.mode == ViewInside {
		r.mode = ViewOutside
	} else {
		r.mode = ViewInside
	}
	return r.mode
}

// SetAspect updates both projections.
func (r *Rig) SetAspect(aspect float64) {
	if aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return
	}
	r.Inside.Aspect = aspect
	r.Outside.Aspect = aspect
}

// Active returns the camera to render. The inside camera is only used once a
// field exists.
func (r *Rig) Active() *Camera {
	if r.mode == ViewInside && r.state == FieldActive {
		return &r.Inside
	}
	return &r.Outside
}

// IdleRotation is the auto-rotation used before a field exists.
func IdleRotation(elapsed float64) (yaw, pitch float64) {
	yaw = -elapsed*idleYawRate - math.Pi
	pitch = math.Sin(yaw) * idlePitchScale
	return yaw, pitch
}

// Update derives camera poses for this frame. framing is ignored in NoField
// and required in FieldActive.
func (r *Rig) Update(elapsed float64, framing *Framing) {
	r.Orbit.Update()
	r.Outside.Position = r.Orbit.Position()

	if r.state == NoField || framing == nil {
		yaw, pitch := IdleRotation(elapsed)
		r.Active().SetRotation(yaw, pitch)
		return
	}

	r.Outside.LookAt(r.Orbit.Target)
	r.Inside.Position = framing.FirstPosition
	r.Inside.LookAt(framing.FirstPosition.Combine(framing.Leading, framing.FirstVelocity, framing.LastPosition))
}

func (s State) MarshalText() ([]byte, error)    { return []byte(s.String()), nil }
func (m ViewMode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }
