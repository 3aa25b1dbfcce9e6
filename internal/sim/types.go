package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/physics"
)

// Metric accumulates a scalar over frames.
type Metric interface {
	Name() string
	Observe(f *physics.Field, points []*physics.GravitationPoint, elapsed float64)
	Value() float64
	Reset()
}

// Observer is notified after every frame. The frame is only valid during the call.
type Observer interface {
	OnFrame(f *Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(f *Frame)

func (fn ObserverFunc) OnFrame(f *Frame) { fn(f) }

// CameraView is the renderable state of the active camera.
type CameraView struct {
	Position       dynamo.Vec3       `json:"position"`
	Forward        dynamo.Vec3       `json:"forward"`
	Orientation    mgl64.Quat        `json:"-"`
	Projection     camera.Projection `json:"projection"`
	View           mgl64.Mat4        `json:"-"`
	ViewProjection mgl64.Mat4        `json:"viewProjection"`
}

// ParticleView is what a renderer needs from one particle.
type ParticleView struct {
	Position dynamo.Vec3  `json:"position"`
	Color    dynamo.Color `json:"color"`
}

// Frame is the output of one AdvanceFrame call. Particles is reused by the
// simulation on the next call; use Clone to keep a frame.
type Frame struct {
	Index       uint64             `json:"index"`
	Elapsed     float64            `json:"elapsed"`
	Delta       float64            `json:"delta"`
	Step        float64            `json:"step"`
	State       camera.State       `json:"state"`
	ViewMode    camera.ViewMode    `json:"viewMode"`
	Camera      CameraView         `json:"camera"`
	Particles   []ParticleView     `json:"particles"`
	PointSize   float64            `json:"pointSize"`
	LowFidelity bool               `json:"lowFidelity"`
	Attractors  []dynamo.Vec3      `json:"attractors"`
	Diagnostics dynamo.Diagnostics `json:"diagnostics"`
}

// Clone returns a deep copy that survives later frames.
func (f *Frame) Clone() *Frame {
	c := *f
	c.Particles = append([]ParticleView(nil), f.Particles...)
	c.Attractors = append([]dynamo.Vec3(nil), f.Attractors...)
	return &c
}

// BackdropAnchor is where a skybox should be centred this frame.
func (f *Frame) BackdropAnchor() dynamo.Vec3 { return f.Camera.Position }
