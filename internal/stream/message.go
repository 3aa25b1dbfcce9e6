package stream

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

// Command is a client request. Cmd is one of toggle, view, multiplier,
// restart, pause, orbit, zoom, aspect or param. A param command sets Param
// (mass or radius) on attractor number Attractor to Value.
type Command struct {
	Cmd       string  `json:"cmd"`
	Value     float64 `json:"value,omitempty"`
	Quality   int     `json:"quality,omitempty"`
	Mode      string  `json:"mode,omitempty"`
	DX        float64 `json:"dx,omitempty"`
	DY        float64 `json:"dy,omitempty"`
	Attractor int     `json:"attractor,omitempty"`
	Param     string  `json:"param,omitempty"`
}

// Apply runs the command against s. It reports whether the particle field
// was replaced.
func (c Command) Apply(s *sim.Simulation) (restarted bool, err error) {
	switch c.Cmd {
	case "toggle":
		s.ToggleViewMode()
	case "view":
		switch c.Mode {
		case "inside":
			s.SetViewMode(camera.ViewInside)
		case "outside":
			s.SetViewMode(camera.ViewOutside)
		default:
			return false, fmt.Errorf("unknown view %q", c.Mode)
		}
	case "multiplier":
		return false, s.SetTimeMultiplier(c.Value)
	case "restart":
		if err := s.Restart(physics.Quality(c.Quality)); err != nil {
			return false, err
		}
		return true, nil
	case "pause":
		s.SetPaused(!s.Paused())
	case "orbit":
		s.Orbit(c.DX, c.DY)
	case "zoom":
		if c.Value <= 0 || math.IsNaN(c.Value) {
			return false, fmt.Errorf("zoom factor must be positive, got %v", c.Value)
		}
		s.Zoom(c.Value)
	case "aspect":
		s.SetAspect(c.Value)
	case "param":
		return false, s.SetAttractorParam(c.Attractor, c.Param, c.Value)
	default:
		return false, fmt.Errorf("unknown command %q", c.Cmd)
	}
	return false, nil
}

// CameraMessage is the active camera in a frame message.
type CameraMessage struct {
	Position       [3]float64  `json:"position"`
	Forward        [3]float64  `json:"forward"`
	Orientation    [4]float64  `json:"orientation"`
	FOV            float64     `json:"fov"`
	Aspect         float64     `json:"aspect"`
	Near           float64     `json:"near"`
	Far            float64     `json:"far"`
	ViewProjection [16]float64 `json:"viewProjection"`
}

// FrameMessage is one streamed frame. Positions is flat xyz. Colors is flat
// rgb and only sent when a client first sees a field, since particle colours
// never change within a field.
type FrameMessage struct {
	Type        string        `json:"type"`
	Index       uint64        `json:"index"`
	Elapsed     float64       `json:"elapsed"`
	State       string        `json:"state"`
	View        string        `json:"view"`
	Camera      CameraMessage `json:"camera"`
	Backdrop    [3]float64    `json:"backdrop"`
	PointSize   float64       `json:"pointSize"`
	LowFidelity bool          `json:"lowFidelity"`
	Attractors  [][3]float64  `json:"attractors"`
	Positions   []float32     `json:"positions"`
	Colors      []uint8       `json:"colors,omitempty"`
}

// ErrorMessage reports a rejected command to the client that sent it.
type ErrorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// NewFrameMessage converts f. Colours are included when withColors is set.
func NewFrameMessage(f *sim.Frame, withColors bool) FrameMessage {
	q := f.Camera.Orientation
	m := FrameMessage{
		Type:    "frame",
		Index:   f.Index,
		Elapsed: f.Elapsed,
		State:   f.State.String(),
		View:    f.ViewMode.String(),
		Camera: CameraMessage{
			Position:       f.Camera.Position.Array(),
			Forward:        f.Camera.Forward.Array(),
			Orientation:    [4]float64{q.V[0], q.V[1], q.V[2], q.W},
			FOV:            f.Camera.Projection.FOV,
			Aspect:         f.Camera.Projection.Aspect,
			Near:           f.Camera.Projection.Near,
			Far:            f.Camera.Projection.Far,
			ViewProjection: f.Camera.ViewProjection,
		},
		Backdrop:    f.BackdropAnchor().Array(),
		PointSize:   f.PointSize,
		LowFidelity: f.LowFidelity,
		Attractors:  make([][3]float64, len(f.Attractors)),
		Positions:   make([]float32, 0, 3*len(f.Particles)),
	}
	for i, a := range f.Attractors {
		m.Attractors[i] = a.Array()
	}
	for i := range f.Particles {
		p := f.Particles[i].Position
		m.Positions = append(m.Positions, float32(p.X), float32(p.Y), float32(p.Z))
	}
	if withColors {
		m.Colors = frameColors(f)
	}
	return m
}

func frameColors(f *sim.Frame) []uint8 {
	colors := make([]uint8, 0, 3*len(f.Particles))
	for i := range f.Particles {
		r, g, b, _ := f.Particles[i].Color.RGBA8()
		colors = append(colors, r, g, b)
	}
	return colors
}

// encodeFrame encodes only the variants some client needs; the other comes
// back nil.
func encodeFrame(f *sim.Frame, needFull, needLean bool) (full, lean []byte, err error) {
	m := NewFrameMessage(f, false)
	if needLean {
		if lean, err = json.Marshal(m); err != nil {
			return nil, nil, err
		}
	}
	if needFull {
		m.Colors = frameColors(f)
		if full, err = json.Marshal(m); err != nil {
			return nil, nil, err
		}
	}
	return full, lean, nil
}
