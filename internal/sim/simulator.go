package sim

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/physics"
)

// Simulation owns the clock, attractors, particle field and camera rig. It is
// not safe for concurrent use; the host drives it from one goroutine.
type Simulation struct {
	clock     *dynamo.Clock
	points    []*physics.GravitationPoint
	field     *physics.Field
	rig       *camera.Rig
	rng       physics.Rand
	logger    *slog.Logger
	metrics   []Metric
	observers []Observer

	frame  Frame
	index  uint64
	diag   dynamo.Diagnostics
	paused bool
}

// New creates a simulation with a field generated at quality q. An invalid
// quality is rejected before any state is allocated.
func New(q physics.Quality, opts ...Option) (*Simulation, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	s, err := NewIdle(opts...)
	if err != nil {
		return nil, err
	}
	if err := s.Start(q); err != nil {
		return nil, err
	}
	return s, nil
}

// NewIdle creates a simulation with no particle field. The camera idles until
// Start is called.
func NewIdle(opts ...Option) (*Simulation, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateMultiplier(o.multiplier); err != nil {
		return nil, err
	}
	if o.rng == nil {
		o.rng = physics.NewRand(o.seed)
	}
	points := o.points
	if !o.pointsSet {
		points = ReferencePoints()
	}

	clk := dynamo.NewClock(o.now)
	clk.SetMultiplier(o.multiplier)

	return &Simulation{
		clock:     clk,
		points:    points,
		rig:       camera.NewRig(o.fps),
		rng:       o.rng,
		logger:    o.logger,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}, nil
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Start generates a new field at quality q, replacing any existing one
// wholesale. The camera rig moves to FieldActive and stays there.
func (s *Simulation) Start(q physics.Quality) error {
	field, err := physics.GenerateField(q, s.rng)
	if err != nil {
		return err
	}
	s.field = field
	if s.rig.ActivateField() {
		s.logger.Info("field active", "quality", q.String(), "particles", field.Len())
	} else {
		s.logger.Info("field restarted", "quality", q.String(), "particles", field.Len())
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	return nil
}

// Restart is Start under the name hosts use for a quality change.
func (s *Simulation) Restart(q physics.Quality) error { return s.Start(q) }

// AdvanceFrame runs one frame: advance the clock, move attractors, integrate
// with the fixed step, update cameras, and return the renderable frame.
func (s *Simulation) AdvanceFrame() *Frame {
	if err := s.clock.Advance(); err != nil {
		s.diag.ClockAnomalies++
		s.logger.Debug("clock anomaly", "err", err, "count", s.diag.ClockAnomalies)
	}
	elapsed := s.clock.Elapsed()

	for _, g := range s.points {
		g.Update(elapsed)
	}

	step := physics.FixedStep(s.clock.Multiplier())
	if s.field != nil && !s.paused {
		stats := physics.Integrate(s.field, s.points, step)
		if stats.Degenerate > 0 {
			s.diag.DegenerateContacts += int64(stats.Degenerate)
			s.logger.Debug("degenerate contact", "err", dynamo.ErrDegenerateGeometry,
				"particles", stats.Degenerate, "total", s.diag.DegenerateContacts)
		}
		for _, m := range s.metrics {
			m.Observe(s.field, s.points, elapsed)
		}
	}

	s.rig.Update(elapsed, s.framing())

	s.index++
	s.buildFrame(elapsed, step)
	for _, o := range s.observers {
		o.OnFrame(&s.frame)
	}
	return &s.frame
}

func (s *Simulation) framing() *camera.Framing {
	if s.field == nil {
		return nil
	}
	first, last := s.field.First(), s.field.Last()
	fr := &camera.Framing{
		FirstPosition: first.Position,
		FirstVelocity: first.Velocity,
		LastPosition:  last.Position,
	}
	if len(s.points) > 0 {
		fr.Leading = s.points[0].Position
	}
	return fr
}

func (s *Simulation) buildFrame(elapsed, step float64) {
	cam := s.rig.Active()
	f := &s.frame
	f.Index = s.index
	f.Elapsed = elapsed
	f.Delta = s.clock.Delta()
	f.Step = step
	f.State = s.rig.State()
	f.ViewMode = s.rig.ViewMode()
	f.Camera = CameraView{
		Position:       cam.Position,
		Forward:        cam.Forward(),
		Orientation:    cam.Orientation(),
		Projection:     cam.Projection,
		View:           cam.View(),
		ViewProjection: cam.ViewProjection(),
	}
	f.Diagnostics = s.diag

	f.Attractors = f.Attractors[:0]
	for _, g := range s.points {
		f.Attractors = append(f.Attractors, g.Position)
	}

	f.Particles = f.Particles[:0]
	if s.field == nil {
		f.PointSize, f.LowFidelity = 0, false
		return
	}
	f.PointSize, f.LowFidelity = s.field.PointSize, s.field.LowFidelity
	for i := range s.field.Particles {
		p := &s.field.Particles[i]
		f.Particles = append(f.Particles, ParticleView{Position: p.Position, Color: p.Color})
	}
}

func (s *Simulation) SetViewMode(m camera.ViewMode)   { s.rig.SetViewMode(m) }
func (s *Simulation) ToggleViewMode() camera.ViewMode { return s.rig.ToggleViewMode() }
func (s *Simulation) ViewMode() camera.ViewMode       { return s.rig.ViewMode() }

// SetTimeMultiplier changes the clock scale for future frames.
func (s *Simulation) SetTimeMultiplier(m float64) error {
	if err := validateMultiplier(m); err != nil {
		return err
	}
	s.clock.SetMultiplier(m)
	return nil
}

func (s *Simulation) TimeMultiplier() float64 { return s.clock.Multiplier() }

// SetPaused freezes particle integration; the clock and cameras keep running.
func (s *Simulation) SetPaused(p bool) { s.paused = p }
func (s *Simulation) Paused() bool     { return s.paused }

// SetAttractorParam changes a named parameter of attractor i.
func (s *Simulation) SetAttractorParam(i int, name string, value float64) error {
	if i < 0 || i >= len(s.points) {
		return fmt.Errorf("attractor %d out of range (have %d)", i, len(s.points))
	}
	return s.points[i].SetParam(name, value)
}

func (s *Simulation) SetAspect(aspect float64)       { s.rig.SetAspect(aspect) }
func (s *Simulation) Orbit(dAzimuth, dPolar float64) { s.rig.Orbit.Rotate(dAzimuth, dPolar) }
func (s *Simulation) Zoom(factor float64)            { s.rig.Orbit.Zoom(factor) }

func (s *Simulation) Elapsed() float64                    { return s.clock.Elapsed() }
func (s *Simulation) CameraState() camera.State           { return s.rig.State() }
func (s *Simulation) Field() *physics.Field               { return s.field }
func (s *Simulation) Points() []*physics.GravitationPoint { return s.points }
func (s *Simulation) Diagnostics() dynamo.Diagnostics     { return s.diag }

// Metrics returns the current value of every registered metric.
func (s *Simulation) Metrics() map[string]float64 {
	out := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		out[m.Name()] = m.Value()
	}
	return out
}

func validateMultiplier(m float64) error {
	if m < 0 || math.IsNaN(m) || math.IsInf(m, 0) {
		return &dynamo.ConfigError{Field: "multiplier", Value: m, Wrapped: dynamo.ErrInvalidMultiplier}
	}
	return nil
}

// IsConfigError reports whether err came from rejected configuration.
func IsConfigError(err error) bool {
	var ce *dynamo.ConfigError
	return errors.As(err, &ce)
}

func (s *Simulation) String() string {
	n := 0
	if s.field != nil {
		n = s.field.Len()
	}
	return fmt.Sprintf("sim[%s %s particles=%d t=%.3f]", s.rig.State(), s.rig.ViewMode(), n, s.clock.Elapsed())
}
