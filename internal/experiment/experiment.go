package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/sim"
)

// Config describes a headless run.
type Config struct {
	Preset string
	Sim    *config.Config
	Frames int
	// FrameDuration is the wall time each frame pretends to take, in
	// seconds. Zero means 1/FPS.
	FrameDuration float64
	Metrics       []string
}

// Result summarises a finished run.
type Result struct {
	Frames      int
	Elapsed     float64
	Wall        time.Duration
	Particles   int
	Diagnostics dynamo.Diagnostics
	Metrics     map[string]float64
}

// Experiment drives a simulation on a manual clock so runs are repeatable
// regardless of host speed.
type Experiment struct {
	cfg       Config
	clock     *dynamo.ManualTime
	simulator *sim.Simulation
}

func New(cfg Config) *Experiment {
	if cfg.Sim == nil {
		cfg.Sim = config.DefaultConfig()
	}
	if cfg.FrameDuration <= 0 {
		fps := cfg.Sim.FPS
		if fps <= 0 {
			fps = config.DefaultFPS
		}
		cfg.FrameDuration = 1 / float64(fps)
	}
	return &Experiment{cfg: cfg, clock: &dynamo.ManualTime{}}
}

// Setup builds the simulation and attaches the configured metrics.
func (e *Experiment) Setup(logger *slog.Logger, registry *Registry) error {
	q, err := e.cfg.Sim.QualityLevel()
	if err != nil {
		return err
	}
	opts, err := e.cfg.Sim.Options(logger)
	if err != nil {
		return err
	}
	opts = append(opts, sim.WithTimeSource(e.clock.Now))
	s, err := sim.New(q, opts...)
	if err != nil {
		return err
	}
	view, err := e.cfg.Sim.ViewMode()
	if err != nil {
		return err
	}
	s.SetViewMode(view)

	if registry == nil {
		registry = NewRegistry()
	}
	names := e.cfg.Metrics
	if len(names) == 0 {
		names = registry.DefaultMetrics()
	}
	for _, name := range names {
		m, err := registry.GetMetric(name)
		if err != nil {
			return err
		}
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

// Run advances the configured number of frames. It stops early with the
// context's error if ctx is cancelled.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	start := time.Now()
	for i := 0; i < e.cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		e.clock.Advance(e.cfg.FrameDuration)
		e.simulator.AdvanceFrame()
	}

	return &Result{
		Frames:      e.cfg.Frames,
		Elapsed:     e.simulator.Elapsed(),
		Wall:        time.Since(start),
		Particles:   e.simulator.Field().Len(),
		Diagnostics: e.simulator.Diagnostics(),
		Metrics:     e.simulator.Metrics(),
	}, nil
}

// GetSimulator returns the underlying simulation for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulation {
	return e.simulator
}
