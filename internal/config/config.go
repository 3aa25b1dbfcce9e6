package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractor/internal/camera"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/physics"
	"github.com/san-kum/attractor/internal/sim"
)

const (
	DefaultQuality    = "medium"
	DefaultMultiplier = sim.DefaultMultiplier
	DefaultFPS        = 60
	DefaultMass       = sim.ReferenceAttractorMass
	DefaultAmplitude  = 8.0
)

type Config struct {
	Quality    string            `yaml:"quality"`
	Multiplier float64           `yaml:"multiplier"`
	Seed       uint64            `yaml:"seed"`
	FPS        int               `yaml:"fps"`
	Attractors []AttractorConfig `yaml:"attractors"`
	Camera     CameraConfig      `yaml:"camera"`
}

type AttractorConfig struct {
	Mass      float64    `yaml:"mass"`
	Position  [3]float64 `yaml:"position"`
	Motion    string     `yaml:"motion"`
	Amplitude float64    `yaml:"amplitude"`
}

type CameraConfig struct {
	View string `yaml:"view"`
}

func DefaultConfig() *Config {
	return &Config{
		Quality:    DefaultQuality,
		Multiplier: DefaultMultiplier,
		FPS:        DefaultFPS,
		Attractors: []AttractorConfig{
			{Mass: DefaultMass, Motion: physics.MotionWander, Amplitude: DefaultAmplitude},
		},
		Camera: CameraConfig{View: camera.ViewInside.String()},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field without building anything.
func (c *Config) Validate() error {
	if _, err := c.QualityLevel(); err != nil {
		return err
	}
	if c.Multiplier < 0 || math.IsNaN(c.Multiplier) || math.IsInf(c.Multiplier, 0) {
		return &dynamo.ConfigError{Field: "multiplier", Value: c.Multiplier, Wrapped: dynamo.ErrInvalidMultiplier}
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d", c.FPS)
	}
	if _, err := c.ViewMode(); err != nil {
		return err
	}
	for i, a := range c.Attractors {
		if !(a.Mass > 0) || math.IsInf(a.Mass, 0) {
			return fmt.Errorf("attractors[%d]: mass must be positive, got %f", i, a.Mass)
		}
		if _, err := physics.NewMotion(a.Motion, dynamo.Vec3{}, a.Amplitude, 0); err != nil {
			return fmt.Errorf("attractors[%d]: %w", i, err)
		}
	}
	return nil
}

func (c *Config) QualityLevel() (physics.Quality, error) {
	return physics.ParseQuality(c.Quality)
}

func (c *Config) ViewMode() (camera.ViewMode, error) {
	switch c.Camera.View {
	case "", "inside":
		return camera.ViewInside, nil
	case "outside":
		return camera.ViewOutside, nil
	}
	return 0, fmt.Errorf("unknown camera view %q", c.Camera.View)
}

// Points builds the configured attractors. Each noise-driven attractor gets
// its own seed derived from the config seed.
func (c *Config) Points() ([]*physics.GravitationPoint, error) {
	points := make([]*physics.GravitationPoint, 0, len(c.Attractors))
	for i, a := range c.Attractors {
		origin := dynamo.Vec3{X: a.Position[0], Y: a.Position[1], Z: a.Position[2]}
		motion, err := physics.NewMotion(a.Motion, origin, a.Amplitude, int64(c.Seed)+int64(i))
		if err != nil {
			return nil, fmt.Errorf("attractors[%d]: %w", i, err)
		}
		g := physics.NewGravitationPoint(a.Mass, origin)
		g.Motion = motion
		points = append(points, g)
	}
	return points, nil
}

// Options translates the config into simulation options.
func (c *Config) Options(logger *slog.Logger) ([]sim.Option, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	points, err := c.Points()
	if err != nil {
		return nil, err
	}
	opts := []sim.Option{
		sim.WithMultiplier(c.Multiplier),
		sim.WithSeed(c.Seed),
		sim.WithFPS(c.FPS),
		sim.WithPoints(points...),
	}
	if logger != nil {
		opts = append(opts, sim.WithLogger(logger))
	}
	return opts, nil
}

// NewSimulation builds a started simulation from the config.
func (c *Config) NewSimulation(logger *slog.Logger) (*sim.Simulation, error) {
	q, err := c.QualityLevel()
	if err != nil {
		return nil, err
	}
	opts, err := c.Options(logger)
	if err != nil {
		return nil, err
	}
	s, err := sim.New(q, opts...)
	if err != nil {
		return nil, err
	}
	view, _ := c.ViewMode()
	s.SetViewMode(view)
	return s, nil
}
