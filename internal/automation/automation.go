package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/experiment"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Zero fields keep the preset's value; Mass, when
// set, replaces the mass of every attractor.
type ScenarioStep struct {
	Preset     string   `yaml:"preset"`
	Quality    string   `yaml:"quality"`
	Multiplier float64  `yaml:"multiplier"`
	Seed       uint64   `yaml:"seed"`
	Mass       float64  `yaml:"mass"`
	Frames     int      `yaml:"frames"`
	Metrics    []string `yaml:"metrics"`
	SaveAs     string   `yaml:"save_as"`
}

// StepResult pairs a step with its outcome.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *experiment.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}

	return &scenario, nil
}

// Config resolves the step against its preset.
func (s ScenarioStep) Config() (*config.Config, error) {
	name := s.Preset
	if name == "" {
		name = config.DefaultQuality
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	if s.Quality != "" {
		cfg.Quality = s.Quality
	}
	if s.Multiplier != 0 {
		cfg.Multiplier = s.Multiplier
	}
	if s.Seed != 0 {
		cfg.Seed = s.Seed
	}
	if s.Mass != 0 {
		for i := range cfg.Attractors {
			cfg.Attractors[i].Mass = s.Mass
		}
	}
	return cfg, cfg.Validate()
}

// RunScenario executes every step in order. On failure it returns the
// results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry, logger *slog.Logger) ([]StepResult, error) {
	logger = orDiscard(logger)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		logger.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		result, err := runOne(ctx, cfg, step.Frames, step.Metrics, registry)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

func runOne(ctx context.Context, cfg *config.Config, frames int, metrics []string, registry *experiment.Registry) (*experiment.Result, error) {
	exp := experiment.New(experiment.Config{Sim: cfg, Frames: frames, Metrics: metrics})
	if err := exp.Setup(nil, registry); err != nil {
		return nil, fmt.Errorf("setup: %w", err)
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run: %w", err)
	}
	return result, nil
}

func orDiscard(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l
}
