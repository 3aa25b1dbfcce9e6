package automation

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/exp/rand"

	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/experiment"
)

// Sweep parameters.
const (
	ParamMass       = "mass"
	ParamMultiplier = "multiplier"
)

// ParameterSweep runs a preset across evenly spaced values of one parameter.
type ParameterSweep struct {
	Preset    string
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Frames    int
	Seed      uint64
}

type SweepResult struct {
	ParamValue float64
	Elapsed    float64
	Metrics    map[string]float64
	Degenerate int64
}

func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry, logger *slog.Logger) ([]SweepResult, error) {
	logger = orDiscard(logger)
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("sweep needs at least one step, got %d", sweep.NumSteps)
	}
	if sweep.ParamName != ParamMass && sweep.ParamName != ParamMultiplier {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sweep.ParamName)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg, err := ScenarioStep{Preset: sweep.Preset, Seed: sweep.Seed}.Config()
		if err != nil {
			return nil, err
		}
		if err := setParam(cfg, sweep.ParamName, paramVal); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := runOne(ctx, cfg, sweep.Frames, nil, registry)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Elapsed:    result.Elapsed,
			Metrics:    result.Metrics,
			Degenerate: result.Diagnostics.DegenerateContacts,
		})
		logger.Info("sweep", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// setParam writes a swept value straight into cfg, so zero is swept as
// zero rather than read as "keep the preset".
func setParam(cfg *config.Config, name string, value float64) error {
	switch name {
	case ParamMass:
		for i := range cfg.Attractors {
			cfg.Attractors[i].Mass = value
		}
	case ParamMultiplier:
		cfg.Multiplier = value
	}
	return cfg.Validate()
}

// MonteCarloConfig runs a preset under many random seeds.
type MonteCarloConfig struct {
	Preset    string
	NumTrials int
	Frames    int
	Seed      uint64
	// EscapeLimit is the largest escaped fraction a trial may end with and
	// still count as bound.
	EscapeLimit float64
	// Workers caps concurrent trials. Zero means one per CPU.
	Workers int
}

type MonteCarloResult struct {
	TrialID int
	Seed    uint64
	Escaped float64
	Spread  float64
	Stable  bool
}

// RunMonteCarlo draws every trial seed up front, so results depend only on
// cfg.Seed and not on how trials are scheduled.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry, logger *slog.Logger) ([]MonteCarloResult, error) {
	logger = orDiscard(logger)
	rng := rand.New(rand.NewSource(cfg.Seed))
	metrics := []string{"escaped", "spread"}

	configs := make([]experiment.Config, cfg.NumTrials)
	for trial := range configs {
		simCfg := config.GetPreset(cfg.Preset)
		if simCfg == nil {
			return nil, fmt.Errorf("unknown preset: %s", cfg.Preset)
		}
		simCfg.Seed = rng.Uint64()
		configs[trial] = experiment.Config{Preset: cfg.Preset, Sim: simCfg, Frames: cfg.Frames, Metrics: metrics}
	}

	logger.Info("monte carlo", "trials", cfg.NumTrials, "workers", cfg.Workers)
	runs, err := experiment.NewEnsemble(configs, cfg.Workers, registry, nil).Run(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for trial, result := range runs {
		escaped := result.Metrics["escaped"]
		results[trial] = MonteCarloResult{
			TrialID: trial,
			Seed:    configs[trial].Sim.Seed,
			Escaped: escaped,
			Spread:  result.Metrics["spread"],
			Stable:  escaped <= cfg.EscapeLimit,
		}
	}
	logger.Info("monte carlo done", "trials", len(results))

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
