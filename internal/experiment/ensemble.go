package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs independent experiments concurrently. Each config gets its
// own Experiment and clock; results come back in config order.
type Ensemble struct {
	configs  []Config
	workers  int
	registry *Registry
	logger   *slog.Logger
}

// NewEnsemble runs configs on at most workers goroutines. Zero workers means
// one per CPU.
func NewEnsemble(configs []Config, workers int, registry *Registry, logger *slog.Logger) *Ensemble {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if registry == nil {
		registry = NewRegistry()
	}
	return &Ensemble{configs: configs, workers: workers, registry: registry, logger: logger}
}

// Run stops at the first failing run and returns its error.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results := make([]*Result, len(e.configs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i := range e.configs {
		g.Go(func() error {
			exp := New(e.configs[i])
			if err := exp.Setup(e.logger, e.registry); err != nil {
				return fmt.Errorf("run %d setup: %w", i, err)
			}
			result, err := exp.Run(ctx)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
