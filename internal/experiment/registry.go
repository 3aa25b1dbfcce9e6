package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/attractor/internal/metrics"
	"github.com/san-kum/attractor/internal/sim"
)

// EscapeRadius is the distance past which a particle counts as escaped.
const EscapeRadius = 500.0

// Registry maps metric names to constructors.
type Registry struct {
	metrics map[string]func() sim.Metric
}

func NewRegistry() *Registry {
	r := &Registry{metrics: make(map[string]func() sim.Metric)}

	r.metrics["mean_speed"] = func() sim.Metric { return metrics.NewMeanSpeed() }
	r.metrics["kinetic_energy"] = func() sim.Metric { return metrics.NewKineticEnergy() }
	r.metrics["spread"] = func() sim.Metric { return metrics.NewSpread() }
	r.metrics["escaped"] = func() sim.Metric { return metrics.NewEscaped(EscapeRadius) }

	return r
}

func (r *Registry) GetMetric(name string) (sim.Metric, error) {
	fn, ok := r.metrics[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListMetrics() []string {
	names := make([]string, 0, len(r.metrics))
	for name := range r.metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is every registered metric.
func (r *Registry) DefaultMetrics() []string { return r.ListMetrics() }

// Attach adds the default metrics to s.
func (r *Registry) Attach(s *sim.Simulation) {
	for _, name := range r.DefaultMetrics() {
		m, _ := r.GetMetric(name)
		s.AddMetric(m)
	}
}
