package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/attractor/internal/config"
)

func lowConfig() *config.Config {
	cfg := config.GetPreset("low")
	cfg.Seed = 9
	return cfg
}

func TestRunIsRepeatable(t *testing.T) {
	run := func() *Result {
		e := New(Config{Sim: lowConfig(), Frames: 30})
		if err := e.Setup(nil, nil); err != nil {
			t.Fatal(err)
		}
		res, err := e.Run(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		return res
	}

	a, b := run(), run()
	if a.Frames != 30 || a.Particles != 4096 {
		t.Errorf("unexpected result %+v", a)
	}
	for name, v := range a.Metrics {
		if b.Metrics[name] != v {
			t.Errorf("metric %s differs: %f vs %f", name, v, b.Metrics[name])
		}
	}
	want := 30 * (1.0 / config.DefaultFPS) * config.DefaultMultiplier
	if d := a.Elapsed - want; d > 1e-9 || d < -1e-9 {
		t.Errorf("expected elapsed %f, got %f", want, a.Elapsed)
	}
}

func TestRunAttachesMetrics(t *testing.T) {
	e := New(Config{Sim: lowConfig(), Frames: 2, Metrics: []string{"spread"}})
	if err := e.Setup(nil, nil); err != nil {
		t.Fatal(err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Metrics) != 1 || res.Metrics["spread"] <= 0 {
		t.Errorf("expected only a positive spread, got %v", res.Metrics)
	}
}

func TestSetupRejectsUnknownMetric(t *testing.T) {
	e := New(Config{Sim: lowConfig(), Frames: 1, Metrics: []string{"nope"}})
	if err := e.Setup(nil, nil); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestRunRequiresSetup(t *testing.T) {
	if _, err := New(Config{Frames: 1}).Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	e := New(Config{Sim: lowConfig(), Frames: 1000})
	if err := e.Setup(nil, nil); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := e.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	want := []string{"escaped", "kinetic_energy", "mean_speed", "spread"}
	got := r.ListMetrics()
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
		m, err := r.GetMetric(want[i])
		if err != nil || m.Name() != want[i] {
			t.Errorf("metric %s: name %q err %v", want[i], m.Name(), err)
		}
	}
}
