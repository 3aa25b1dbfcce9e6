package dynamo

import (
	"errors"
	"math"
	"testing"
)

func TestClockAdvance(t *testing.T) {
	src := &ManualTime{T: 100}
	c := NewClock(src.Now)
	c.SetMultiplier(1.0 / 16)

	src.Advance(1.6)
	if err := c.Advance(); err != nil {
		t.Fatalf("advance: %v", err)
	}
	if math.Abs(c.Delta()-0.1) > 1e-12 {
		t.Errorf("delta = %v, want 0.1", c.Delta())
	}
	if math.Abs(c.Elapsed()-0.1) > 1e-12 {
		t.Errorf("elapsed = %v, want 0.1", c.Elapsed())
	}

	src.Advance(3.2)
	c.Advance()
	if math.Abs(c.Elapsed()-0.3) > 1e-12 {
		t.Errorf("elapsed = %v, want 0.3", c.Elapsed())
	}
}

func TestClockMultiplierChangeIsNotRetroactive(t *testing.T) {
	src := &ManualTime{}
	c := NewClock(src.Now)

	src.Advance(2)
	c.Advance()
	c.SetMultiplier(10)
	if c.Elapsed() != 2 {
		t.Errorf("elapsed rescaled to %v after multiplier change", c.Elapsed())
	}

	src.Advance(1)
	c.Advance()
	if c.Elapsed() != 12 {
		t.Errorf("elapsed = %v, want 12", c.Elapsed())
	}
}

func TestClockBackwardSource(t *testing.T) {
	src := &ManualTime{T: 10}
	c := NewClock(src.Now)

	src.Advance(1)
	c.Advance()
	before := c.Elapsed()

	src.Advance(-5)
	err := c.Advance()
	if !errors.Is(err, ErrClockAnomaly) {
		t.Errorf("expected ErrClockAnomaly, got %v", err)
	}
	if c.Delta() != 0 {
		t.Errorf("delta = %v, want 0", c.Delta())
	}
	if c.Elapsed() != before {
		t.Errorf("elapsed moved backward: %v -> %v", before, c.Elapsed())
	}
	if c.Anomalies() != 1 {
		t.Errorf("anomalies = %d, want 1", c.Anomalies())
	}

	src.Advance(2)
	c.Advance()
	if c.Delta() != 2 {
		t.Errorf("delta after recovery = %v, want 2", c.Delta())
	}
}

func TestWallTimeMonotonic(t *testing.T) {
	a := WallTime()
	b := WallTime()
	if b < a {
		t.Errorf("wall time went backward: %v -> %v", a, b)
	}
}
