package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/attractor/internal/dynamo"
)

func TestParticleCount(t *testing.T) {
	for q := QualityLow; q <= QualityUltra; q++ {
		want := int(math.Floor(4096 + 61440*float64(q)/3))
		if got := q.ParticleCount(); got != want {
			t.Errorf("%s: count = %d, want %d", q, got, want)
		}
	}
	if QualityUltra.ParticleCount() != 65536 {
		t.Errorf("ultra count = %d", QualityUltra.ParticleCount())
	}
}

func TestPointSize(t *testing.T) {
	tests := []struct {
		q    Quality
		size float64
		low  bool
	}{
		{QualityLow, 0.25, true},
		{QualityMedium, 1.5, false},
		{QualityHigh, 1.0, false},
		{QualityUltra, 0.5, false},
	}
	for _, tt := range tests {
		if got := tt.q.PointSize(); math.Abs(got-tt.size) > 1e-12 {
			t.Errorf("%s: size = %v, want %v", tt.q, got, tt.size)
		}
		if tt.q.LowFidelity() != tt.low {
			t.Errorf("%s: low fidelity = %v", tt.q, tt.q.LowFidelity())
		}
	}
}

func TestParseQuality(t *testing.T) {
	for in, want := range map[string]Quality{"low": QualityLow, "1": QualityMedium, " HIGH ": QualityHigh, "3": QualityUltra} {
		got, err := ParseQuality(in)
		if err != nil || got != want {
			t.Errorf("ParseQuality(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseQuality("4"); !errors.Is(err, dynamo.ErrInvalidQuality) {
		t.Errorf("expected ErrInvalidQuality, got %v", err)
	}
}

func TestGenerateFieldRejectsQuality(t *testing.T) {
	for _, q := range []Quality{-1, 4} {
		f, err := GenerateField(q, NewRand(1))
		if !errors.Is(err, dynamo.ErrInvalidQuality) {
			t.Errorf("quality %d: expected ErrInvalidQuality, got %v", q, err)
		}
		if f != nil {
			t.Errorf("quality %d: expected no field", q)
		}
	}
}

func TestGenerateFieldRanges(t *testing.T) {
	f, err := GenerateField(QualityMedium, NewRand(42))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if f.Len() != QualityMedium.ParticleCount() {
		t.Fatalf("count = %d", f.Len())
	}

	for i, p := range f.Particles {
		switch {
		case p.Mass < 0.125 || p.Mass >= 4.125:
			t.Fatalf("particle %d mass %v out of range", i, p.Mass)
		case p.Color.H < -0.005 || p.Color.H > 0.045:
			t.Fatalf("particle %d hue %v out of range", i, p.Color.H)
		case p.Color.S != 1 || p.Color.L != 0.55:
			t.Fatalf("particle %d colour %+v", i, p.Color)
		case p.Position.X < 10 || p.Position.X > 30:
			t.Fatalf("particle %d x %v out of range", i, p.Position.X)
		case math.Abs(p.Position.Y) > 1:
			t.Fatalf("particle %d y %v out of range", i, p.Position.Y)
		case p.Position.Z < 9 || p.Position.Z > 11:
			t.Fatalf("particle %d z %v out of range", i, p.Position.Z)
		case p.Velocity.X < -10 || p.Velocity.X > -9.5:
			t.Fatalf("particle %d vx %v out of range", i, p.Velocity.X)
		case p.Velocity.Y < 8 || p.Velocity.Y > 8.25:
			t.Fatalf("particle %d vy %v out of range", i, p.Velocity.Y)
		case p.Velocity.Z != 0:
			t.Fatalf("particle %d vz %v", i, p.Velocity.Z)
		}
	}
}

func TestGenerateFieldSeeded(t *testing.T) {
	a, _ := GenerateField(QualityLow, NewRand(7))
	b, _ := GenerateField(QualityLow, NewRand(7))
	c, _ := GenerateField(QualityLow, NewRand(8))

	if a.Particles[100] != b.Particles[100] {
		t.Error("same seed produced different particles")
	}
	if a.Particles[100] == c.Particles[100] {
		t.Error("different seeds produced identical particles")
	}
}

func TestFixedStep(t *testing.T) {
	if got := FixedStep(1); math.Abs(got-1.0/60) > 1e-15 {
		t.Errorf("FixedStep(1) = %v", got)
	}
	if got := FixedStep(1.0 / 16); math.Abs(got-1.0/960) > 1e-15 {
		t.Errorf("FixedStep(1/16) = %v", got)
	}
}

func TestIntegrateSemiImplicit(t *testing.T) {
	f := &Field{Particles: []Particle{{Position: dynamo.Vec3{X: 10}, Mass: 1}}}
	g := NewGravitationPoint(256, dynamo.Vec3{})

	Integrate(f, []*GravitationPoint{g}, 1)

	p := f.Particles[0]
	if math.Abs(p.Velocity.X+1.6) > 1e-12 {
		t.Errorf("velocity = %v, want (-1.6,0,0)", p.Velocity)
	}
	// position uses the updated velocity
	if math.Abs(p.Position.X-8.4) > 1e-12 {
		t.Errorf("position = %v, want (8.4,0,0)", p.Position)
	}
}

func TestIntegrateNoPoints(t *testing.T) {
	f := &Field{Particles: []Particle{{Position: dynamo.Vec3{X: 1}, Velocity: dynamo.Vec3{Y: 2}, Mass: 1}}}
	Integrate(f, nil, 0.5)
	if f.Particles[0].Position != (dynamo.Vec3{X: 1, Y: 1}) {
		t.Errorf("free particle position = %v", f.Particles[0].Position)
	}
}

func TestIntegrateDegenerateStaysFinite(t *testing.T) {
	f := &Field{Particles: []Particle{
		{Position: dynamo.Vec3{}, Mass: 1},
		{Position: dynamo.Vec3{X: 5}, Mass: 1},
	}}
	g := NewGravitationPoint(256, dynamo.Vec3{})

	stats := Integrate(f, []*GravitationPoint{g}, FixedStep(1))
	if stats.Degenerate != 1 {
		t.Errorf("degenerate = %d, want 1", stats.Degenerate)
	}
	for i, p := range f.Particles {
		if !p.Position.IsFinite() || !p.Velocity.IsFinite() {
			t.Errorf("particle %d not finite: %+v", i, p)
		}
	}
}

func TestIntegrateOrderIndependentAcrossPoints(t *testing.T) {
	base, _ := GenerateField(QualityLow, NewRand(5))
	g1 := NewGravitationPoint(50, dynamo.Vec3{X: 3})
	g2 := NewGravitationPoint(80, dynamo.Vec3{Y: -4, Z: 2})

	a, b := base.Clone(), base.Clone()
	for i := 0; i < 20; i++ {
		Integrate(a, []*GravitationPoint{g1, g2}, FixedStep(1.0/16))
		Integrate(b, []*GravitationPoint{g2, g1}, FixedStep(1.0/16))
	}
	for i := range a.Particles {
		if d := a.Particles[i].Position.Sub(b.Particles[i].Position).Length(); d > 1e-9 {
			t.Fatalf("particle %d diverged by %v", i, d)
		}
	}
}

func TestFieldFirstLastClone(t *testing.T) {
	f, _ := GenerateField(QualityLow, NewRand(2))
	if f.First() != &f.Particles[0] || f.Last() != &f.Particles[f.Len()-1] {
		t.Error("First/Last do not address the field ends")
	}
	c := f.Clone()
	c.Particles[0].Position = dynamo.Vec3{X: 1e6}
	if f.Particles[0].Position.X == 1e6 {
		t.Error("Clone shares particle storage")
	}
}

func TestFieldCentroid(t *testing.T) {
	f := &Field{Particles: []Particle{
		{Position: dynamo.Vec3{X: 2, Y: 0, Z: -4}},
		{Position: dynamo.Vec3{X: 4, Y: 6, Z: 0}},
	}}
	if c := f.Centroid(); c != (dynamo.Vec3{X: 3, Y: 3, Z: -2}) {
		t.Errorf("centroid = %v, want {3 3 -2}", c)
	}
	if c := (&Field{}).Centroid(); c != (dynamo.Vec3{}) {
		t.Errorf("empty centroid = %v, want zero", c)
	}
}
