package metrics

import "github.com/san-kum/attractor/internal/physics"

// KineticEnergy tracks the field's total kinetic energy, averaged over frames.
type KineticEnergy struct {
	name    string
	last    float64
	total   float64
	samples int
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *physics.Field, _ []*physics.GravitationPoint, _ float64) {
	e.last = FieldKineticEnergy(f)
	e.total += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last returns the most recent frame's energy.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.last = 0
	e.total = 0
	e.samples = 0
}

// FieldKineticEnergy returns sum(0.5 * m * |v|^2).
func FieldKineticEnergy(f *physics.Field) float64 {
	ke := 0.0
	for i := range f.Particles {
		p := &f.Particles[i]
		ke += 0.5 * p.Mass * p.Velocity.LengthSq()
	}
	return ke
}

// MeanSpeed is the mean particle speed of the latest frame.
type MeanSpeed struct {
	name  string
	value float64
}

func NewMeanSpeed() *MeanSpeed { return &MeanSpeed{name: "mean_speed"} }

func (m *MeanSpeed) Name() string { return m.name }

func (m *MeanSpeed) Observe(f *physics.Field, _ []*physics.GravitationPoint, _ float64) {
	if f.Len() == 0 {
		m.value = 0
		return
	}
	sum := 0.0
	for i := range f.Particles {
		sum += f.Particles[i].Velocity.Length()
	}
	m.value = sum / float64(f.Len())
}

func (m *MeanSpeed) Value() float64 { return m.value }
func (m *MeanSpeed) Reset()         { m.value = 0 }
