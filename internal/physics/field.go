package physics

import "github.com/san-kum/attractor/internal/dynamo"

// NominalFrameRate is the rate the fixed step is derived from.
const NominalFrameRate = 60.0

// Field is an ordered particle collection. Order only identifies the first
// and last particle for camera framing; count never changes after creation.
type Field struct {
	Particles   []Particle
	Quality     Quality
	PointSize   float64
	LowFidelity bool
}

// GenerateField creates a field sized by q. A nil source uses seed 0.
func GenerateField(q Quality, r Rand) (*Field, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if r == nil {
		r = NewRand(0)
	}
	n := q.ParticleCount()
	f := &Field{
		Particles:   make([]Particle, n),
		Quality:     q,
		PointSize:   q.PointSize(),
		LowFidelity: q.LowFidelity(),
	}
	for i := range f.Particles {
		f.Particles[i] = NewParticle(r)
	}
	return f, nil
}

func (f *Field) Len() int { return len(f.Particles) }

// First returns the first particle; the field is never empty.
func (f *Field) First() *Particle { return &f.Particles[0] }

// Last returns the last particle.
func (f *Field) Last() *Particle { return &f.Particles[len(f.Particles)-1] }

// Clone returns a deep copy.
func (f *Field) Clone() *Field {
	c := *f
	c.Particles = make([]Particle, len(f.Particles))
	copy(c.Particles, f.Particles)
	return &c
}

// FixedStep returns the integration step for one nominal 60 Hz frame scaled
// by the clock multiplier.
func FixedStep(multiplier float64) float64 {
	return 1000 / NominalFrameRate / 1000 * multiplier
}

// IntegrateStats reports what one integration pass recovered from.
type IntegrateStats struct {
	Degenerate int
}

// Integrate applies every point's attraction to each particle's velocity, then
// advances its position by velocity*dt. Particles do not interact.
func Integrate(f *Field, points []*GravitationPoint, dt float64) IntegrateStats {
	var stats IntegrateStats
	for i := range f.Particles {
		p := &f.Particles[i]
		for _, g := range points {
			acc, ok := g.Attract(p, dt)
			if !ok {
				stats.Degenerate++
				continue
			}
			p.Velocity = p.Velocity.Add(acc)
		}
		p.Position = p.Position.Add(p.Velocity.Scale(dt))
	}
	return stats
}

// Centroid returns the mean particle position.
func (f *Field) Centroid() dynamo.Vec3 {
	var c dynamo.Vec3
	for i := range f.Particles {
		c = c.Add(f.Particles[i].Position)
	}
	if n := len(f.Particles); n > 0 {
		c = c.Scale(1 / float64(n))
	}
	return c
}
