package physics

import (
	"fmt"
	"strings"

	"golang.org/x/exp/rand"

	"github.com/san-kum/attractor/internal/dynamo"
)

// Particle is a simulated point. Color is fixed at creation.
type Particle struct {
	Position dynamo.Vec3
	Velocity dynamo.Vec3
	Mass     float64
	Color    dynamo.Color
}

// Quality selects particle count and sprite size.
type Quality int

const (
	QualityLow Quality = iota
	QualityMedium
	QualityHigh
	QualityUltra
)

const (
	minParticles = 1 << 12
	maxParticles = 1 << 16
	minSize      = 0.5
	maxSize      = 2.0
	lowSize      = 0.25
)

var qualityNames = []string{"low", "medium", "high", "ultra"}

func (q Quality) String() string {
	if q.Validate() != nil {
		return fmt.Sprintf("quality(%d)", int(q))
	}
	return qualityNames[q]
}

func (q Quality) Validate() error {
	if q < QualityLow || q > QualityUltra {
		return &dynamo.ConfigError{Field: "quality", Value: int(q), Wrapped: dynamo.ErrInvalidQuality}
	}
	return nil
}

func (q Quality) fraction() float64 { return float64(q) / float64(QualityUltra) }

// ParticleCount is floor(lerp(4096, 65536, q/3)), computed in integers.
func (q Quality) ParticleCount() int {
	return minParticles + (maxParticles-minParticles)*int(q)/int(QualityUltra)
}

// PointSize is the sprite size handed to renderers; low quality uses a fixed
// small size with the low-fidelity sprite.
func (q Quality) PointSize() float64 {
	if q == QualityLow {
		return lowSize
	}
	return dynamo.Lerp(maxSize, minSize, q.fraction())
}

func (q Quality) LowFidelity() bool { return q == QualityLow }

// ParseQuality accepts a level name or its number.
func ParseQuality(s string) (Quality, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range qualityNames {
		if s == name || s == fmt.Sprint(i) {
			return Quality(i), nil
		}
	}
	return 0, &dynamo.ConfigError{Field: "quality", Value: s, Wrapped: dynamo.ErrInvalidQuality}
}

// Rand is the random source used for particle generation.
type Rand interface {
	Float64() float64
}

// NewRand returns a seeded source.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func biRandom(r Rand) float64 { return r.Float64()*2 - 1 }

// NewParticle draws one particle from the reference launch distribution.
func NewParticle(r Rand) Particle {
	return Particle{
		Mass: 0.125 + r.Float64()*4,
		Position: dynamo.Vec3{
			X: 20 + biRandom(r)*10,
			Y: biRandom(r),
			Z: 10 + biRandom(r),
		},
		Velocity: dynamo.Vec3{
			X: -10 + r.Float64()*0.5,
			Y: 8 + r.Float64()*0.25,
		},
		Color: dynamo.Color{H: 0.02 + biRandom(r)*0.025, S: 1, L: 0.55},
	}
}
