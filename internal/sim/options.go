package sim

import (
	"io"
	"log/slog"

	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/physics"
)

// DefaultMultiplier runs the simulation at 1/16 real speed.
const DefaultMultiplier = 1.0 / 16

// ReferenceAttractorMass is the mass of the reference wandering attractor.
const ReferenceAttractorMass = 50.0

type options struct {
	logger     *slog.Logger
	now        dynamo.TimeSource
	seed       uint64
	rng        physics.Rand
	multiplier float64
	points     []*physics.GravitationPoint
	pointsSet  bool
	fps        int
}

// Option configures a Simulation.
type Option func(*options)

func WithLogger(l *slog.Logger) Option            { return func(o *options) { o.logger = l } }
func WithTimeSource(now dynamo.TimeSource) Option { return func(o *options) { o.now = now } }
func WithSeed(seed uint64) Option                 { return func(o *options) { o.seed = seed } }
func WithRand(r physics.Rand) Option              { return func(o *options) { o.rng = r } }
func WithMultiplier(m float64) Option             { return func(o *options) { o.multiplier = m } }
func WithFPS(fps int) Option                      { return func(o *options) { o.fps = fps } }

// WithPoints replaces the reference attractor. An empty list is allowed.
func WithPoints(points ...*physics.GravitationPoint) Option {
	return func(o *options) { o.points, o.pointsSet = points, true }
}

// ReferencePoints returns the reference configuration: one wandering point.
func ReferencePoints() []*physics.GravitationPoint {
	g := physics.NewGravitationPoint(ReferenceAttractorMass, dynamo.Vec3{})
	g.Motion = physics.NewWander()
	return []*physics.GravitationPoint{g}
}

func defaultOptions() options {
	return options{
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        dynamo.WallTime,
		multiplier: DefaultMultiplier,
		fps:        60,
	}
}
