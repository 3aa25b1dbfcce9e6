// Package physics provides the particle field and its gravitational attractors.
//
// The simulation advances a [Field] of [Particle] values under zero or more
// [GravitationPoint] attractors:
//
//   - [GravitationPoint]: point mass with an optional [Motion] of elapsed time
//   - [Wander]: the reference oscillating attractor path
//   - [GenerateField]: bulk particle creation sized by [Quality]
//   - [Integrate]: one fixed-step update of every particle
//
// # Fixed Step
//
// Integration always advances by [FixedStep] of the clock multiplier, never by
// the measured frame time, so orbits do not depend on render cadence:
//
//	dt := physics.FixedStep(1.0 / 16)
//	stats := physics.Integrate(field, points, dt)
//
// The attraction formula is deliberately non-physical; see [GravitationPoint.Attract].
package physics
