// Package sim drives one particle field under a set of gravitation points.
//
// A Simulation is advanced one frame at a time by its host:
//
//	s, err := sim.New(physics.QualityMedium)
//	for running {
//		frame := s.AdvanceFrame()
//		render(frame)
//	}
//
// Each frame advances the clock, moves the gravitation points, integrates the
// particles with a fixed step and recomputes the camera rig. Integration does
// not depend on how long a frame took on the wall clock.
package sim
