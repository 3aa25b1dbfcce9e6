// Package dynamo provides core primitives for the particle attractor simulation.
//
// The package defines the value types shared by every other layer:
//
//   - [Vec3]: 3D vector value type
//   - [Color]: HSL colour fixed at particle creation
//   - [Clock]: scaled wall-clock timer driving each frame
//   - [Diagnostics]: counters for recovered numeric edge cases
//
// # Example
//
//	clk := dynamo.NewClock(dynamo.WallTime)
//	clk.SetMultiplier(1.0 / 16)
//	clk.Advance()
//	fmt.Println(clk.Elapsed(), clk.Delta())
//
// # Thread Safety
//
// None of the mutable types are thread-safe. A simulation owns its clock and
// is driven from a single goroutine.
package dynamo
