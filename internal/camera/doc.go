// Package camera implements the inside/outside camera rig.
//
// Before a particle field exists the rig idles, auto-rotating the outside
// camera. Once a field is activated the inside camera rides the first particle
// and looks along a composite heading built from the first particle, the
// leading attractor and the last particle. The outside camera orbits the
// origin under user input, smoothed by a critically damped spring.
package camera
