// Package viz renders a running simulation in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one simulation with a metrics panel
//   - [Canvas]: Braille-based pixel canvas with per-cell colour
//   - [RenderFrame]: projects a frame's particles through its camera
//
// # Key Bindings
//
//	V      - Toggle inside/outside camera
//	Arrows - Orbit the outside camera
//	+/-    - Zoom the outside camera
//	1-4    - Restart at low, medium, high or ultra quality
//	Space  - Pause particle integration
//	[ ]    - Halve or double the time multiplier
//	T      - Cycle color themes
//	?      - Show help overlay
package viz
