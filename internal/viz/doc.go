// Package viz provides the terminal view of a running bounce simulation.
//
// The view is a Bubble Tea program:
//
//   - [Model]: steps an experiment on each tick and draws the x-z plane
//   - [Canvas]: braille pixel buffer used for the box, trail and bodies
//   - three color themes, cycled with T
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Single step while paused
//	R     - Reset to initial state
//	+/-   - Steps per frame
//	T     - Cycle color themes
//	Q     - Quit
package viz
