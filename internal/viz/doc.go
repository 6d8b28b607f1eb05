// Package viz provides the live terminal view of a galaxy simulation.
//
// [Model] is a Bubble Tea program that ticks the engine every frame and
// draws the stars into a colored Braille canvas with a stats sidebar.
//
// # Key Bindings
//
//	f       - Speed up (x1.5)
//	s       - Slow down (/1.5)
//	p/Space - Pause/Resume
//	r       - Regenerate the galaxy with the next seed
//	t       - Cycle color themes
//	?       - Show help overlay
//	q       - Quit
package viz
