// Package viz hosts a particle field in the terminal.
//
// The live view is a Bubble Tea program. Its update loop is the frame
// thread:
//
//   - ticks fire a [sim.ManualScheduler] at the configured FPS
//   - mouse motion over the canvas becomes a pointer move
//   - leaving the canvas or losing terminal focus becomes a pointer leave
//   - window size changes resize, and so respawn, the field
//
// The canvas is a [surface.Braille] grid. One cell stands for
// [CellWidth] x [CellHeight] logical pixels, so particle density matches a
// browser window of the same apparent size.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Respawn the pool
//	T     - Cycle panel themes
//	?     - Show help overlay
//	Q     - Quit
package viz
