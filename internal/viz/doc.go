// Package viz renders layouts in the terminal.
//
//   - [Canvas]: braille dot canvas, 2x4 dots per cell, with [Fit] framing
//   - [Model]: Bubble Tea live view fed by [Attach]
//
// # Key Bindings
//
//	Space - Pause/Resume the layout loop
//	R     - Reheat and restart
//	C     - Animate nodes onto a circle
//	U     - Release pinned nodes
//	E     - Toggle edges
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
