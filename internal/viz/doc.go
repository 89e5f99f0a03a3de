// Package viz is the interactive terminal view of a headsim session.
//
// The view is a Bubble Tea program that drives a [sim.Session] from the
// keyboard and renders what the head-mounted camera sees:
//
//   - [Canvas]: Braille-based pixel canvas
//   - [Viewport]: perspective projection of the scene through the camera rig
//   - [Model]: the Bubble Tea model tying input, session and rendering together
//
// # Key Bindings
//
//	←/h →/l - Turn the head left/right
//	↑/k ↓/j - Tilt the head up/down
//	Space   - Pause/Resume
//	R       - Reset the scene
//	T       - Cycle color themes
//	G       - Toggle GIF recording
//	?       - Show help overlay
//	Q       - Quit
//
// A shake is three quick alternating turns with short pauses between them,
// a nod the same on the vertical axis.
package viz
