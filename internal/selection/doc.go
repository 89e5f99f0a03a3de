// Package selection implements the timed select/deselect/follow lifecycle of
// a manipulable object.
//
// A [Machine] moves through three states:
//
//	unselected --Select--> selecting --timer full--> selected
//	     ^                     |                        |
//	     +------- Deselect ----+------------------------+
//
// While selecting, the timer fills toward SelectionTime and the progress
// signal drives outline feedback. Once selected, gravity is disabled, a pulse
// effect starts and the body is smoothed toward the owner's follow anchor.
// Deselect halves the timer so a quick reselect is cheaper than a cold one,
// and the timer drains back to zero while unselected.
package selection
