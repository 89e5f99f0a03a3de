// Package gesture recognizes discrete head gestures from a stream of
// per-tick orientation deltas.
//
// Each tick is classified into a dominant [Direction]. Consecutive ticks with
// the same direction collapse into one [MotionSample]; a direction change
// appends a new sample to a bounded history and matches the tail of that
// history against every registered [Template]:
//
//   - shake-left:  left, none, right, none, left
//   - shake-right: right, none, left, none, right
//   - nod-up:      up, none, down, none, up
//
// Template durations are upper bounds. A segment held longer than its bound
// breaks the match even when the directions line up.
//
// # Usage
//
//	rec := gesture.NewRecognizer(gesture.DefaultConfig())
//	for each frame {
//		rec.Tick(dYaw, dPitch, dt)
//		if rec.JustGestured(gesture.Shake) { ... }
//	}
//
// A Recognizer is owned by whatever drives the frame loop and is not safe for
// concurrent use.
package gesture
