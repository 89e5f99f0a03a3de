package gesture

import (
	"fmt"
	"math"
)

type Direction int

const (
	None Direction = iota
	Up
	Down
	Left
	Right
)

var directionNames = [...]string{"none", "up", "down", "left", "right"}

func (d Direction) String() string {
	if d < None || d > Right {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// MotionSample is a run of ticks sharing one direction. In a template the
// duration is the longest the run may last.
type MotionSample struct {
	Direction Direction
	Duration  float64
}

func (m MotionSample) String() string {
	return fmt.Sprintf("%s - %.2f", m.Direction, m.Duration)
}

// Classify returns the dominant direction of one tick's motion. Deltas at or
// below threshold on both axes are none, and so is an exact tie between axes.
// Positive pitch means the head moved down.
func Classify(deltaYaw, deltaPitch, threshold float64) Direction {
	absYaw := math.Abs(deltaYaw)
	absPitch := math.Abs(deltaPitch)
	if absYaw <= threshold && absPitch <= threshold {
		return None
	}

	switch {
	case absYaw > absPitch:
		if deltaYaw > 0 {
			return Right
		}
		if deltaYaw < 0 {
			return Left
		}
	case absPitch > absYaw:
		if deltaPitch > 0 {
			return Down
		}
		if deltaPitch < 0 {
			return Up
		}
	}
	return None
}

// sanitizeDt clamps negative and NaN timesteps to zero.
func sanitizeDt(dt float64) float64 {
	if dt < 0 || math.IsNaN(dt) {
		return 0
	}
	return dt
}
