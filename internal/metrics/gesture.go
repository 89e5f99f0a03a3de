package metrics

import (
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/sim"
)

// GestureCount counts the frames on which a gesture edge fired.
type GestureCount struct {
	name    string
	gesture gesture.Gesture
	count   int
}

func NewGestureCount(g gesture.Gesture) *GestureCount {
	return &GestureCount{
		name:    "gestures_" + g.String(),
		gesture: g,
	}
}

func (c *GestureCount) Name() string {
	return c.name
}

func (c *GestureCount) Observe(f sim.Frame) {
	if f.Gesture == c.gesture {
		c.count++
	}
}

func (c *GestureCount) Value() float64 {
	return float64(c.count)
}

func (c *GestureCount) Reset() {
	c.count = 0
}

// TargetChanges counts how often the targeted object changed, including
// losing a target.
type TargetChanges struct {
	name    string
	last    string
	started bool
	changes int
}

func NewTargetChanges() *TargetChanges {
	return &TargetChanges{name: "target_changes"}
}

func (c *TargetChanges) Name() string {
	return c.name
}

func (c *TargetChanges) Observe(f sim.Frame) {
	if c.started && f.Target != c.last {
		c.changes++
	}
	c.last = f.Target
	c.started = true
}

func (c *TargetChanges) Value() float64 {
	return float64(c.changes)
}

func (c *TargetChanges) Reset() {
	c.last = ""
	c.started = false
	c.changes = 0
}
