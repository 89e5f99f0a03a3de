package metrics

import (
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/selection"
	"github.com/san-kum/headsim/internal/sim"
)

// TimeToSelect is the session time of the first frame with a selected
// target, or -1 when nothing was ever selected.
type TimeToSelect struct {
	name  string
	time  float64
	found bool
}

func NewTimeToSelect() *TimeToSelect {
	return &TimeToSelect{name: "time_to_select"}
}

func (m *TimeToSelect) Name() string {
	return m.name
}

func (m *TimeToSelect) Observe(f sim.Frame) {
	if !m.found && f.State == selection.Selected {
		m.time = f.Time
		m.found = true
	}
}

func (m *TimeToSelect) Value() float64 {
	if !m.found {
		return -1
	}
	return m.time
}

func (m *TimeToSelect) Reset() {
	m.time = 0
	m.found = false
}

// SelectedRatio is the fraction of frames spent holding a selected object.
type SelectedRatio struct {
	name     string
	selected int
	samples  int
}

func NewSelectedRatio() *SelectedRatio {
	return &SelectedRatio{name: "selected_ratio"}
}

func (m *SelectedRatio) Name() string {
	return m.name
}

func (m *SelectedRatio) Observe(f sim.Frame) {
	m.samples++
	if f.State == selection.Selected {
		m.selected++
	}
}

func (m *SelectedRatio) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return float64(m.selected) / float64(m.samples)
}

func (m *SelectedRatio) Reset() {
	m.selected = 0
	m.samples = 0
}

// Default returns a fresh instance of every built-in metric.
func Default() []sim.Metric {
	return []sim.Metric{
		NewGestureCount(gesture.Shake),
		NewGestureCount(gesture.Nod),
		NewTimeToSelect(),
		NewSelectedRatio(),
		NewTargetChanges(),
	}
}
