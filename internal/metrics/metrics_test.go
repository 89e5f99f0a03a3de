package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/selection"
	"github.com/san-kum/headsim/internal/sim"
)

func TestGestureCount(t *testing.T) {
	m := NewGestureCount(gesture.Shake)
	if m.Name() != "gestures_shake" {
		t.Errorf("unexpected name %s", m.Name())
	}

	for _, g := range []gesture.Gesture{gesture.NoGesture, gesture.Shake, gesture.Nod, gesture.Shake} {
		m.Observe(sim.Frame{Gesture: g})
	}
	if m.Value() != 2 {
		t.Errorf("expected 2 shakes, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", m.Value())
	}
}

func TestTimeToSelect(t *testing.T) {
	m := NewTimeToSelect()
	if m.Value() != -1 {
		t.Errorf("expected -1 before any selection, got %f", m.Value())
	}

	frames := []sim.Frame{
		{Time: 0.1, State: selection.Selecting},
		{Time: 0.5, State: selection.Selected},
		{Time: 0.6, State: selection.Unselected},
		{Time: 1.2, State: selection.Selected},
	}
	for _, f := range frames {
		m.Observe(f)
	}
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Errorf("expected first selection at 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != -1 {
		t.Errorf("expected -1 after reset, got %f", m.Value())
	}
}

func TestSelectedRatio(t *testing.T) {
	m := NewSelectedRatio()
	if m.Value() != 0 {
		t.Errorf("expected 0 with no samples, got %f", m.Value())
	}

	states := []selection.State{selection.Unselected, selection.Selecting, selection.Selected, selection.Selected}
	for _, s := range states {
		m.Observe(sim.Frame{State: s})
	}
	if m.Value() != 0.5 {
		t.Errorf("expected ratio 0.5, got %f", m.Value())
	}
}

func TestTargetChanges(t *testing.T) {
	m := NewTargetChanges()
	for _, name := range []string{"orb", "orb", "", "left-orb", "left-orb", "orb"} {
		m.Observe(sim.Frame{Target: name})
	}
	if m.Value() != 3 {
		t.Errorf("expected 3 changes, got %f", m.Value())
	}

	m.Reset()
	m.Observe(sim.Frame{Target: "orb"})
	if m.Value() != 0 {
		t.Errorf("first frame should not count as a change, got %f", m.Value())
	}
}

func TestDefaultNamesUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Default() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric name %s", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
