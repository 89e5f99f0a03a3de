package sim

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/config"
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/input"
	"github.com/san-kum/headsim/internal/selection"
)

func TestSessionStepAppliesInput(t *testing.T) {
	s := NewSession(config.DefaultConfig(), zerolog.Nop())

	f := s.Step(3, 0, 0.02)
	if f.Yaw != 3 {
		t.Errorf("expected yaw 3, got %f", f.Yaw)
	}
	if f.RawX != 3 {
		t.Errorf("expected raw x recorded, got %f", f.RawX)
	}
	if f.HistoryLen != 2 {
		t.Errorf("expected a right sample pushed, got history length %d", f.HistoryLen)
	}
	if f.Step != 0 {
		t.Errorf("expected first frame to be step 0, got %d", f.Step)
	}

	f = s.Step(0, 2, 0.02)
	if f.Pitch != -2 {
		t.Errorf("expected positive y to pitch up, got %f", f.Pitch)
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession(config.DefaultConfig(), zerolog.Nop())
	runner := NewRunner(s, zerolog.Nop())

	tr, _ := input.NewRegistry().Get("select-and-shake")
	if _, err := runner.Run(context.Background(), input.NewPlayer(tr, 0.02), Config{Dt: 0.02, Duration: 10}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(s.Gestures()) == 0 {
		t.Fatal("expected gestures before reset")
	}
	orb := s.World().Find("orb")
	id := orb.ID

	s.Reset()

	if s.Time() != 0 {
		t.Errorf("expected time reset, got %f", s.Time())
	}
	if len(s.Gestures()) != 0 {
		t.Error("expected gesture log cleared")
	}
	if yaw, pitch := s.Rig().Angles(); yaw != 0 || pitch != 0 {
		t.Errorf("expected camera recentered, got (%f, %f)", yaw, pitch)
	}
	if len(s.Recognizer().History()) != 1 {
		t.Errorf("expected fresh history, got %v", s.Recognizer().History())
	}
	if orb.Machine.State() != selection.Unselected || orb.Machine.Timer() != 0 {
		t.Errorf("expected fresh selection state, got %s timer %f", orb.Machine.State(), orb.Machine.Timer())
	}
	if orb.ID != id {
		t.Error("reset should keep object identity")
	}
	if s.Orchestrator().Target() != nil {
		t.Error("expected no target after reset")
	}

	snap := s.Snapshot()
	if snap.Target != "" || snap.Gesture != gesture.NoGesture {
		t.Errorf("unexpected snapshot after reset: %+v", snap)
	}
}
