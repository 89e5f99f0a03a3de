package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/config"
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/input"
	"github.com/san-kum/headsim/internal/sim"
)

func scenario(t *testing.T, name string) (*config.Config, *input.Trace) {
	t.Helper()
	trace, err := input.NewRegistry().Get(name)
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.Session.Duration = trace.Duration()
	return cfg, trace
}

func TestNewGridSearchValidates(t *testing.T) {
	tests := []struct {
		name   string
		params []string
		ranges [][]float64
		want   error
	}{
		{"empty", nil, nil, ErrEmptyGrid},
		{"mismatched", []string{"selection_time"}, nil, ErrEmptyGrid},
		{"unknown", []string{"gravity"}, [][]float64{{1}}, ErrUnknownParam},
		{"no values", []string{"selection_time"}, [][]float64{{}}, ErrEmptyGrid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGridSearch(nil, tt.params, tt.ranges, zerolog.Nop())
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestGridSearchFindsWorkingThresholds(t *testing.T) {
	base, trace := scenario(t, "shake")

	gs, err := NewGridSearch(base,
		[]string{"motion_delta_threshold", "gesture_duration_threshold"},
		[][]float64{{5.0, 1.0}, {0.05, 0.25}},
		zerolog.Nop(),
	)
	if err != nil {
		t.Fatal(err)
	}

	best, all, err := gs.Search(context.Background(), trace, GestureError(Expected["shake"]))
	if err != nil {
		t.Fatal(err)
	}

	if len(all) != 4 {
		t.Fatalf("expected 4 candidates, got %d", len(all))
	}
	if best.Score != 0 {
		t.Errorf("expected a perfect score, got %v", best.Score)
	}
	if best.Params["motion_delta_threshold"] != 1.0 || best.Params["gesture_duration_threshold"] != 0.25 {
		t.Errorf("unexpected best params %v", best.Params)
	}

	// grid order: threshold outer, bound inner
	for i, want := range []float64{1, 1, 1, 0} {
		if all[i].Score != want {
			t.Errorf("candidate %d (%v): score %v, want %v", i, all[i].Params, all[i].Score, want)
		}
	}
}

func TestGridSearchSkipsInvalidPoints(t *testing.T) {
	base, trace := scenario(t, "idle")

	gs, err := NewGridSearch(base, []string{"selection_time"}, [][]float64{{-1, 0.5}}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	best, all, err := gs.Search(context.Background(), trace, Metric("time_to_select"))
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected the invalid point to be skipped, got %d candidates", len(all))
	}
	if best.Params["selection_time"] != 0.5 {
		t.Errorf("unexpected best %v", best.Params)
	}
}

func TestGridSearchDoesNotMutateBase(t *testing.T) {
	base, trace := scenario(t, "idle")

	gs, err := NewGridSearch(base, []string{"sensitivity"}, [][]float64{{3}}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := gs.Search(context.Background(), trace, Metric("time_to_select")); err != nil {
		t.Fatal(err)
	}
	if base.Camera.Yaw.Sensitivity != config.DefaultSensitivity {
		t.Errorf("base config changed: %v", base.Camera.Yaw.Sensitivity)
	}
}

func TestGestureError(t *testing.T) {
	res := &sim.Result{Gestures: []sim.GestureEvent{
		{Gesture: gesture.Nod},
		{Gesture: gesture.Shake},
		{Gesture: gesture.Nod},
	}}

	if got := GestureError(map[gesture.Gesture]int{gesture.Nod: 2})(res); got != 1 {
		t.Errorf("expected 1 spurious shake, got %v", got)
	}
	if got := GestureError(nil)(res); got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestMetricObjectiveMissing(t *testing.T) {
	if got := Metric("nope")(&sim.Result{}); got <= 1e300 {
		t.Errorf("missing metric should score +Inf, got %v", got)
	}
}
