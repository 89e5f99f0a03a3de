package sim

import (
	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/selection"
)

// Frame is the observable state of a session after one step.
type Frame struct {
	Step       int             `json:"step"`
	Time       float64         `json:"time"`
	RawX       float64         `json:"raw_x"`
	RawY       float64         `json:"raw_y"`
	Yaw        float64         `json:"yaw"`
	Pitch      float64         `json:"pitch"`
	Gesture    gesture.Gesture `json:"gesture"`
	Target     string          `json:"target,omitempty"`
	State      selection.State `json:"state"`
	Progress   float64         `json:"progress"`
	Focused    bool            `json:"focused"`
	HistoryLen int             `json:"history_len"`
	Label      string          `json:"label,omitempty"`
}

// GestureEvent records a gesture edge and what was targeted when it fired.
type GestureEvent struct {
	Step    int             `json:"step"`
	Time    float64         `json:"time"`
	Gesture gesture.Gesture `json:"gesture"`
	Target  string          `json:"target,omitempty"`
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(f Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

func (fn ObserverFunc) OnStep(f Frame) { fn(f) }

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Frames     []Frame
	Gestures   []GestureEvent
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last frame, or a zero frame for an empty result.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// Series extracts one float column from the frames.
func (r *Result) Series(fn func(Frame) float64) []float64 {
	out := make([]float64, len(r.Frames))
	for i, f := range r.Frames {
		out[i] = fn(f)
	}
	return out
}
