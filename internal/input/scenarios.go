package input

import (
	"fmt"
	"sort"
)

const (
	// GestureAmplitude is the raw per-tick axis value used for scripted
	// gestures. It must clear the recognizer's motion threshold after
	// sensitivity is applied.
	GestureAmplitude = 2.0
	// GestureSegment keeps each scripted stroke well inside the default
	// 0.25s template bound.
	GestureSegment = 0.1
)

// Shake appends a left-right-left head shake that ends facing where it
// started.
func (t *Trace) Shake(amp, seg float64) *Trace {
	return t.
		Add(-amp, 0, seg, "shake").
		Add(0, 0, seg, "shake").
		Add(2*amp, 0, seg, "shake").
		Add(0, 0, seg, "shake").
		Add(-amp, 0, seg, "shake")
}

// Nod appends an up-down-up nod that ends level. Positive Y looks up.
func (t *Trace) Nod(amp, seg float64) *Trace {
	return t.
		Add(0, amp, seg, "nod").
		Add(0, 0, seg, "nod").
		Add(0, -2*amp, seg, "nod").
		Add(0, 0, seg, "nod").
		Add(0, amp, seg, "nod")
}

func (t *Trace) Hold(seconds float64, label string) *Trace {
	return t.Add(0, 0, seconds, label)
}

// Registry maps scenario names to trace builders.
type Registry struct {
	scenarios map[string]scenario
}

type scenario struct {
	description string
	build       func() *Trace
}

func NewRegistry() *Registry {
	r := &Registry{scenarios: make(map[string]scenario)}

	r.Register("idle", "hold still, targeting whatever is straight ahead", func() *Trace {
		return (&Trace{Name: "idle"}).Hold(3, "idle")
	})
	r.Register("shake", "a single head shake", func() *Trace {
		return (&Trace{Name: "shake"}).Hold(0.3, "settle").Shake(GestureAmplitude, GestureSegment).Hold(0.5, "rest")
	})
	r.Register("nod", "a single head nod", func() *Trace {
		return (&Trace{Name: "nod"}).Hold(0.3, "settle").Nod(GestureAmplitude, GestureSegment).Hold(0.5, "rest")
	})
	r.Register("select-and-shake", "select the object ahead, then shake it loose", func() *Trace {
		return (&Trace{Name: "select-and-shake"}).
			Hold(1.0, "select").
			Shake(GestureAmplitude, GestureSegment).
			Hold(1.5, "rest")
	})
	r.Register("select-and-nod", "select, nod to pull the object in, nod to push it back", func() *Trace {
		return (&Trace{Name: "select-and-nod"}).
			Hold(1.0, "select").
			Nod(GestureAmplitude, GestureSegment).
			Hold(1.5, "focused").
			Nod(GestureAmplitude, GestureSegment).
			Hold(1.5, "unfocused")
	})
	r.Register("sweep", "pan slowly across the scene without gesturing", func() *Trace {
		return (&Trace{Name: "sweep"}).
			Add(-0.8, 0, 1.0, "pan-left").
			Add(0.8, 0, 2.0, "pan-right").
			Add(-0.8, 0, 1.0, "pan-back")
	})

	return r
}

func (r *Registry) Register(name, description string, build func() *Trace) {
	r.scenarios[name] = scenario{description: description, build: build}
}

func (r *Registry) Get(name string) (*Trace, error) {
	s, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return s.build(), nil
}

func (r *Registry) Describe(name string) string {
	return r.scenarios[name].description
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
