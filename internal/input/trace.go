// Package input supplies raw per-tick axis values to a session: recorded
// traces, scripted gesture scenarios and keyboard impulses.
package input

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyTrace      = errors.New("input: trace has no segments")
	ErrInvalidSegment  = errors.New("input: invalid segment")
	ErrUnknownScenario = errors.New("input: unknown scenario")
)

// Segment holds a raw axis value for Duration seconds. X is horizontal
// (positive right) and Y vertical (positive up), like mouse axes.
type Segment struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Duration float64 `yaml:"duration"`
	Label    string  `yaml:"label,omitempty"`
}

type Trace struct {
	Name     string    `yaml:"name"`
	Segments []Segment `yaml:"segments"`
}

func (t *Trace) Validate() error {
	if len(t.Segments) == 0 {
		return ErrEmptyTrace
	}
	for i, s := range t.Segments {
		if s.Duration <= 0 || math.IsNaN(s.Duration) {
			return fmt.Errorf("%w: segment %d has duration %v", ErrInvalidSegment, i, s.Duration)
		}
	}
	return nil
}

// Duration is the total length of the trace in seconds.
func (t *Trace) Duration() float64 {
	total := 0.0
	for _, s := range t.Segments {
		total += s.Duration
	}
	return total
}

func (t *Trace) Add(x, y, duration float64, label string) *Trace {
	t.Segments = append(t.Segments, Segment{X: x, Y: y, Duration: duration, Label: label})
	return t
}

func LoadTrace(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Trace
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse trace %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("trace %s: %w", path, err)
	}
	return &t, nil
}

func SaveTrace(path string, t *Trace) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
