package gesture

import "fmt"

type Gesture int

const (
	NoGesture Gesture = iota
	Shake
	Nod
)

func (g Gesture) String() string {
	switch g {
	case NoGesture:
		return "none"
	case Shake:
		return "shake"
	case Nod:
		return "nod"
	}
	return fmt.Sprintf("gesture(%d)", int(g))
}

// ParseGesture is the inverse of Gesture.String.
func ParseGesture(s string) (Gesture, error) {
	switch s {
	case "none", "":
		return NoGesture, nil
	case "shake":
		return Shake, nil
	case "nod":
		return Nod, nil
	}
	return NoGesture, fmt.Errorf("unknown gesture: %s", s)
}

func (g Gesture) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

func (g *Gesture) UnmarshalText(text []byte) error {
	parsed, err := ParseGesture(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// Template is an immutable pattern of motion samples, newest first, tagged
// with the gesture it stands for.
type Template struct {
	name    string
	gesture Gesture
	pattern []MotionSample
}

func NewTemplate(name string, g Gesture, pattern ...MotionSample) Template {
	p := make([]MotionSample, len(pattern))
	copy(p, pattern)
	return Template{name: name, gesture: g, pattern: p}
}

// Bounded builds a template where every segment shares the same duration
// bound.
func Bounded(name string, g Gesture, bound float64, dirs ...Direction) Template {
	pattern := make([]MotionSample, len(dirs))
	for i, d := range dirs {
		pattern[i] = MotionSample{Direction: d, Duration: bound}
	}
	return Template{name: name, gesture: g, pattern: pattern}
}

func (t Template) Name() string     { return t.name }
func (t Template) Gesture() Gesture { return t.gesture }
func (t Template) Len() int         { return len(t.pattern) }

func (t Template) Pattern() []MotionSample {
	p := make([]MotionSample, len(t.pattern))
	copy(p, t.pattern)
	return p
}

// matches compares the pattern head against the history tail, walking the
// history backwards.
func (t Template) matches(h *history) bool {
	hi := h.Len() - 1
	for pi := range t.pattern {
		if hi < 0 {
			return false
		}
		got := h.At(hi)
		want := t.pattern[pi]
		if got.Direction != want.Direction || got.Duration > want.Duration {
			return false
		}
		hi--
	}
	return true
}

// DefaultTemplates returns the built-in shake and nod patterns in match
// priority order.
func DefaultTemplates(bound float64) []Template {
	return []Template{
		Bounded("shake-left", Shake, bound, Left, None, Right, None, Left),
		Bounded("shake-right", Shake, bound, Right, None, Left, None, Right),
		Bounded("nod-up", Nod, bound, Up, None, Down, None, Up),
	}
}

// NodDownTemplate is the downward-first nod. It is off by default.
func NodDownTemplate(bound float64) Template {
	return Bounded("nod-down", Nod, bound, Down, None, Up, None, Down)
}
