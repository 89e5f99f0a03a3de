package selection

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

const (
	DefaultSelectionTime   = 0.5
	DefaultFollowFactor    = 1.0
	DefaultMaxOutlineWidth = 0.01

	// timerEpsilon absorbs float drift when dt sums land on SelectionTime.
	timerEpsilon = 1e-9
)

type State int

const (
	Unselected State = iota
	Selecting
	Selected
)

func (s State) String() string {
	switch s {
	case Unselected:
		return "unselected"
	case Selecting:
		return "selecting"
	case Selected:
		return "selected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func ParseState(s string) (State, error) {
	switch s {
	case "unselected":
		return Unselected, nil
	case "selecting":
		return Selecting, nil
	case "selected":
		return Selected, nil
	}
	return Unselected, fmt.Errorf("unknown selection state: %s", s)
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Selector is whoever holds an object selected. Selected objects follow its
// anchor.
type Selector interface {
	FollowAnchor() mgl64.Vec3
}

// Body is the physical side of a manipulable object.
type Body interface {
	Position() mgl64.Vec3
	SetPosition(p mgl64.Vec3)
	SetUseGravity(enabled bool)
	SetVelocity(v mgl64.Vec3)
}

// Pulse is a running cosmetic effect.
type Pulse interface {
	Cancel()
}

// Feedback renders selection progress. Intensity is in [0, 1].
type Feedback interface {
	SetIntensity(t float64)
	StartPulse() Pulse
}

type Config struct {
	SelectionTime float64
	FollowFactor  float64
}

func DefaultConfig() Config {
	return Config{
		SelectionTime: DefaultSelectionTime,
		FollowFactor:  DefaultFollowFactor,
	}
}

type Option func(*Machine)

func WithBody(b Body) Option         { return func(m *Machine) { m.body = b } }
func WithFeedback(f Feedback) Option { return func(m *Machine) { m.feedback = f } }

func WithLogger(l zerolog.Logger) Option {
	return func(m *Machine) { m.log = l }
}

type Machine struct {
	cfg      Config
	state    State
	timer    float64
	owner    Selector
	pulse    Pulse
	body     Body
	feedback Feedback
	log      zerolog.Logger
}

func New(cfg Config, opts ...Option) *Machine {
	m := &Machine{cfg: cfg, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State     { return m.state }
func (m *Machine) Timer() float64   { return m.timer }
func (m *Machine) Owner() Selector  { return m.owner }
func (m *Machine) IsSelected() bool { return m.state >= Selected }
func (m *Machine) Config() Config   { return m.cfg }

// Progress is the selection timer as a fraction of SelectionTime.
func (m *Machine) Progress() float64 {
	if m.cfg.SelectionTime <= 0 {
		if m.state == Selected {
			return 1
		}
		return 0
	}
	return clamp01(m.timer / m.cfg.SelectionTime)
}

// Select starts a selection attempt. It does nothing unless the machine is
// unselected and its cooldown timer has fully drained.
func (m *Machine) Select(s Selector) {
	if m.state != Unselected || m.timer > 0 {
		return
	}
	m.owner = s
	m.switchState(Selecting)
}

// Deselect drops the object. The side effects run even when already
// unselected, so repeated calls keep halving the timer.
func (m *Machine) Deselect() {
	if m.pulse != nil {
		m.pulse.Cancel()
		m.pulse = nil
	}
	if m.body != nil {
		m.body.SetUseGravity(true)
		m.body.SetVelocity(mgl64.Vec3{})
	}
	m.timer *= 0.5
	m.owner = nil
	m.switchState(Unselected)
}

// Tick advances the machine by dt. follow is the point a selected object
// moves toward.
func (m *Machine) Tick(dt float64, follow mgl64.Vec3) {
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}

	switch m.state {
	case Unselected:
		m.tickUnselected(dt)
	case Selecting:
		m.tickSelecting(dt)
	case Selected:
		m.tickSelected(dt, follow)
	}
}

func (m *Machine) tickUnselected(dt float64) {
	if m.timer <= 0 {
		return
	}
	m.timer = math.Max(0, m.timer-dt)
	m.updateFeedback()
}

func (m *Machine) tickSelecting(dt float64) {
	if m.timer >= m.cfg.SelectionTime {
		return
	}
	m.timer += dt
	m.updateFeedback()
	if m.timer >= m.cfg.SelectionTime-timerEpsilon {
		m.timer = m.cfg.SelectionTime
		m.switchState(Selected)
	}
}

// tickSelected lerps with t = followFactor*dt, which is not frame-rate
// independent and overshoots once t exceeds 1.
func (m *Machine) tickSelected(dt float64, follow mgl64.Vec3) {
	if m.body == nil {
		return
	}
	pos := m.body.Position()
	t := m.cfg.FollowFactor * dt
	m.body.SetPosition(pos.Add(follow.Sub(pos).Mul(t)))
}

func (m *Machine) switchState(next State) {
	if next == Selected {
		if m.body != nil {
			m.body.SetUseGravity(false)
		}
		if m.feedback != nil {
			m.pulse = m.feedback.StartPulse()
		}
	}
	if next != m.state {
		m.log.Debug().
			Stringer("from", m.state).
			Stringer("to", next).
			Float64("timer", m.timer).
			Msg("selection state changed")
	}
	m.state = next
}

func (m *Machine) updateFeedback() {
	if m.feedback != nil {
		m.feedback.SetIntensity(m.Progress())
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
