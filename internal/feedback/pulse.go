package feedback

import "math"

const (
	DefaultPulseFrom   = 1.1
	DefaultPulseTo     = 0.5
	DefaultPulsePeriod = 1.0
)

// Pulse is a ping-pong tween between two values with sine ease in/out. It is
// advanced by its owner each frame and stops for good once canceled.
type Pulse struct {
	from, to float64
	period   float64
	phase    float64
	forward  bool
	canceled bool
}

func NewPulse(from, to, period float64) *Pulse {
	if period <= 0 {
		period = DefaultPulsePeriod
	}
	return &Pulse{from: from, to: to, period: period, forward: true}
}

func (p *Pulse) Advance(dt float64) {
	if p.canceled || dt <= 0 {
		return
	}
	step := dt / p.period
	for step > 0 {
		remaining := 1 - p.phase
		if step < remaining {
			p.phase += step
			return
		}
		step -= remaining
		p.phase = 0
		p.forward = !p.forward
	}
}

func (p *Pulse) Value() float64 {
	t := easeInOutSine(p.phase)
	if !p.forward {
		t = 1 - t
	}
	return p.from + (p.to-p.from)*t
}

func (p *Pulse) Cancel()      { p.canceled = true }
func (p *Pulse) Active() bool { return !p.canceled }

func easeInOutSine(t float64) float64 {
	return -(math.Cos(math.Pi*t) - 1) / 2
}
