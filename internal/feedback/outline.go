// Package feedback turns selection progress into outline width and color,
// and runs the pulse shown on a freshly selected object.
package feedback

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/headsim/internal/selection"
)

var (
	ColdColor = colorful.Color{R: 0, G: 0, B: 1}
	HotColor  = colorful.Color{R: 0, G: 1, B: 0}
)

// Renderer receives outline parameters. Implementations typically forward
// them to a material.
type Renderer interface {
	SetOutlineWidth(w float64)
	SetOutlineColor(c colorful.Color)
}

// Outline implements selection.Feedback on top of a Renderer. A nil renderer
// turns every call into a no-op.
type Outline struct {
	renderer  Renderer
	maxWidth  float64
	cold, hot colorful.Color
	pulse     *Pulse
	intensity float64
}

func NewOutline(r Renderer, maxWidth float64) *Outline {
	return &Outline{
		renderer: r,
		maxWidth: maxWidth,
		cold:     ColdColor,
		hot:      HotColor,
	}
}

// SetIntensity maps t in [0, 1] to width and a cold-to-hot color. Values
// above 1 are allowed and used by the pulse.
func (o *Outline) SetIntensity(t float64) {
	o.intensity = t
	if o.renderer == nil {
		return
	}
	o.renderer.SetOutlineWidth(o.maxWidth * t)
	o.renderer.SetOutlineColor(o.cold.BlendRgb(o.hot, t))
}

func (o *Outline) Intensity() float64 { return o.intensity }

// StartPulse replaces any running pulse with a fresh one.
func (o *Outline) StartPulse() selection.Pulse {
	if o.pulse != nil {
		o.pulse.Cancel()
	}
	o.pulse = NewPulse(DefaultPulseFrom, DefaultPulseTo, DefaultPulsePeriod)
	o.SetIntensity(o.pulse.Value())
	return o.pulse
}

func (o *Outline) Pulsing() bool {
	return o.pulse != nil && o.pulse.Active()
}

// Tick advances the running pulse, if any, and applies its value.
func (o *Outline) Tick(dt float64) {
	if o.pulse == nil {
		return
	}
	if !o.pulse.Active() {
		o.pulse = nil
		return
	}
	o.pulse.Advance(dt)
	o.SetIntensity(o.pulse.Value())
}

// Recorder is a Renderer that keeps the last values it was given.
type Recorder struct {
	Width float64
	Color colorful.Color
	Calls int
}

func (r *Recorder) SetOutlineWidth(w float64) {
	r.Width = w
	r.Calls++
}

func (r *Recorder) SetOutlineColor(c colorful.Color) { r.Color = c }
