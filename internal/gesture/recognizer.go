package gesture

import "github.com/rs/zerolog"

const (
	DefaultMotionDeltaThreshold     = 1.0
	DefaultGestureDurationThreshold = 0.25
)

type Config struct {
	// MotionDeltaThreshold is the per-tick delta at or below which an axis
	// counts as still.
	MotionDeltaThreshold float64
	// GestureDurationThreshold bounds each segment of the built-in templates.
	GestureDurationThreshold float64
	NodDown                  bool
}

func DefaultConfig() Config {
	return Config{
		MotionDeltaThreshold:     DefaultMotionDeltaThreshold,
		GestureDurationThreshold: DefaultGestureDurationThreshold,
	}
}

type Option func(*Recognizer)

func WithLogger(l zerolog.Logger) Option {
	return func(r *Recognizer) { r.log = l }
}

// WithTemplates replaces the built-in templates. Order sets match priority.
func WithTemplates(ts ...Template) Option {
	return func(r *Recognizer) {
		r.templates = append([]Template(nil), ts...)
	}
}

type Recognizer struct {
	cfg       Config
	templates []Template
	history   *history
	last      Gesture
	current   Gesture
	log       zerolog.Logger
}

func NewRecognizer(cfg Config, opts ...Option) *Recognizer {
	r := &Recognizer{
		cfg:       cfg,
		templates: DefaultTemplates(cfg.GestureDurationThreshold),
		history:   newHistory(),
		log:       zerolog.Nop(),
	}
	if cfg.NodDown {
		r.templates = append(r.templates, NodDownTemplate(cfg.GestureDurationThreshold))
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Tick classifies one frame of motion and returns the gesture recognized on
// this frame, if any. Matching only runs when the direction changes.
func (r *Recognizer) Tick(deltaYaw, deltaPitch, dt float64) Gesture {
	dt = sanitizeDt(dt)
	r.last = r.current
	r.current = NoGesture

	dir := Classify(deltaYaw, deltaPitch, r.cfg.MotionDeltaThreshold)
	tail := r.history.tail()
	if dir == tail.Direction {
		tail.Duration += dt
		return NoGesture
	}

	r.history.Push(MotionSample{Direction: dir})
	r.current = r.match()
	if r.current != NoGesture {
		r.log.Debug().Stringer("gesture", r.current).Msg("gesture recognized")
	}
	return r.current
}

func (r *Recognizer) match() Gesture {
	for _, t := range r.templates {
		if t.matches(r.history) {
			return t.gesture
		}
	}
	return NoGesture
}

// JustGestured reports whether g was recognized on the latest tick but not on
// the one before.
func (r *Recognizer) JustGestured(g Gesture) bool {
	return r.current == g && r.last != g
}

func (r *Recognizer) Current() Gesture { return r.current }

// History returns the motion samples oldest first.
func (r *Recognizer) History() []MotionSample { return r.history.Slice() }

func (r *Recognizer) Templates() []Template {
	return append([]Template(nil), r.templates...)
}

func (r *Recognizer) Config() Config { return r.cfg }

func (r *Recognizer) Reset() {
	r.history.reset()
	r.last = NoGesture
	r.current = NoGesture
}
