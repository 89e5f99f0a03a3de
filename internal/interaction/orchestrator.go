// Package interaction ties gesture recognition to object targeting.
//
// Each tick the [Orchestrator] feeds head motion to its recognizer, reacts to
// gesture edges (shake drops the target, nod toggles the follow distance) and,
// unless its target is already selected, re-targets whatever the camera ray
// hits on the selectable layer.
package interaction

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/gesture"
	"github.com/san-kum/headsim/internal/selection"
)

const (
	DefaultFocusDistance = 2.5
	DefaultSelectionMask = uint32(1)
)

// Selectable is the capability the orchestrator drives. It never sees
// concrete object types.
type Selectable interface {
	IsSelected() bool
	Select(s selection.Selector)
	Deselect()
}

type Hit struct {
	Target   Selectable
	Point    mgl64.Vec3
	Distance float64
}

type Raycaster interface {
	RaycastSelectable(origin, dir mgl64.Vec3, mask uint32) (Hit, bool)
}

type Camera interface {
	Position() mgl64.Vec3
	Forward() mgl64.Vec3
}

type Config struct {
	FocusDistance float64
	SelectionMask uint32
}

func DefaultConfig() Config {
	return Config{
		FocusDistance: DefaultFocusDistance,
		SelectionMask: DefaultSelectionMask,
	}
}

type Option func(*Orchestrator)

func WithLogger(l zerolog.Logger) Option {
	return func(o *Orchestrator) { o.log = l }
}

// WithGestureHook registers a callback fired once per gesture edge.
func WithGestureHook(fn func(gesture.Gesture)) Option {
	return func(o *Orchestrator) { o.onGesture = fn }
}

type Orchestrator struct {
	cfg        Config
	recognizer *gesture.Recognizer
	camera     Camera
	raycaster  Raycaster

	target          Selectable
	anchor          mgl64.Vec3
	focused         bool
	objectFocusDist float64

	onGesture func(gesture.Gesture)
	log       zerolog.Logger
}

func New(cfg Config, rec *gesture.Recognizer, cam Camera, rc Raycaster, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:        cfg,
		recognizer: rec,
		camera:     cam,
		raycaster:  rc,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// FollowAnchor is the point a selected object is smoothed toward.
func (o *Orchestrator) FollowAnchor() mgl64.Vec3 { return o.anchor }

func (o *Orchestrator) Target() Selectable              { return o.target }
func (o *Orchestrator) Focused() bool                   { return o.focused }
func (o *Orchestrator) Recognizer() *gesture.Recognizer { return o.recognizer }

func (o *Orchestrator) JustGestured(g gesture.Gesture) bool {
	return o.recognizer.JustGestured(g)
}

// Tick runs one frame of gesture handling and targeting.
func (o *Orchestrator) Tick(deltaYaw, deltaPitch, dt float64) {
	o.recognizer.Tick(deltaYaw, deltaPitch, dt)

	if o.recognizer.JustGestured(gesture.Shake) {
		o.emit(gesture.Shake)
		o.retarget(nil)
	}

	if o.recognizer.JustGestured(gesture.Nod) {
		o.emit(gesture.Nod)
		o.toggleFocus()
	}

	if o.target == nil || !o.target.IsSelected() {
		o.updateTargeting()
	}
}

func (o *Orchestrator) emit(g gesture.Gesture) {
	o.log.Debug().Stringer("gesture", g).Msg("gesture edge")
	if o.onGesture != nil {
		o.onGesture(g)
	}
}

// toggleFocus moves the anchor along the view ray: leaving focus returns to
// the distance the object was picked up at, entering focus pulls it to the
// fixed focus distance.
func (o *Orchestrator) toggleFocus() {
	if o.camera == nil {
		o.focused = !o.focused
		return
	}
	dist := o.cfg.FocusDistance
	if o.focused {
		dist = o.objectFocusDist
	}
	o.anchor = o.camera.Position().Add(o.camera.Forward().Mul(dist))
	o.focused = !o.focused
	o.log.Debug().Bool("focused", o.focused).Float64("distance", dist).Msg("focus toggled")
}

func (o *Orchestrator) updateTargeting() {
	if o.camera == nil || o.raycaster == nil {
		o.retarget(nil)
		return
	}

	hit, ok := o.raycaster.RaycastSelectable(o.camera.Position(), o.camera.Forward(), o.cfg.SelectionMask)
	if !ok || hit.Target == nil {
		o.retarget(nil)
		return
	}

	o.retarget(hit.Target)
	o.anchor = hit.Point
	o.objectFocusDist = hit.Distance
	o.focused = false
}

// retarget deselects the previous target when it changes, then asks the new
// one to select. Select is a no-op for objects already selecting or cooling
// down, so reissuing it for the same target only matters once its timer has
// drained.
func (o *Orchestrator) retarget(obj Selectable) {
	if obj != o.target && o.target != nil {
		o.log.Debug().Msg("deselecting previous target")
		o.target.Deselect()
	}
	o.target = obj
	if o.target != nil {
		o.target.Select(o)
	}
}
