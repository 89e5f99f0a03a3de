package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/san-kum/headsim/internal/feedback"
	"github.com/san-kum/headsim/internal/selection"
)

const DefaultLayer = uint32(1)

// ObjectSpec describes an object's initial placement.
type ObjectSpec struct {
	Name     string
	Position mgl64.Vec3
	Radius   float64
	Layer    uint32
}

// Object is a manipulable sphere: a body, its selection machine and the
// outline showing selection progress.
type Object struct {
	ID      uuid.UUID
	Name    string
	Layer   uint32
	Body    *Body
	Machine *selection.Machine
	Outline *feedback.Outline
	Render  *feedback.Recorder

	spec ObjectSpec
}

func NewObject(spec ObjectSpec, sel selection.Config, maxOutlineWidth float64, log zerolog.Logger) *Object {
	if spec.Layer == 0 {
		spec.Layer = DefaultLayer
	}
	o := &Object{
		ID:    uuid.New(),
		Name:  spec.Name,
		Layer: spec.Layer,
		spec:  spec,
	}
	o.build(sel, maxOutlineWidth, log.With().Str("object", spec.Name).Logger())
	return o
}

func (o *Object) build(sel selection.Config, maxOutlineWidth float64, log zerolog.Logger) {
	o.Body = NewBody(o.spec.Position, o.spec.Radius)
	o.Render = &feedback.Recorder{}
	o.Outline = feedback.NewOutline(o.Render, maxOutlineWidth)
	o.Machine = selection.New(sel,
		selection.WithBody(o.Body),
		selection.WithFeedback(o.Outline),
		selection.WithLogger(log),
	)
}

func (o *Object) IsSelected() bool            { return o.Machine.IsSelected() }
func (o *Object) Select(s selection.Selector) { o.Machine.Select(s) }
func (o *Object) Deselect()                   { o.Machine.Deselect() }

// Tick advances selection, feedback and physics for one frame.
func (o *Object) Tick(dt, gravity, floor float64) {
	follow := o.Body.Position()
	if owner := o.Machine.Owner(); owner != nil {
		follow = owner.FollowAnchor()
	}
	o.Machine.Tick(dt, follow)
	o.Outline.Tick(dt)
	o.Body.Step(dt, gravity, floor)
}
