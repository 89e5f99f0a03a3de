package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is a rigid sphere. It satisfies selection.Body.
type Body struct {
	Center     mgl64.Vec3
	Radius     float64
	Velocity   mgl64.Vec3
	UseGravity bool
}

func NewBody(center mgl64.Vec3, radius float64) *Body {
	return &Body{Center: center, Radius: radius, UseGravity: true}
}

func (b *Body) Position() mgl64.Vec3       { return b.Center }
func (b *Body) SetPosition(p mgl64.Vec3)   { b.Center = p }
func (b *Body) SetUseGravity(enabled bool) { b.UseGravity = enabled }
func (b *Body) SetVelocity(v mgl64.Vec3)   { b.Velocity = v }

// Step integrates with semi-implicit Euler and rests the sphere on the floor.
func (b *Body) Step(dt, gravity, floor float64) {
	if dt <= 0 {
		return
	}
	if b.UseGravity {
		b.Velocity[1] -= gravity * dt
	}
	b.Center = b.Center.Add(b.Velocity.Mul(dt))

	if b.Center.Y()-b.Radius < floor {
		b.Center[1] = floor + b.Radius
		if b.Velocity.Y() < 0 {
			b.Velocity[1] = 0
		}
	}
}

// Intersect returns the distance along a normalized ray to the sphere
// surface, or false when the ray misses or starts past it.
func (b *Body) Intersect(origin, dir mgl64.Vec3) (float64, bool) {
	oc := origin.Sub(b.Center)
	half := oc.Dot(dir)
	c := oc.Dot(oc) - b.Radius*b.Radius
	disc := half*half - c
	if disc < 0 {
		return 0, false
	}
	sq := math.Sqrt(disc)
	t := -half - sq
	if t < 0 {
		t = -half + sq
	}
	if t < 0 {
		return 0, false
	}
	return t, true
}
