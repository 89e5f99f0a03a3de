package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AxisSettings scales raw input on one rotation axis and bounds the
// accumulated angle to ±Range degrees.
type AxisSettings struct {
	Sensitivity float64
	Range       float64
}

// CameraRig rotates a camera about a yaw pivot and a pitch pivot.
type CameraRig struct {
	Origin mgl64.Vec3
	Yaw    AxisSettings
	Pitch  AxisSettings

	yaw   float64
	pitch float64
}

func NewCameraRig(origin mgl64.Vec3, yaw, pitch AxisSettings) *CameraRig {
	return &CameraRig{Origin: origin, Yaw: yaw, Pitch: pitch}
}

// Apply turns raw horizontal/vertical axis input into rotation and returns
// the per-frame yaw and pitch deltas. Vertical input is inverted so that
// pushing up looks up.
func (c *CameraRig) Apply(rawX, rawY float64) (deltaYaw, deltaPitch float64) {
	deltaYaw = rawX * c.Yaw.Sensitivity
	deltaPitch = -rawY * c.Pitch.Sensitivity

	c.yaw = mgl64.Clamp(c.yaw+deltaYaw, -c.Yaw.Range, c.Yaw.Range)
	c.pitch = mgl64.Clamp(c.pitch+deltaPitch, -c.Pitch.Range, c.Pitch.Range)
	return deltaYaw, deltaPitch
}

// Angles returns the accumulated yaw and pitch in degrees.
func (c *CameraRig) Angles() (yaw, pitch float64) { return c.yaw, c.pitch }

func (c *CameraRig) SetAngles(yaw, pitch float64) {
	c.yaw = mgl64.Clamp(yaw, -c.Yaw.Range, c.Yaw.Range)
	c.pitch = mgl64.Clamp(pitch, -c.Pitch.Range, c.Pitch.Range)
}

func (c *CameraRig) Position() mgl64.Vec3 { return c.Origin }

func (c *CameraRig) Forward() mgl64.Vec3 {
	y := mgl64.DegToRad(c.yaw)
	p := mgl64.DegToRad(c.pitch)
	return mgl64.Vec3{
		math.Sin(y) * math.Cos(p),
		-math.Sin(p),
		-math.Cos(y) * math.Cos(p),
	}
}

// Up is the camera's up vector after yaw and pitch.
func (c *CameraRig) Up() mgl64.Vec3 {
	y := mgl64.DegToRad(c.yaw)
	p := mgl64.DegToRad(c.pitch)
	return mgl64.Vec3{
		math.Sin(y) * math.Sin(p),
		math.Cos(p),
		-math.Cos(y) * math.Sin(p),
	}
}
